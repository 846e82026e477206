package app

import (
	"io/ioutil"
	"os"
	"strings"
	"time"

	"phishing-url-dataset/labeling"
	"phishing-url-dataset/registration"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

const (
	EnvPort      = "PORT"
	EnvModelPath = "MODEL_PATH"
	EnvSentryDsn = "SENTRY_DSN"
	EnvLogLevel  = "LOG_LEVEL"
)

type ConfigErr struct {
	errs []string
}

func (ce *ConfigErr) Add(s string) {
	ce.errs = append(ce.errs, s)
}

func (ce *ConfigErr) Error() string {
	return "config err: " + strings.Join(ce.errs, ",")
}

func (ce *ConfigErr) IsError() bool {
	return len(ce.errs) > 0
}

func NewConfigErr() ConfigErr {
	return ConfigErr{
		errs: []string{},
	}
}

type Inputs struct {
	Sources []string `yaml:"sources"`
}

type Store struct {
	Raw      string `yaml:"raw"`
	Features string `yaml:"features"`
	Labeled  string `yaml:"labeled"`
}

type Sampling struct {
	Size int   `yaml:"size"`
	Seed int64 `yaml:"seed"`
}

type Whois struct {
	registration.WhoisOptions `yaml:",inline"`
	Workers                   int  `yaml:"workers"`
	CacheSize                 int  `yaml:"cache_size"`
	RetryUnknown              bool `yaml:"retry_unknown"`
	Offline                   bool `yaml:"offline"`
}

type Model struct {
	Path string `yaml:"path"`
}

type Server struct {
	Port          string        `yaml:"port"`
	LookupTimeout time.Duration `yaml:"lookup_timeout"`
}

type Config struct {
	LogLevel string              `yaml:"log_level"`
	Inputs   Inputs              `yaml:"inputs"`
	Store    Store               `yaml:"store"`
	Sampling Sampling            `yaml:"sampling"`
	Whois    Whois               `yaml:"whois"`
	Labeling labeling.Thresholds `yaml:"labeling"`
	Model    Model               `yaml:"model"`
	Server   Server              `yaml:"server"`
	Sentry   Sentry              `yaml:"sentry"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Inputs: Inputs{
			Sources: []string{
				"data/raw/discovered_urls.txt",
				"data/raw/typosquat_domains.txt",
			},
		},
		Store: Store{
			Raw:      "data/processed/url_features_raw.csv",
			Features: "data/processed/url_features.csv",
			Labeled:  "data/processed/labeled_features.csv",
		},
		Sampling: Sampling{
			Size: 5000,
			Seed: 42,
		},
		Whois: Whois{
			WhoisOptions: registration.DefaultWhoisOptions(),
			Workers:      1,
			CacheSize:    10000,
		},
		Labeling: labeling.DefaultThresholds(),
		Model: Model{
			Path: "models/phishing_model.yml",
		},
		Server: Server{
			Port:          "8080",
			LookupTimeout: 15 * time.Second,
		},
	}
}

// ReadConfig loads .env, then the config file on top of the defaults, then the
// environment overrides. An empty path means defaults only.
func ReadConfig(path string) (Config, error) {
	_ = godotenv.Load()

	conf := DefaultConfig()
	if path != "" {
		f, err := ioutil.ReadFile(path)
		if err != nil {
			return conf, errors.Wrap(err, "read config file")
		}
		if err := yaml.Unmarshal(f, &conf); err != nil {
			return conf, errors.Wrap(err, "unmarshal config file")
		}
	}

	if v := os.Getenv(EnvPort); v != "" {
		conf.Server.Port = v
	}
	if v := os.Getenv(EnvModelPath); v != "" {
		conf.Model.Path = v
	}
	if v := os.Getenv(EnvSentryDsn); v != "" {
		conf.Sentry.Enabled = true
		conf.Sentry.Dsn = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		conf.LogLevel = v
	}

	return conf, nil
}

func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

func (c *Config) IsValid() error {
	ce := NewConfigErr()
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		ce.Add("unknown log level " + c.LogLevel)
	}
	if len(c.Inputs.Sources) == 0 {
		ce.Add("at least one input source is required")
	}
	if c.Store.Raw == "" || c.Store.Features == "" || c.Store.Labeled == "" {
		ce.Add("store paths cannot be empty")
	}
	if c.Sampling.Size < 0 {
		ce.Add("sample size cannot be negative")
	}
	if c.Whois.Workers < 1 {
		ce.Add("whois workers must be at least 1")
	}
	if c.Whois.CacheSize < 1 {
		ce.Add("whois cache size must be at least 1")
	}
	if c.Whois.Retries < 0 {
		ce.Add("whois retries cannot be negative")
	}
	if c.Labeling.NewDomainMaxAge < 0 {
		ce.Add("new domain max age cannot be negative")
	}
	if c.Labeling.MissingAgeImputed <= c.Labeling.NewDomainMaxAge {
		ce.Add("imputed age must exceed the new domain max age")
	}
	if c.Server.Port == "" {
		ce.Add("server port cannot be empty")
	}
	if c.Server.LookupTimeout <= 0 {
		ce.Add("lookup timeout must be positive")
	}
	if err := c.Sentry.IsValid(); err != nil {
		ce.Add(err.Error())
	}
	if ce.IsError() {
		return &ce
	}
	return nil
}
