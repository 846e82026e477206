package app

import (
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type LogOptions struct {
	Tags map[string]string
	Msg  string
}

// ErrLogger reports errors that do not stop the program.
type ErrLogger interface {
	Log(error, LogOptions)
}

type Sentry struct {
	Enabled bool   `yaml:"enabled"`
	Dsn     string `yaml:"dsn"`
}

func (s *Sentry) IsValid() error {
	if !s.Enabled {
		return nil
	}
	ce := NewConfigErr()
	if s.Dsn == "" {
		ce.Add("dsn cannot be empty")
	}
	if ce.IsError() {
		return &ce
	}
	return nil
}

type SentryHub struct {
	client *sentry.Client
}

func NewSentryHub(conf Sentry) (*SentryHub, error) {
	opts := sentry.ClientOptions{
		Dsn: conf.Dsn,
	}
	c, err := sentry.NewClient(opts)
	if err != nil {
		return nil, err
	}
	return &SentryHub{client: c}, nil
}

func (hub *SentryHub) GetLogger(tags map[string]string) ErrLogger {
	scope := sentry.NewScope()
	for k, v := range tags {
		scope.SetTag(k, v)
	}
	return &sentryLogger{
		h: sentry.NewHub(hub.client, scope),
	}
}

type sentryLogger struct {
	h *sentry.Hub
}

func (l *sentryLogger) Log(err error, opts LogOptions) {
	scope := l.h.PushScope()
	defer l.h.PopScope()
	for k, v := range opts.Tags {
		scope.SetTag(k, v)
	}
	if opts.Msg != "" {
		scope.SetExtra("msg", opts.Msg)
	}
	l.h.CaptureException(err)
	l.h.Flush(100 * time.Millisecond)
}

type zeroLogger struct {
	l zerolog.Logger
}

func (l *zeroLogger) Log(err error, opts LogOptions) {
	ev := l.l.Error().Err(err)
	for k, v := range opts.Tags {
		ev = ev.Str(k, v)
	}
	ev.Msg(opts.Msg)
}

func NewZeroLogger(l zerolog.Logger) ErrLogger {
	return &zeroLogger{l: l}
}

type errLogChain struct {
	loggers []ErrLogger
}

func (chain *errLogChain) Log(err error, opts LogOptions) {
	for _, l := range chain.loggers {
		l.Log(err, opts)
	}
}

func (chain *errLogChain) Add(el ErrLogger) {
	chain.loggers = append(chain.loggers, el)
}

func NewErrLogChain(loggers ...ErrLogger) *errLogChain {
	return &errLogChain{
		loggers: loggers,
	}
}

// SetupLogging points the global logger at a console writer and applies the configured level.
func SetupLogging(conf Config) {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})
	zerolog.SetGlobalLevel(conf.Level())
}

// NewErrLogger builds the error chain for a tool: always zerolog, plus Sentry when enabled.
func NewErrLogger(conf Config, tags map[string]string) ErrLogger {
	ctx := log.Logger.With()
	for k, v := range tags {
		ctx = ctx.Str(k, v)
	}
	chain := NewErrLogChain(NewZeroLogger(ctx.Logger()))

	if conf.Sentry.Enabled {
		hub, err := NewSentryHub(conf.Sentry)
		if err != nil {
			log.Warn().Msgf("error while creating sentry hub: %s", err)
			return chain
		}
		chain.Add(hub.GetLogger(tags))
	}
	return chain
}
