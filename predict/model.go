package predict

import (
	"encoding/json"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"strings"

	"phishing-url-dataset/features"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

var (
	ErrModelNotFound = errors.New("model artifact not found")
	ErrFeatureOrder  = errors.New("model features do not match the extracted feature order")
)

// Classifier scores a feature vector given in features.Columns order.
type Classifier interface {
	// Probability returns the probability that the vector belongs to the phishing class.
	Probability(x []float64) float64
}

// LogisticModel is a linear classifier artifact. Training happens outside this module;
// the artifact only has to follow the features.Columns contract. The bundled
// models/phishing_model.yml is an untrained placeholder with hand-picked weights.
type LogisticModel struct {
	Name         string    `yaml:"name" json:"name"`
	Features     []string  `yaml:"features" json:"features"`
	Coefficients []float64 `yaml:"coefficients" json:"coefficients"`
	Intercept    float64   `yaml:"intercept" json:"intercept"`
}

func (m *LogisticModel) Probability(x []float64) float64 {
	z := m.Intercept
	for i, c := range m.Coefficients {
		if i < len(x) {
			z += c * x[i]
		}
	}
	return 1 / (1 + math.Exp(-z))
}

// Validate checks the artifact against the feature contract.
func (m *LogisticModel) Validate() error {
	if len(m.Features) != len(features.Columns) {
		return errors.Wrapf(ErrFeatureOrder, "expected %d features, got %d", len(features.Columns), len(m.Features))
	}
	for i, f := range m.Features {
		if f != features.Columns[i] {
			return errors.Wrapf(ErrFeatureOrder, "position %d: expected %q, got %q", i, features.Columns[i], f)
		}
	}
	if len(m.Coefficients) != len(m.Features) {
		return errors.Errorf("model has %d coefficients for %d features", len(m.Coefficients), len(m.Features))
	}
	return nil
}

// LoadModel reads a YAML or JSON model artifact. A missing file yields ErrModelNotFound.
func LoadModel(path string) (*LogisticModel, error) {
	if path == "" {
		return nil, ErrModelNotFound
	}
	b, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(ErrModelNotFound, path)
	}
	if err != nil {
		return nil, errors.Wrap(err, "read model")
	}

	var m LogisticModel
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(b, &m)
	} else {
		err = yaml.UnmarshalStrict(b, &m)
	}
	if err != nil {
		return nil, errors.Wrap(err, "decode model")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &m, nil
}
