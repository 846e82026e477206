package predict

import (
	"context"
	"time"

	"phishing-url-dataset/features"
	"phishing-url-dataset/labeling"
	"phishing-url-dataset/registration"
)

type Verdict struct {
	URL          string          `json:"url"`
	Domain       string          `json:"domain"`
	CreationDate string          `json:"creation_date"`
	IsPhishing   int             `json:"is_phishing"`
	Confidence   float64         `json:"confidence"`
	Features     features.Vector `json:"features"`
	Timestamp    string          `json:"timestamp"`
}

func (v Verdict) Phishing() bool {
	return v.IsPhishing == labeling.Phishing
}

// Predictor runs a single URL through the same extraction used for the dataset and
// scores it with a trained classifier.
type Predictor struct {
	model    Classifier
	resolver registration.Resolver
	clock    func() time.Time
}

func NewPredictor(model Classifier, resolver registration.Resolver) *Predictor {
	return &Predictor{
		model:    model,
		resolver: resolver,
		clock:    time.Now,
	}
}

// Predict never fails on a bad URL: one without a hostname is scored on its sentinel features.
// Confidence is the probability of the returned class; ties go to benign.
func (p *Predictor) Predict(ctx context.Context, url string) Verdict {
	now := p.clock().UTC()
	rec := features.Extract(ctx, url, p.resolver, now)

	prob := p.model.Probability(rec.Values())
	v := Verdict{
		URL:          url,
		Domain:       rec.Domain,
		CreationDate: rec.Created.String(),
		IsPhishing:   labeling.Benign,
		Confidence:   1 - prob,
		Features:     rec.Vector,
		Timestamp:    now.Format(time.RFC3339),
	}
	if prob > 0.5 {
		v.IsPhishing = labeling.Phishing
		v.Confidence = prob
	}
	return v
}
