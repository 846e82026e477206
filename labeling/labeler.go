package labeling

import (
	"fmt"
	"strings"

	"phishing-url-dataset/features"

	"github.com/rs/zerolog"
)

const (
	Benign   = 0
	Phishing = 1
)

type Labeled struct {
	features.Record
	IsPhishing int
	Rules      []string
}

type RuleCount struct {
	Rule    string `json:"rule"`
	Matched int    `json:"matched"`
	Added   int    `json:"added"`
}

// Report summarises a labeling pass for auditing
type Report struct {
	Total    int         `json:"total"`
	Rules    []RuleCount `json:"rules"`
	Phishing int         `json:"phishing"`
	Benign   int         `json:"benign"`
}

func (r Report) String() string {
	parts := make([]string, 0, len(r.Rules))
	for _, rc := range r.Rules {
		parts = append(parts, fmt.Sprintf("%s: %d matched, %d added", rc.Rule, rc.Matched, rc.Added))
	}
	return fmt.Sprintf("%d records, %d phishing, %d benign. Rules: %s",
		r.Total, r.Phishing, r.Benign, strings.Join(parts, "; "))
}

type Labeler struct {
	rules             []Rule
	missingAgeImputed int
	logger            zerolog.Logger
}

func NewLabeler(th Thresholds, logger zerolog.Logger) *Labeler {
	return NewLabelerWithRules(DefaultRules(th), th.MissingAgeImputed, logger)
}

func NewLabelerWithRules(rules []Rule, missingAgeImputed int, logger zerolog.Logger) *Labeler {
	return &Labeler{
		rules:             rules,
		missingAgeImputed: missingAgeImputed,
		logger:            logger,
	}
}

// Label evaluates every rule against every record in a single pass. Records keep their
// original features; missing ages are only imputed for rule evaluation.
func (l *Labeler) Label(records []features.Record) ([]Labeled, Report) {
	report := Report{
		Total: len(records),
		Rules: make([]RuleCount, len(l.rules)),
	}
	for i, rule := range l.rules {
		report.Rules[i].Rule = rule.Name
	}

	out := make([]Labeled, len(records))
	for i, rec := range records {
		eval := rec
		if !eval.HasAge() {
			eval.DomainAgeDays = l.missingAgeImputed
		}

		lab := Labeled{Record: rec, IsPhishing: Benign}
		for j, rule := range l.rules {
			if !rule.Match(eval) {
				continue
			}
			report.Rules[j].Matched++
			if lab.IsPhishing == Benign {
				report.Rules[j].Added++
			}
			lab.IsPhishing = Phishing
			lab.Rules = append(lab.Rules, rule.Name)
		}

		if lab.IsPhishing == Phishing {
			report.Phishing++
		} else {
			report.Benign++
		}
		out[i] = lab
	}

	for _, rc := range report.Rules {
		l.logger.Info().
			Str("rule", rc.Rule).
			Int("matched", rc.Matched).
			Int("added", rc.Added).
			Msg("labeled domains as phishing")
	}
	l.logger.Info().Int("phishing", report.Phishing).Int("benign", report.Benign).Msg("label distribution")

	return out, report
}
