package labeling

import (
	"strings"

	"phishing-url-dataset/features"
)

const (
	RuleNewAndRandom   = "new-and-random"
	RuleLookalike      = "lookalike-pattern"
	RuleKeywordLongURL = "keyword-in-long-url"
)

// Rule is a named predicate over a record. Rules only ever promote a record to phishing.
type Rule struct {
	Name        string
	Description string
	Match       func(r features.Record) bool
}

// DefaultRules returns the rules in evaluation order.
func DefaultRules(th Thresholds) []Rule {
	keywords := make([]string, 0, len(th.Keywords))
	for _, k := range th.Keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			keywords = append(keywords, k)
		}
	}

	return []Rule{
		{
			Name:        RuleNewAndRandom,
			Description: "very new and random looking domain",
			Match: func(r features.Record) bool {
				return r.DomainAgeDays < th.NewDomainMaxAge && r.DomainEntropy > th.MinEntropy
			},
		},
		{
			Name:        RuleLookalike,
			Description: "lookalike domain pattern",
			Match: func(r features.Record) bool {
				return r.HyphensCount > th.MaxHyphens || r.DotsCount > th.MaxDots
			},
		},
		{
			Name:        RuleKeywordLongURL,
			Description: "suspect keyword in a long url",
			Match: func(r features.Record) bool {
				return r.URLLength > th.MinURLLength && containsAny(strings.ToLower(r.URL), keywords)
			},
		},
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
