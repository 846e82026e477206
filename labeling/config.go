package labeling

// Thresholds parameterises the labeling rules
type Thresholds struct {
	NewDomainMaxAge   int      `yaml:"new_domain_max_age"`  // Default: 10 days
	MinEntropy        float64  `yaml:"min_entropy"`         // Default: 4.1 bits
	MaxHyphens        int      `yaml:"max_hyphens"`         // Default: 3
	MaxDots           int      `yaml:"max_dots"`            // Default: 4
	MinURLLength      int      `yaml:"min_url_length"`      // Default: 40
	Keywords          []string `yaml:"keywords"`            // Default: SuspectKeywords
	MissingAgeImputed int      `yaml:"missing_age_imputed"` // Default: 9999
}

var SuspectKeywords = []string{"login", "secure", "account", "update", "verify", "bank"}

// DefaultThresholds returns default thresholds
func DefaultThresholds() Thresholds {
	kw := make([]string, len(SuspectKeywords))
	copy(kw, SuspectKeywords)
	return Thresholds{
		NewDomainMaxAge:   10,
		MinEntropy:        4.1,
		MaxHyphens:        3,
		MaxDots:           4,
		MinURLLength:      40,
		Keywords:          kw,
		MissingAgeImputed: 9999,
	}
}
