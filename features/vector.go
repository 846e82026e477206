package features

import "strconv"

const (
	URLLength         = "url_length"
	DomainLength      = "domain_length"
	DotsCount         = "dots_count"
	HyphensCount      = "hyphens_count"
	SpecialCharsCount = "special_chars_count"
	DomainEntropy     = "domain_entropy"
	DomainAgeDays     = "domain_age_days"
)

// MissingAge marks a domain whose creation date could not be resolved.
const MissingAge = -1

// Columns is the order in which a trained model expects its inputs.
var Columns = []string{
	URLLength,
	DomainLength,
	DotsCount,
	HyphensCount,
	SpecialCharsCount,
	DomainEntropy,
	DomainAgeDays,
}

type Vector struct {
	URLLength         int     `json:"url_length"`
	DomainLength      int     `json:"domain_length"`
	DotsCount         int     `json:"dots_count"`
	HyphensCount      int     `json:"hyphens_count"`
	SpecialCharsCount int     `json:"special_chars_count"`
	DomainEntropy     float64 `json:"domain_entropy"`
	DomainAgeDays     int     `json:"domain_age_days"`
}

// Values returns the vector in Columns order.
func (v Vector) Values() []float64 {
	vals := make([]float64, len(Columns))
	for i, c := range Columns {
		vals[i], _ = v.Get(c)
	}
	return vals
}

// Get reads a single feature by its column name.
func (v Vector) Get(name string) (float64, bool) {
	switch name {
	case URLLength:
		return float64(v.URLLength), true
	case DomainLength:
		return float64(v.DomainLength), true
	case DotsCount:
		return float64(v.DotsCount), true
	case HyphensCount:
		return float64(v.HyphensCount), true
	case SpecialCharsCount:
		return float64(v.SpecialCharsCount), true
	case DomainEntropy:
		return v.DomainEntropy, true
	case DomainAgeDays:
		return float64(v.DomainAgeDays), true
	}
	return 0, false
}

// Set assigns a feature by column name from its textual form.
func (v *Vector) Set(name, value string) error {
	if name == DomainEntropy {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		v.DomainEntropy = f
		return nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return err
	}
	switch name {
	case URLLength:
		v.URLLength = n
	case DomainLength:
		v.DomainLength = n
	case DotsCount:
		v.DotsCount = n
	case HyphensCount:
		v.HyphensCount = n
	case SpecialCharsCount:
		v.SpecialCharsCount = n
	case DomainAgeDays:
		v.DomainAgeDays = n
	}
	return nil
}

// Format renders a feature the way it is written to the feature table.
func (v Vector) Format(name string) string {
	if name == DomainEntropy {
		return strconv.FormatFloat(v.DomainEntropy, 'f', -1, 64)
	}
	f, _ := v.Get(name)
	return strconv.Itoa(int(f))
}

// HasAge reports whether the registration age is known.
func (v Vector) HasAge() bool {
	return v.DomainAgeDays >= 0
}
