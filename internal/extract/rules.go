package extract

import "github.com/a3tai/policy-tracker/internal/policy"

// TypeRule maps keywords found in the uppercased document to an insurance
// type. Any keyword hit selects the rule.
type TypeRule struct {
	Type     string
	Keywords []string
}

// Config is the lookup data the extractor is built from. It is copied at
// construction; changing it afterwards has no effect.
type Config struct {
	// NameLabels precede the policyholder name, most specific first.
	// Runs of whitespace in a label match any whitespace.
	NameLabels []string
	// PolicyNoLabel precedes the policy number.
	PolicyNoLabel string
	// TypeRules are checked in order; the first hit wins.
	TypeRules []TypeRule
	// FallbackType is used when no rule matches.
	FallbackType string
}

// DefaultConfig returns the labels and keywords used on Turkish policies.
func DefaultConfig() Config {
	return Config{
		NameLabels: []string{
			"ADI SOYADI / ÜNVANI",
			"SİGORTA ETTİREN",
			"ADI SOYADI",
			"MÜŞTERİ",
		},
		PolicyNoLabel: "POLİÇE NO",
		TypeRules: []TypeRule{
			{Type: policy.TypeKasko, Keywords: []string{"KASKO"}},
			{Type: policy.TypeTraffic, Keywords: []string{"TRAFİK", "TRAFIK"}},
			{Type: policy.TypeDASK, Keywords: []string{"DASK"}},
		},
		FallbackType: policy.TypeOther,
	}
}

func (c Config) clone() Config {
	out := Config{
		NameLabels:    append([]string(nil), c.NameLabels...),
		PolicyNoLabel: c.PolicyNoLabel,
		FallbackType:  c.FallbackType,
	}
	for _, r := range c.TypeRules {
		out.TypeRules = append(out.TypeRules, TypeRule{
			Type:     r.Type,
			Keywords: append([]string(nil), r.Keywords...),
		})
	}
	return out
}
