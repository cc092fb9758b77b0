// Package extract turns the plain text of a policy document into a
// candidate customer record. Each field has its own independent pattern
// rule; a rule that finds nothing leaves its field empty, and a person
// reviews the candidate before it is saved.
package extract

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/a3tai/policy-tracker/internal/dates"
	"github.com/a3tai/policy-tracker/internal/policy"
)

var (
	// 7 digits led by a nonzero one, then 4 digits or a 4 character mask.
	nationalIDPattern = regexp.MustCompile(`\b[1-9]\d{6}\s*(?:\d{4}\b|\*{4})`)
	platePattern      = regexp.MustCompile(`\b\d{2}\s?[A-Z]{1,3}\s?\d{2,4}\b`)
	dateTokenPattern  = regexp.MustCompile(`\d{2}[./]\d{2}[./]\d{4}`)
)

const (
	letterClass    = `A-ZÇĞİÖŞÜÂÎÛa-zçğıöşüâîû`
	nameValueGroup = `([` + letterClass + `][` + letterClass + ` \t]*)`
)

// Extractor applies the field rules. It holds no mutable state and is safe
// for concurrent use.
type Extractor struct {
	config     Config
	normalizer *dates.Normalizer

	namePattern     *regexp.Regexp
	policyNoPattern *regexp.Regexp
	typeKeywords    [][]string
}

// New builds an extractor from cfg. Empty sections of cfg fall back to
// DefaultConfig.
func New(cfg Config, normalizer *dates.Normalizer) *Extractor {
	def := DefaultConfig()
	cfg = cfg.clone()
	if len(cfg.NameLabels) == 0 {
		cfg.NameLabels = def.NameLabels
	}
	if cfg.PolicyNoLabel == "" {
		cfg.PolicyNoLabel = def.PolicyNoLabel
	}
	if len(cfg.TypeRules) == 0 {
		cfg.TypeRules = def.TypeRules
	}
	if cfg.FallbackType == "" {
		cfg.FallbackType = def.FallbackType
	}
	if normalizer == nil {
		normalizer = dates.New("tr")
	}

	labels := make([]string, 0, len(cfg.NameLabels))
	for _, l := range cfg.NameLabels {
		labels = append(labels, labelPattern(l))
	}

	upper := cases.Upper(language.Turkish)
	keywords := make([][]string, len(cfg.TypeRules))
	for i, rule := range cfg.TypeRules {
		for _, kw := range rule.Keywords {
			keywords[i] = append(keywords[i], upper.String(kw))
		}
	}

	return &Extractor{
		config:     cfg,
		normalizer: normalizer,
		namePattern: regexp.MustCompile(
			`(?i)(?:` + strings.Join(labels, "|") + `)\s*:\s*` + nameValueGroup),
		policyNoPattern: regexp.MustCompile(
			`(?i)` + labelPattern(cfg.PolicyNoLabel) + `\s*[:\s\-.]+(\d+)`),
		typeKeywords: keywords,
	}
}

// Extract builds a candidate record from document text. It never fails;
// dates are returned in display form.
func (e *Extractor) Extract(text string) policy.Record {
	start, end := e.PolicyDates(text)
	return policy.Record{
		FullName:      e.FullName(text),
		NationalID:    e.NationalID(text),
		Plate:         e.Plate(text),
		PolicyNo:      e.PolicyNo(text),
		InsuranceType: e.InsuranceType(text),
		PolicyStart:   start,
		PolicyEnd:     end,
	}
}

// NationalID returns the first ID-shaped token, masked or not.
func (e *Extractor) NationalID(text string) string {
	return nationalIDPattern.FindString(text)
}

// FullName returns the letters following the first name label.
func (e *Extractor) FullName(text string) string {
	m := e.namePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.Join(strings.Fields(m[1]), " ")
}

// Plate returns the first vehicle plate with its spaces removed.
func (e *Extractor) Plate(text string) string {
	return strings.ReplaceAll(platePattern.FindString(text), " ", "")
}

// PolicyNo returns the digits after the policy number label.
func (e *Extractor) PolicyNo(text string) string {
	m := e.policyNoPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// DateTokens returns every date-shaped token in the order it appears.
func (e *Extractor) DateTokens(text string) []string {
	return dateTokenPattern.FindAllString(text, -1)
}

// PolicyDates returns the first two date tokens, in text order, as display
// dates. Tokens that are not real dates become empty.
func (e *Extractor) PolicyDates(text string) (start, end string) {
	tokens := e.DateTokens(text)
	if len(tokens) >= 1 {
		start = e.display(tokens[0])
	}
	if len(tokens) >= 2 {
		end = e.display(tokens[1])
	}
	return start, end
}

func (e *Extractor) display(token string) string {
	return e.normalizer.ToDisplay(e.normalizer.ToCanonical(token))
}

// InsuranceType returns the type of the first rule with a keyword in the
// Turkish-uppercased text.
func (e *Extractor) InsuranceType(text string) string {
	upper := cases.Upper(language.Turkish).String(text)
	for i, keywords := range e.typeKeywords {
		for _, kw := range keywords {
			if kw != "" && strings.Contains(upper, kw) {
				return e.config.TypeRules[i].Type
			}
		}
	}
	return e.config.FallbackType
}

// labelPattern turns a literal label into a pattern that tolerates any
// whitespace between words and every casing of the Turkish I.
func labelPattern(label string) string {
	var b strings.Builder
	inSpace := false
	for _, r := range strings.TrimSpace(label) {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteString(`\s*`)
			}
			inSpace = true
			continue
		}
		inSpace = false
		switch r {
		case 'İ', 'I', 'i', 'ı':
			b.WriteString(`[İIiı]`)
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	return b.String()
}
