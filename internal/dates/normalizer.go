// Package dates converts policy dates between the storage form (2006-01-02)
// and the form people read and type (02.01.2006).
package dates

import (
	"regexp"
	"strings"
	"time"

	dps "github.com/markusmobius/go-dateparser"
)

const (
	// CanonicalLayout is the storage representation.
	CanonicalLayout = "2006-01-02"
	// DisplayLayout is the human-facing representation.
	DisplayLayout = "02.01.2006"
)

// strictLayouts are tried in order before the natural-language fallback.
// Printed policies use either dots or slashes between the parts; stored
// values come back in the canonical form.
var strictLayouts = []string{
	DisplayLayout, "02/01/2006", CanonicalLayout,
	"2.1.2006", "2/1/2006", "2006-1-2",
}

// numericDatePattern matches values made only of day, month and year
// numbers; only the strict layouts decide those.
var numericDatePattern = regexp.MustCompile(`^(?:\d{1,2}[./-]\d{1,2}[./-]\d{4}|\d{4}-\d{1,2}-\d{1,2})$`)

// Normalizer parses loosely formatted dates. The zero value is not usable;
// construct with New.
type Normalizer struct {
	parserConfig *dps.Configuration
}

// New creates a normalizer whose natural-language fallback understands the
// given languages (for example "tr").
func New(languages ...string) *Normalizer {
	if len(languages) == 0 {
		languages = []string{"tr"}
	}
	return &Normalizer{
		parserConfig: &dps.Configuration{
			Languages: languages,
		},
	}
}

// ToCanonical converts day.month.year, the storage form itself or free text
// ("15 Mart 2024") into the storage form. Anything it cannot read, including
// numeric dates that do not exist on the calendar, becomes the empty string.
func (n *Normalizer) ToCanonical(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	for _, layout := range strictLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.Format(CanonicalLayout)
		}
	}
	if numericDatePattern.MatchString(text) {
		return ""
	}

	return n.parseLoose(text)
}

// parseLoose never panics out to the caller; the upstream parser is fed
// arbitrary document text.
func (n *Normalizer) parseLoose(text string) (out string) {
	defer func() {
		if recover() != nil {
			out = ""
		}
	}()

	dt, err := dps.Parse(n.parserConfig, text)
	if err != nil || dt.Time.IsZero() {
		return ""
	}
	return dt.Time.Format(CanonicalLayout)
}

// ToDisplay converts a canonical date into day.month.year. Values that are
// not canonical are returned unchanged.
func (n *Normalizer) ToDisplay(canonical string) string {
	if canonical == "" {
		return ""
	}
	t, err := time.Parse(CanonicalLayout, canonical)
	if err != nil {
		return canonical
	}
	return t.Format(DisplayLayout)
}

// ParseCanonical returns the calendar date of a canonical value.
func ParseCanonical(canonical string) (time.Time, bool) {
	if canonical == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(CanonicalLayout, strings.TrimSpace(canonical))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
