package policy

import (
	"fmt"
	"strings"
)

// NationalIDLength is the digit count of a Turkish national ID.
const NationalIDLength = 11

// ValidationError reports a field that blocks a save.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidNationalID reports whether id is empty or, once spaces and mask
// characters are removed, exactly 11 digits. A masked ID such as
// "1234567****" therefore fails and has to be completed by hand.
func ValidNationalID(id string) bool {
	if id == "" {
		return true
	}

	clean := strings.NewReplacer(" ", "", "*", "").Replace(id)
	if len(clean) != NationalIDLength {
		return false
	}
	for _, r := range clean {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Validate checks the fields that are enforced at save time.
func (r Record) Validate() error {
	if !ValidNationalID(r.NationalID) {
		return &ValidationError{
			Field:   "national_id",
			Value:   r.NationalID,
			Message: "TC Kimlik Numarası 11 haneli olmalıdır",
		}
	}
	return nil
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (r Record) Trimmed() Record {
	f := r.Fields()
	for i := range f {
		f[i] = strings.TrimSpace(f[i])
	}
	return FromFields(f[:])
}
