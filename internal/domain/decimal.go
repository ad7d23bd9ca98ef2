package domain

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Decimal is a wrapper around apd.Decimal used for every numeric field read
// from the quote pages. Unlike a float it keeps the exact textual value, and
// its NaN form stands in for fields the source could not parse.
type Decimal struct {
	apd.Decimal
}

// Zero constant for convenience
var Zero = NewDecimalFromInt(0)

// NewDecimalFromInt creates a Decimal from an int64
func NewDecimalFromInt(v int64) Decimal {
	d := Decimal{}
	d.SetInt64(v)
	return d
}

// NewDecimalFromString creates a Decimal from a string
func NewDecimalFromString(v string) (Decimal, error) {
	d := Decimal{}
	_, _, err := d.SetString(v)
	if err != nil {
		return d, fmt.Errorf("invalid decimal string %s: %w", v, err)
	}
	return d, nil
}

// NaN returns a Decimal in the quiet NaN form.
func NaN() Decimal {
	return Decimal{apd.Decimal{Form: apd.NaN}}
}

// ParseNumber converts page text to a Decimal without ever failing.
// Surrounding whitespace is ignored, blank text reads as zero and anything
// that is not a number reads as NaN.
func ParseNumber(s string) Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero
	}
	d, err := NewDecimalFromString(s)
	if err != nil {
		return NaN()
	}
	return d
}

// IsNaN reports whether d holds either NaN form.
func (d Decimal) IsNaN() bool {
	return d.Form == apd.NaN || d.Form == apd.NaNSignaling
}

// String implements the fmt.Stringer interface.
func (d Decimal) String() string {
	return d.Decimal.String()
}

func (d Decimal) IsZero() bool {
	return !d.IsNaN() && d.Decimal.IsZero()
}

// Equal treats two NaNs as equal so parsed records can be compared directly.
func (d Decimal) Equal(other Decimal) bool {
	if d.IsNaN() || other.IsNaN() {
		return d.IsNaN() && other.IsNaN()
	}
	return d.Decimal.Cmp(&other.Decimal) == 0
}

// MarshalJSON implements the json.Marshaler interface.
// NaN has no JSON number representation and is written as null.
func (d Decimal) MarshalJSON() ([]byte, error) {
	if d.IsNaN() {
		return []byte("null"), nil
	}
	return []byte(d.String()), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*d = NaN()
		return nil
	}
	// Remove quotes if present
	if len(s) > 1 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	_, _, err := d.SetString(s)
	return err
}
