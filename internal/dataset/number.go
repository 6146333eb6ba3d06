// Package dataset provides the in-memory student-performance dataset and its CSV parsing.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// naTokens are the cell values treated as missing, matching the defaults of
// common dataframe CSV readers.
var naTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsNA reports whether a raw cell value denotes a missing value.
func IsNA(s string) bool {
	_, ok := naTokens[strings.TrimSpace(s)]
	return ok
}

// Number is a float that may be missing.
type Number struct {
	Value float64
	Valid bool
}

// Missing is the missing Number.
var Missing = Number{}

// Some returns a present Number. NaN is stored as missing.
func Some(v float64) Number {
	if math.IsNaN(v) {
		return Missing
	}
	return Number{Value: v, Valid: true}
}

// ParseNumber coerces a raw cell to a Number. Values that cannot be parsed
// become missing; it never fails.
func ParseNumber(s string) Number {
	s = strings.TrimSpace(s)
	if IsNA(s) {
		return Missing
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Missing
	}
	return Some(v)
}

// IsMissing returns true if the number has no value.
func (n Number) IsMissing() bool {
	return !n.Valid
}

// Float returns the value and whether it is present.
func (n Number) Float() (float64, bool) {
	return n.Value, n.Valid
}

// String formats the number with the shortest exact representation.
// Missing numbers format as the empty string.
func (n Number) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// Format formats the number with a fixed precision, or "NaN" when missing.
func (n Number) Format(precision int) string {
	if !n.Valid {
		return "NaN"
	}
	return strconv.FormatFloat(n.Value, 'f', precision, 64)
}

// MarshalJSON encodes missing numbers as null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid || math.IsInf(n.Value, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// UnmarshalJSON decodes null as missing.
func (n *Number) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*n = Missing
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid number: %w", err)
	}
	*n = Some(v)
	return nil
}
