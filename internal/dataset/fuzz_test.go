package dataset

import (
	"strings"
	"testing"
)

// FuzzReadTable ensures malformed CSV input never panics.
func FuzzReadTable(f *testing.F) {
	f.Add("HSC,SSC,Last,Overall\n3.5,4,3.2,3.3\n")
	f.Add("HSC,Last,Overall\n")
	f.Add("HSC,Last,Overall\n3.5,\"quoted, value\",3\n")
	f.Add("HSC\n" + strings.Repeat("9", 10000) + "\n")
	f.Add(``)
	f.Add("\x00\x00\x00")
	f.Add("A,B\n\"unclosed quote")
	f.Add("A,B\n1,2,3,4\n")

	f.Fuzz(func(t *testing.T, data string) {
		table, err := ReadTable(strings.NewReader(data))
		if err != nil || table == nil {
			return
		}
		for _, row := range table.Rows {
			if len(row) != len(table.Header) {
				t.Fatalf("row width %d, header width %d", len(row), len(table.Header))
			}
		}
	})
}

// FuzzParseNumber ensures coercion never panics and never yields NaN.
func FuzzParseNumber(f *testing.F) {
	f.Add("3.5")
	f.Add("")
	f.Add("N/A")
	f.Add("1e308")
	f.Add("-0")
	f.Add("inf")

	f.Fuzz(func(t *testing.T, s string) {
		n := ParseNumber(s)
		if n.Valid && n.Value != n.Value {
			t.Fatalf("ParseNumber(%q) returned NaN as valid", s)
		}
	})
}
