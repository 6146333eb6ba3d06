package output

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Align is the horizontal alignment of a column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Table is an ASCII grid in the tabulate "grid" style.
type Table struct {
	headers []string
	rows    [][]string
	widths  []int
	align   []Align
}

// NewTable creates a table with the given headers. Every column starts
// left-aligned.
func NewTable(headers ...string) *Table {
	t := &Table{
		headers: headers,
		widths:  make([]int, len(headers)),
		align:   make([]Align, len(headers)),
	}
	for i, h := range headers {
		t.widths[i] = displayWidth(h)
	}
	return t
}

// SetAlign sets the alignment of the given columns. Out-of-range indexes
// are ignored.
func (t *Table) SetAlign(a Align, cols ...int) *Table {
	for _, c := range cols {
		if c >= 0 && c < len(t.align) {
			t.align[c] = a
		}
	}
	return t
}

// AddRow appends a row. Missing cells render empty and extra cells are
// dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
	for i, cell := range row {
		if w := displayWidth(cell); w > t.widths[i] {
			t.widths[i] = w
		}
	}
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render returns the table with a separator after every row.
func (t *Table) Render() string {
	return t.render(true)
}

// RenderCompact returns the table with separators only around the header
// and at the bottom.
func (t *Table) RenderCompact() string {
	return t.render(false)
}

func (t *Table) render(rowSeparators bool) string {
	if len(t.headers) == 0 {
		return ""
	}

	var sb strings.Builder
	line := func(s string) {
		sb.WriteString(s)
		sb.WriteString("\n")
	}

	line(t.separator("-"))
	// Headers always follow column alignment so numbers line up under them
	line(t.row(t.headers))
	line(t.separator("="))

	for _, row := range t.rows {
		line(t.row(row))
		if rowSeparators {
			line(t.separator("-"))
		}
	}
	if !rowSeparators {
		line(t.separator("-"))
	}

	return sb.String()
}

// separator renders a line like +-----+-----+.
func (t *Table) separator(fill string) string {
	parts := make([]string, len(t.widths))
	for i, w := range t.widths {
		parts[i] = strings.Repeat(fill, w+2)
	}
	return "+" + strings.Join(parts, "+") + "+"
}

// row renders a line like | val | val |.
func (t *Table) row(cells []string) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = " " + pad(cell, t.widths[i], t.align[i]) + " "
	}
	return "|" + strings.Join(parts, "|") + "|"
}

// displayWidth returns the terminal width of s, ignoring ANSI escapes.
func displayWidth(s string) int {
	return runewidth.StringWidth(stripANSI(s))
}

// stripANSI removes ANSI escape codes from a string.
func stripANSI(s string) string {
	var result strings.Builder
	inEscape := false
	for _, r := range s {
		if r == '\033' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}

// pad fills s with spaces up to width, keeping any ANSI codes intact.
func pad(s string, width int, a Align) string {
	gap := width - displayWidth(s)
	if gap <= 0 {
		return s
	}
	if a == AlignRight {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

// TruncateCell truncates text for a table cell. ANSI codes are dropped
// when truncation happens.
func TruncateCell(text string, maxWidth int) string {
	stripped := stripANSI(text)
	if runewidth.StringWidth(stripped) <= maxWidth {
		return text
	}
	return Truncate(stripped, maxWidth)
}
