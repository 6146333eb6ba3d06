package report

import (
	"fmt"

	"github.com/spdash/spdash/internal/dataset"
)

// cell is one value of a chart grid: a label or a number.
type cell struct {
	text   string
	number dataset.Number
	isNum  bool
}

func label(s string) cell { return cell{text: s} }

func num(n dataset.Number) cell { return cell{number: n, isNum: true} }

// String formats the cell for text and CSV output.
func (c cell) String() string {
	if c.isNum {
		return c.number.String()
	}
	return c.text
}

// display formats numbers with a fixed precision.
func (c cell) display(precision int) string {
	if c.isNum {
		if c.number.IsMissing() {
			return ""
		}
		return c.number.Format(precision)
	}
	return c.text
}

// grid flattens a chart into a header and rows of cells.
func (c Chart) grid() ([]string, [][]cell) {
	switch {
	case c.Table != nil:
		var rows [][]cell
		for _, r := range c.Table.Rows {
			row := make([]cell, 0, len(r.Keys)+1)
			for _, k := range r.Keys {
				row = append(row, label(k))
			}
			rows = append(rows, append(row, num(r.Value)))
		}
		return c.Table.Header(), rows

	case c.Matrix != nil:
		header := append([]string{""}, c.Matrix.Fields...)
		rows := make([][]cell, len(c.Matrix.Fields))
		for i, f := range c.Matrix.Fields {
			row := []cell{label(f)}
			for _, v := range c.Matrix.Values[i] {
				row = append(row, num(v))
			}
			rows[i] = row
		}
		return header, rows

	case c.Summaries != nil:
		header := []string{c.X, "count", "mean", "std", "min", "q1", "median", "q3", "max"}
		rows := make([][]cell, len(c.Summaries))
		for i, s := range c.Summaries {
			rows[i] = []cell{
				label(s.Group), num(dataset.Some(float64(s.Count))),
				num(s.Mean), num(s.Std), num(s.Min), num(s.Q1), num(s.Median), num(s.Q3), num(s.Max),
			}
		}
		return header, rows

	case c.Pairs != nil:
		header := []string{dataset.ColDepartment, fmt.Sprintf("mean(%s)", c.X), fmt.Sprintf("mean(%s)", c.Y)}
		rows := make([][]cell, len(c.Pairs))
		for i, p := range c.Pairs {
			rows[i] = []cell{label(p.Group), num(p.From), num(p.To)}
		}
		return header, rows

	default:
		header := []string{c.X, c.Y}
		rows := make([][]cell, len(c.Points))
		for i, p := range c.Points {
			rows[i] = []cell{num(dataset.Some(p.X)), num(dataset.Some(p.Y))}
		}
		return header, rows
	}
}
