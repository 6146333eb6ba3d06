package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spdash/spdash/internal/output"
)

// Format is an export format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat converts a name into a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatCSV, FormatXLSX:
		return f, nil
	case "terminal", "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected text, json, csv or xlsx)", s)
	}
}

// Write exports the report in the given format.
func Write(w io.Writer, r *Report, f Format) error {
	switch f {
	case FormatText:
		return WriteText(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatCSV:
		return WriteCSV(w, r)
	case FormatXLSX:
		return WriteXLSX(w, r)
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

const (
	textWidth   = 80
	barWidth    = 30
	maxPoints   = 10
	cellPreview = 16
)

// WriteText renders the report as terminal tables.
func WriteText(w io.Writer, r *Report) error {
	var sb strings.Builder

	sb.WriteString(output.Header(fmt.Sprintf("Objective %d: %s", r.Objective, r.Title), textWidth))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Source: %s\n\n", r.Source)

	kpi := output.NewTable("KPI", "Value")
	for _, k := range r.KPIs {
		kpi.AddRow(k.Label, num(k.Value).display(k.Precision))
	}
	sb.WriteString(kpi.RenderCompact())
	sb.WriteString("\n")

	if len(r.Preview) > 0 {
		sb.WriteString(output.SubHeader("Preview", textWidth))
		sb.WriteString("\n")
		headers := make([]string, len(r.PreviewColumns))
		for i, c := range r.PreviewColumns {
			headers[i] = output.Truncate(c, cellPreview)
		}
		t := output.NewTable(headers...)
		for _, row := range r.Preview {
			cells := make([]string, len(row))
			for i, v := range row {
				cells[i] = output.TruncateCell(v, cellPreview)
			}
			t.AddRow(cells...)
		}
		sb.WriteString(t.RenderCompact())
		sb.WriteString("\n")
	}

	for _, c := range r.Charts {
		sb.WriteString(output.SubHeader(fmt.Sprintf("%s (%s)", c.Title, c.Kind), textWidth))
		sb.WriteString("\n")
		sb.WriteString(renderChart(c))
		sb.WriteString("\n")
	}

	for _, s := range r.Skipped {
		fmt.Fprintf(&sb, "%s skipped %s: %s\n", output.Color("⚠", output.Yellow), s.Chart, s.Reason)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func renderChart(c Chart) string {
	header, rows := c.grid()

	// Bars get a visual column scaled to the largest value
	withBar := c.Kind == KindBar || c.Kind == KindLine
	var max float64
	if withBar {
		header = append(header, "")
		for _, row := range rows {
			if v, ok := row[len(row)-1].number.Float(); ok && v > max {
				max = v
			}
		}
	}

	total := len(rows)
	if c.Kind == KindScatter && total > maxPoints {
		rows = rows[:maxPoints]
	}

	t := output.NewTable(header...)
	for _, row := range rows {
		cells := make([]string, 0, len(row)+1)
		for _, v := range row {
			cells = append(cells, v.display(3))
		}
		if withBar {
			v, _ := row[len(row)-1].number.Float()
			cells = append(cells, output.Bar(v, max, barWidth))
		}
		t.AddRow(cells...)
	}

	out := t.RenderCompact()
	if total > len(rows) {
		out += fmt.Sprintf("... %d of %d points shown\n", len(rows), total)
	}
	return out
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteCSV writes every chart in long form: one line per cell with the
// chart, row number, column name and value.
func WriteCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"chart", "kind", "row", "column", "value"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, c := range r.Charts {
		header, rows := c.grid()
		for i, row := range rows {
			for j, v := range row {
				col := header[j]
				if col == "" {
					col = "field"
				}
				rec := []string{c.ID, string(c.Kind), fmt.Sprint(i + 1), col, v.String()}
				if err := cw.Write(rec); err != nil {
					return fmt.Errorf("failed to write %s: %w", c.ID, err)
				}
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
