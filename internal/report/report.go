// Package report builds the chart data and KPIs of the three dashboard
// objectives from a cleaned dataset.
package report

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spdash/spdash/internal/aggregate"
	"github.com/spdash/spdash/internal/dataset"
)

// ErrNoData is returned when there is nothing to render.
var ErrNoData = errors.New("cannot render: dataset is empty")

// ErrUnknownObjective is returned for objectives outside 1..3.
var ErrUnknownObjective = errors.New("unknown objective")

// Objective identifies one dashboard page.
type Objective int

const (
	ObjectiveAcademic   Objective = 1
	ObjectiveBackground Objective = 2
	ObjectiveTemporal   Objective = 3
)

const previewRows = 5

// Objectives returns every objective in page order.
func Objectives() []Objective {
	return []Objective{ObjectiveAcademic, ObjectiveBackground, ObjectiveTemporal}
}

// ParseObjective converts "1".."3" into an Objective.
func ParseObjective(s string) (Objective, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownObjective, s)
	}
	o := Objective(n)
	if _, ok := catalog[o]; !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownObjective, n)
	}
	return o, nil
}

// Title returns the page title of the objective.
func (o Objective) Title() string {
	switch o {
	case ObjectiveAcademic:
		return "Prior Academic Standing and Study Habits"
	case ObjectiveBackground:
		return "Demographic and Socioeconomic Background"
	case ObjectiveTemporal:
		return "Temporal and Habit Interaction"
	default:
		return "Unknown"
	}
}

// ChartKind is the visual form a chart's data is meant for.
type ChartKind string

const (
	KindScatter  ChartKind = "scatter"
	KindBar      ChartKind = "bar"
	KindHeatmap  ChartKind = "heatmap"
	KindViolin   ChartKind = "violin"
	KindBox      ChartKind = "box"
	KindLine     ChartKind = "line"
	KindDumbbell ChartKind = "dumbbell"
)

// Pair is one row of a dumbbell chart.
type Pair struct {
	Group string         `json:"group"`
	From  dataset.Number `json:"from"`
	To    dataset.Number `json:"to"`
}

// Chart holds the data behind one chart. Exactly one of the data fields
// is set, depending on Kind.
type Chart struct {
	ID     string    `json:"id"`
	Title  string    `json:"title"`
	Kind   ChartKind `json:"kind"`
	X      string    `json:"x,omitempty"`
	Y      string    `json:"y,omitempty"`
	Colour string    `json:"colour,omitempty"`

	Table     *aggregate.Table    `json:"table,omitempty"`
	Points    []aggregate.Point   `json:"points,omitempty"`
	Matrix    *aggregate.Matrix   `json:"matrix,omitempty"`
	Summaries []aggregate.Summary `json:"summaries,omitempty"`
	Pairs     []Pair              `json:"pairs,omitempty"`
}

// KPI is a headline number shown above the charts.
type KPI struct {
	Label     string         `json:"label"`
	Value     dataset.Number `json:"value"`
	Precision int            `json:"-"`
}

// Skip records a chart that was not built and why.
type Skip struct {
	Chart  string `json:"chart"`
	Reason string `json:"reason"`
}

// Report is the rendered data of one objective.
type Report struct {
	Objective Objective `json:"objective"`
	Title     string    `json:"title"`
	Source    string    `json:"source"`
	Rows      int       `json:"rows"`
	KPIs      []KPI     `json:"kpis"`
	Charts    []Chart   `json:"charts"`
	Skipped   []Skip    `json:"skipped,omitempty"`

	// Preview holds the first records as display strings.
	PreviewColumns []string   `json:"preview_columns"`
	Preview        [][]string `json:"preview"`
}

// Options controls report building.
type Options struct {
	// FillUnobserved emits blank rows for group combinations with no
	// records in grouped bar charts.
	FillUnobserved bool
}

// Build renders the charts of an objective. Charts whose columns are
// missing are listed in Skipped rather than failing the report.
func Build(ds *dataset.Dataset, obj Objective, opts Options) (*Report, error) {
	charts, ok := catalog[obj]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownObjective, obj)
	}
	if ds.IsEmpty() {
		return nil, ErrNoData
	}

	r := &Report{
		Objective: obj,
		Title:     obj.Title(),
		Source:    ds.Source(),
		Rows:      ds.Len(),
		KPIs:      kpis(ds),
		Charts:    []Chart{},
	}
	r.PreviewColumns, r.Preview = preview(ds)

	for _, spec := range charts {
		if missing := missingColumns(ds, spec.requires); len(missing) > 0 {
			r.Skipped = append(r.Skipped, Skip{
				Chart:  spec.id,
				Reason: "missing columns: " + strings.Join(missing, ", "),
			})
			continue
		}
		c, err := spec.build(ds, opts)
		if err != nil {
			r.Skipped = append(r.Skipped, Skip{Chart: spec.id, Reason: err.Error()})
			continue
		}
		c.ID = spec.id
		c.Title = spec.title
		c.Kind = spec.kind
		r.Charts = append(r.Charts, c)
	}
	return r, nil
}

// Chart returns the chart with the given id.
func (r *Report) Chart(id string) (Chart, bool) {
	for _, c := range r.Charts {
		if c.ID == id {
			return c, true
		}
	}
	return Chart{}, false
}

func kpis(ds *dataset.Dataset) []KPI {
	out := []KPI{{Label: "Students", Value: dataset.Some(float64(ds.Len()))}}
	if ds.HasColumn(dataset.ColOverall) {
		out = append(out, KPI{Label: "Mean Overall", Value: mean(ds, dataset.ColOverall), Precision: 2})
	}
	if ds.HasColumn(dataset.ColHSC) {
		out = append(out, KPI{Label: "Mean HSC", Value: mean(ds, dataset.ColHSC), Precision: 2})
	}
	if ds.HasColumn(dataset.ColDepartment) {
		out = append(out, KPI{Label: "Departments", Value: dataset.Some(float64(len(ds.Distinct(dataset.ColDepartment))))})
	}
	return out
}

func mean(ds *dataset.Dataset, col string) dataset.Number {
	var values []float64
	for _, n := range ds.Numbers(col) {
		if v, ok := n.Float(); ok {
			values = append(values, v)
		}
	}
	return aggregate.Mean.Reduce(values)
}

func preview(ds *dataset.Dataset) ([]string, [][]string) {
	cols := ds.Columns()
	head := ds.Head(previewRows)
	rows := make([][]string, 0, head.Len())
	for _, r := range head.Records() {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = r.Value(c)
		}
		rows = append(rows, row)
	}
	return cols, rows
}

func missingColumns(ds *dataset.Dataset, cols []string) []string {
	var missing []string
	for _, c := range cols {
		if !ds.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	return missing
}
