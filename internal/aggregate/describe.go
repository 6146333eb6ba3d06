package aggregate

import (
	"fmt"

	"github.com/spdash/spdash/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the distribution of a value field within one group.
type Summary struct {
	Group  string         `json:"group"`
	Count  int            `json:"count"`
	Mean   dataset.Number `json:"mean"`
	Std    dataset.Number `json:"std"`
	Min    dataset.Number `json:"min"`
	Q1     dataset.Number `json:"q1"`
	Median dataset.Number `json:"median"`
	Q3     dataset.Number `json:"q3"`
	Max    dataset.Number `json:"max"`
}

// Describe summarizes valueField per level of groupField. Groups follow
// the field's display order.
func Describe(ds *dataset.Dataset, groupField, valueField string) ([]Summary, error) {
	if err := checkNumeric(ds, valueField); err != nil {
		return nil, err
	}
	if !ds.HasColumn(groupField) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, groupField)
	}

	values := make(map[string][]float64)
	for _, r := range ds.Records() {
		key, ok := r.Label(groupField)
		if !ok {
			continue
		}
		if v, ok := r.Number(valueField).Float(); ok {
			values[key] = append(values[key], v)
		}
	}

	var out []Summary
	for _, level := range ds.Levels(groupField) {
		out = append(out, summarize(level, values[level]))
	}
	return out, nil
}

func summarize(group string, values []float64) Summary {
	s := Summary{
		Group:  group,
		Count:  len(values),
		Mean:   Mean.Reduce(values),
		Std:    Std.Reduce(values),
		Min:    Min.Reduce(values),
		Median: Median.Reduce(values),
		Max:    Max.Reduce(values),
		Q1:     dataset.Missing,
		Q3:     dataset.Missing,
	}
	if len(values) > 0 {
		v := sorted(values)
		s.Q1 = dataset.Some(quantile(v, 0.25))
		s.Q3 = dataset.Some(quantile(v, 0.75))
	}
	return s
}

// Matrix is a square matrix of pairwise values over named fields.
type Matrix struct {
	Fields []string           `json:"fields"`
	Values [][]dataset.Number `json:"values"`
}

// At returns the value for a pair of fields.
func (m *Matrix) At(a, b string) dataset.Number {
	i, j := -1, -1
	for k, f := range m.Fields {
		if f == a {
			i = k
		}
		if f == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return dataset.Missing
	}
	return m.Values[i][j]
}

// Correlation computes the Pearson correlation of every pair of fields
// over the records where both are present. Fields absent from the dataset
// are skipped. Pairs with fewer than two observations or no variance are
// missing.
func Correlation(ds *dataset.Dataset, fields []string) (*Matrix, error) {
	if ds == nil || ds.Failed() {
		return nil, ErrNoData
	}

	var present []string
	for _, f := range fields {
		if !ds.HasColumn(f) {
			continue
		}
		if !ds.IsNumeric(f) {
			return nil, fmt.Errorf("%w: %s", ErrNotNumeric, f)
		}
		present = append(present, f)
	}

	m := &Matrix{Fields: present, Values: make([][]dataset.Number, len(present))}
	for i := range present {
		m.Values[i] = make([]dataset.Number, len(present))
	}
	for i, a := range present {
		for j := i; j < len(present); j++ {
			c := pearson(ds, a, present[j])
			m.Values[i][j] = c
			m.Values[j][i] = c
		}
	}
	return m, nil
}

func pearson(ds *dataset.Dataset, a, b string) dataset.Number {
	var xs, ys []float64
	for _, r := range ds.Records() {
		x, xok := r.Number(a).Float()
		y, yok := r.Number(b).Float()
		if xok && yok {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	if len(xs) < 2 {
		return dataset.Missing
	}
	return dataset.Some(stat.Correlation(xs, ys, nil))
}

// Point is one paired observation.
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label,omitempty"`
}

// Points returns the records where both x and y are present. When
// labelField is set, each point carries that field's raw value.
func Points(ds *dataset.Dataset, x, y, labelField string) ([]Point, error) {
	if err := checkNumeric(ds, x); err != nil {
		return nil, err
	}
	if err := checkNumeric(ds, y); err != nil {
		return nil, err
	}
	if labelField != "" && !ds.HasColumn(labelField) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, labelField)
	}

	var out []Point
	for _, r := range ds.Records() {
		xv, xok := r.Number(x).Float()
		yv, yok := r.Number(y).Float()
		if !xok || !yok {
			continue
		}
		p := Point{X: xv, Y: yv}
		if labelField != "" {
			p.Label, _ = r.Label(labelField)
		}
		out = append(out, p)
	}
	return out, nil
}

func checkNumeric(ds *dataset.Dataset, field string) error {
	if ds == nil || ds.Failed() {
		return ErrNoData
	}
	if !ds.HasColumn(field) {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	if !ds.IsNumeric(field) {
		return fmt.Errorf("%w: %s", ErrNotNumeric, field)
	}
	return nil
}
