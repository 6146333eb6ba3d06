// Package aggregate groups a dataset by categorical fields and reduces a
// numeric field per group.
package aggregate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spdash/spdash/internal/dataset"
)

// Aggregation errors.
var (
	ErrNoData         = errors.New("dataset is empty")
	ErrUnknownField   = errors.New("unknown field")
	ErrNotNumeric     = errors.New("field is not numeric")
	ErrGroupArity     = errors.New("expected one or two grouping fields")
	ErrUnknownReducer = errors.New("unknown reducer")
)

// Row is one group combination and its reduced value.
type Row struct {
	Keys  []string       `json:"keys"`
	Value dataset.Number `json:"value"`

	// N is the number of non-missing observations behind Value.
	N int `json:"n"`
}

// Table is the result of an aggregation.
type Table struct {
	GroupFields []string `json:"group_fields"`
	ValueField  string   `json:"value_field"`
	Reducer     Reducer  `json:"reducer"`
	Rows        []Row    `json:"rows"`
}

// Aggregate groups ds by the raw values of groupFields and reduces
// valueField within each group. Records with a missing group key are
// excluded and missing values are ignored. Rows appear once per observed
// combination, in first-seen order.
func Aggregate(ds *dataset.Dataset, groupFields []string, valueField string, reducer Reducer) (*Table, error) {
	if ds == nil || ds.Failed() {
		return nil, ErrNoData
	}
	if len(groupFields) < 1 || len(groupFields) > 2 {
		return nil, fmt.Errorf("%w, got %d", ErrGroupArity, len(groupFields))
	}
	reducer, err := ParseReducer(string(reducer))
	if err != nil {
		return nil, err
	}
	for _, f := range append(append([]string{}, groupFields...), valueField) {
		if !ds.HasColumn(f) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
	}
	if !ds.IsNumeric(valueField) {
		return nil, fmt.Errorf("%w: %s", ErrNotNumeric, valueField)
	}

	type group struct {
		keys   []string
		values []float64
	}
	var order []string
	groups := make(map[string]*group)

	for _, r := range ds.Records() {
		keys, ok := groupKeys(r, groupFields)
		if !ok {
			continue
		}
		id := joinKeys(keys)
		g, ok := groups[id]
		if !ok {
			g = &group{keys: keys}
			groups[id] = g
			order = append(order, id)
		}
		if v, ok := r.Number(valueField).Float(); ok {
			g.values = append(g.values, v)
		}
	}

	t := &Table{
		GroupFields: append([]string{}, groupFields...),
		ValueField:  valueField,
		Reducer:     reducer,
		Rows:        make([]Row, 0, len(order)),
	}
	for _, id := range order {
		g := groups[id]
		t.Rows = append(t.Rows, Row{
			Keys:  g.keys,
			Value: reducer.Reduce(g.values),
			N:     len(g.values),
		})
	}
	return t, nil
}

// Lookup returns the row for a key combination.
func (t *Table) Lookup(keys ...string) (Row, bool) {
	id := joinKeys(keys)
	for _, row := range t.Rows {
		if joinKeys(row.Keys) == id {
			return row, true
		}
	}
	return Row{}, false
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Levels returns the distinct keys of grouping field i in row order.
func (t *Table) Levels(i int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range t.Rows {
		if k := row.Keys[i]; !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

// Header returns the column names of the table for tabular output.
func (t *Table) Header() []string {
	h := append([]string{}, t.GroupFields...)
	return append(h, fmt.Sprintf("%s(%s)", t.Reducer, t.ValueField))
}

func groupKeys(r *dataset.Record, fields []string) ([]string, bool) {
	keys := make([]string, len(fields))
	for i, f := range fields {
		v, ok := r.Label(f)
		if !ok {
			return nil, false
		}
		keys[i] = v
	}
	return keys, true
}

func joinKeys(keys []string) string {
	return strings.Join(keys, "\x00")
}
