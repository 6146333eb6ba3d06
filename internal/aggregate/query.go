package aggregate

import (
	"github.com/spdash/spdash/internal/dataset"
)

// Query is a complete aggregation request as issued by the CLI and the
// HTTP API.
type Query struct {
	GroupFields []string
	ValueField  string
	Reducer     Reducer
	Sort        SortMode

	// Fill emits blank rows for unobserved combinations of two grouping
	// fields.
	Fill bool
}

// Run aggregates ds and applies fill and sort.
func (q Query) Run(ds *dataset.Dataset) (*Table, error) {
	t, err := Aggregate(ds, q.GroupFields, q.ValueField, q.Reducer)
	if err != nil {
		return nil, err
	}
	if q.Fill && len(q.GroupFields) > 1 {
		levels := make([][]string, len(q.GroupFields))
		for i, f := range q.GroupFields {
			levels[i] = DisplayLevels(ds, f)
		}
		t = t.Complete(levels)
	}
	return t.Sort(q.Sort, ds.Orderings()), nil
}

// DisplayLevels lists the levels a grouped chart can show: the full
// canonical order for ordered fields, the observed labels otherwise.
func DisplayLevels(ds *dataset.Dataset, field string) []string {
	if o := ds.Ordering(field); o != nil {
		return o.Labels()
	}
	return ds.Levels(field)
}
