package dataset

import "sort"

// Dataset is the cleaned, analysis-ready table. It is never modified after
// construction, so it can be shared across goroutines.
type Dataset struct {
	// source is the location this dataset was loaded from.
	source string

	// columns preserves the source column order followed by derived columns.
	columns []string

	// numeric marks columns holding Number values.
	numeric map[string]bool

	// orderings holds the canonical order of ordered categorical columns.
	orderings map[string]*Ordering

	records []*Record

	// failed marks the load-failure sentinel.
	failed bool
}

// Option configures a dataset under construction.
type Option func(*Dataset)

// WithNumeric marks columns as numeric.
func WithNumeric(cols ...string) Option {
	return func(d *Dataset) {
		for _, c := range cols {
			d.numeric[c] = true
		}
	}
}

// WithOrdering marks a column as ordered categorical.
func WithOrdering(col string, o *Ordering) Option {
	return func(d *Dataset) {
		d.orderings[col] = o
	}
}

// New creates a dataset from records.
func New(source string, columns []string, records []*Record, opts ...Option) *Dataset {
	d := &Dataset{
		source:    source,
		columns:   append([]string{}, columns...),
		numeric:   make(map[string]bool),
		orderings: make(map[string]*Ordering),
		records:   append([]*Record{}, records...),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewFailed returns the sentinel for a source that could not be loaded.
// It has no columns and no records.
func NewFailed(source string) *Dataset {
	d := New(source, nil, nil)
	d.failed = true
	return d
}

// Source returns the location this dataset was loaded from.
func (d *Dataset) Source() string {
	return d.source
}

// Failed reports whether this is the load-failure sentinel, as opposed to
// a dataset left empty by filtering.
func (d *Dataset) Failed() bool {
	return d.failed
}

// IsEmpty returns true if there is nothing to render.
func (d *Dataset) IsEmpty() bool {
	return d == nil || len(d.records) == 0
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Columns returns the column names.
func (d *Dataset) Columns() []string {
	return append([]string{}, d.columns...)
}

// HasColumn checks if a column exists.
func (d *Dataset) HasColumn(col string) bool {
	for _, c := range d.columns {
		if c == col {
			return true
		}
	}
	return false
}

// HasColumns checks if every column exists.
func (d *Dataset) HasColumns(cols ...string) bool {
	for _, c := range cols {
		if !d.HasColumn(c) {
			return false
		}
	}
	return true
}

// IsNumeric returns true if the column holds numbers.
func (d *Dataset) IsNumeric(col string) bool {
	return d.numeric[col]
}

// Ordering returns the canonical order of a column, or nil if the column is
// not ordered categorical.
func (d *Dataset) Ordering(col string) *Ordering {
	return d.orderings[col]
}

// Orderings returns all ordered categorical columns.
func (d *Dataset) Orderings() map[string]*Ordering {
	out := make(map[string]*Ordering, len(d.orderings))
	for k, v := range d.orderings {
		out[k] = v
	}
	return out
}

// At returns the record at index i.
func (d *Dataset) At(i int) *Record {
	return d.records[i]
}

// Records returns all records in load order.
func (d *Dataset) Records() []*Record {
	return append([]*Record{}, d.records...)
}

// Numbers returns the values of a numeric column in record order.
func (d *Dataset) Numbers(col string) []Number {
	out := make([]Number, len(d.records))
	for i, r := range d.records {
		out[i] = r.Number(col)
	}
	return out
}

// Distinct returns the non-missing labels of a column in first-seen order.
func (d *Dataset) Distinct(col string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range d.records {
		if v, ok := r.Label(col); ok && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// Levels returns the distinct labels of a column sorted for display:
// canonical order for ordered columns, lexical otherwise.
func (d *Dataset) Levels(col string) []string {
	levels := d.Distinct(col)
	if o := d.Ordering(col); o != nil {
		o.Sort(levels)
		return levels
	}
	sort.Strings(levels)
	return levels
}

// Filter returns a dataset with the records matching fn. Schema and
// orderings are shared.
func (d *Dataset) Filter(fn func(*Record) bool) *Dataset {
	var kept []*Record
	for _, r := range d.records {
		if fn(r) {
			kept = append(kept, r)
		}
	}
	return &Dataset{
		source:    d.source,
		columns:   d.columns,
		numeric:   d.numeric,
		orderings: d.orderings,
		records:   kept,
		failed:    d.failed,
	}
}

// Head returns a dataset with at most the first n records.
func (d *Dataset) Head(n int) *Dataset {
	i := 0
	return d.Filter(func(*Record) bool {
		i++
		return i <= n
	})
}
