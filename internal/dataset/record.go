package dataset

// Record is one student-semester observation.
//
// Raw holds every source cell as read. Numeric columns, coerced or derived,
// live in a separate map so a coerced column keeps its raw text too.
type Record struct {
	raw     map[string]string
	numbers map[string]Number
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{
		raw:     make(map[string]string),
		numbers: make(map[string]Number),
	}
}

// SetRaw stores a raw cell. Only used while a dataset is being built.
func (r *Record) SetRaw(col, value string) {
	r.raw[col] = value
}

// SetNumber stores a numeric cell. Only used while a dataset is being built.
func (r *Record) SetNumber(col string, n Number) {
	r.numbers[col] = n
}

// Raw returns the raw cell for a column.
func (r *Record) Raw(col string) (string, bool) {
	v, ok := r.raw[col]
	return v, ok
}

// Label returns the categorical value of a column. The second result is
// false when the column is absent or the cell is missing.
func (r *Record) Label(col string) (string, bool) {
	v, ok := r.raw[col]
	if !ok || IsNA(v) {
		return "", false
	}
	return v, true
}

// Number returns the numeric value of a column, missing if the column is
// not numeric.
func (r *Record) Number(col string) Number {
	return r.numbers[col]
}

// HasNumber reports whether the column holds a numeric value on this record.
func (r *Record) HasNumber(col string) bool {
	_, ok := r.numbers[col]
	return ok
}

// Value returns the display value of a column: the formatted number for
// numeric columns, the raw cell otherwise.
func (r *Record) Value(col string) string {
	if n, ok := r.numbers[col]; ok {
		return n.String()
	}
	return r.raw[col]
}
