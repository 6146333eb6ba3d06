package normalizer

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/spdash/spdash/internal/dataset"
)

// ErrMissingColumns is returned when a column needed to drop incomplete
// records is absent from the source.
var ErrMissingColumns = errors.New("missing required columns")

var semesterDigits = regexp.MustCompile(`\p{Nd}+`)

// SemesterSortKey extracts the first run of decimal digits of a semester
// label as a number, e.g. "2nd Semester" -> 2. Digits of any script count.
// Labels without digits are missing.
func SemesterSortKey(label string) dataset.Number {
	if dataset.IsNA(label) {
		return dataset.Missing
	}
	m := semesterDigits.FindString(label)
	if m == "" {
		return dataset.Missing
	}
	ascii := strings.Map(func(r rune) rune {
		return '0' + rune(digitValue(r))
	}, m)
	v, err := strconv.ParseFloat(ascii, 64)
	if err != nil {
		return dataset.Missing
	}
	return dataset.Some(v)
}

// digitValue returns the value of a decimal digit rune. Unicode lays out
// every decimal digit set as a contiguous run starting at zero.
func digitValue(r rune) int {
	k := 0
	for unicode.IsDigit(r - rune(k) - 1) {
		k++
	}
	return k % 10
}

// Normalize turns a parsed table into a cleaned dataset. Numeric coercion
// and derivation run on every row before incomplete rows are dropped.
// It returns the number of dropped rows.
func Normalize(location string, table *dataset.Table, brackets Brackets) (*dataset.Dataset, int, error) {
	if missing := missingColumns(table, dataset.RequiredColumns()); len(missing) > 0 {
		return nil, 0, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	idx := table.ColumnIndex()
	columns := append([]string{}, table.Header...)

	records := make([]*dataset.Record, len(table.Rows))
	for i, row := range table.Rows {
		r := dataset.NewRecord()
		for j, col := range table.Header {
			r.SetRaw(col, row[j])
		}
		records[i] = r
	}

	var numeric []string
	opts := []dataset.Option{}

	// A derived column already present in the source is overwritten in place
	addDerived := func(col string) {
		if _, ok := idx[col]; !ok {
			columns = append(columns, col)
		}
		numeric = append(numeric, col)
	}

	// Scores
	for _, col := range dataset.ScoreColumns() {
		j, ok := idx[col]
		if !ok {
			continue
		}
		numeric = append(numeric, col)
		for i, r := range records {
			r.SetNumber(col, dataset.ParseNumber(table.Rows[i][j]))
		}
	}

	// Preparation midpoint
	if _, ok := idx[dataset.ColPreparation]; ok {
		derive(records, dataset.ColPreparation, dataset.ColPreparationNumeric, brackets.Preparation.Midpoint)
		addDerived(dataset.ColPreparationNumeric)
		opts = append(opts, dataset.WithOrdering(dataset.ColPreparation, brackets.Preparation.Order))
	}

	// Attendance midpoint, ordered over the labels that actually occur
	if _, ok := idx[dataset.ColAttendance]; ok {
		derive(records, dataset.ColAttendance, dataset.ColAttendanceNumeric, brackets.Attendance.Midpoint)
		addDerived(dataset.ColAttendanceNumeric)

		var observed []string
		for _, r := range records {
			if v, ok := r.Label(dataset.ColAttendance); ok {
				observed = append(observed, v)
			}
		}
		opts = append(opts, dataset.WithOrdering(dataset.ColAttendance, brackets.Attendance.Order.Observed(observed)))
	}

	if _, ok := idx[dataset.ColGaming]; ok {
		opts = append(opts, dataset.WithOrdering(dataset.ColGaming, brackets.Gaming.Order))
	}

	// Semester sort key
	if _, ok := idx[dataset.ColSemester]; ok {
		derive(records, dataset.ColSemester, dataset.ColSemesterSort, SemesterSortKey)
		addDerived(dataset.ColSemesterSort)
	}

	// Drop incomplete rows last so the decision sees derived values
	kept := records[:0]
	for _, r := range records {
		if complete(r) {
			kept = append(kept, r)
		}
	}
	dropped := len(records) - len(kept)

	opts = append(opts, dataset.WithNumeric(numeric...))
	return dataset.New(location, columns, kept, opts...), dropped, nil
}

// derive attaches a numeric column computed from another column's label.
func derive(records []*dataset.Record, from, to string, fn func(string) dataset.Number) {
	for _, r := range records {
		label, ok := r.Label(from)
		if !ok {
			r.SetNumber(to, dataset.Missing)
			continue
		}
		r.SetNumber(to, fn(label))
	}
}

func complete(r *dataset.Record) bool {
	for _, col := range dataset.RequiredColumns() {
		if r.Number(col).IsMissing() {
			return false
		}
	}
	return true
}

func missingColumns(table *dataset.Table, cols []string) []string {
	var missing []string
	for _, col := range cols {
		if !table.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}
