package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spdash/spdash/internal/dataset"
)

// SortBy orders rows for presentation. Grouping fields with an ordering
// sort by canonical rank with unknown labels last; other fields sort
// lexically. The first grouping field is the primary key.
func (t *Table) SortBy(orderings map[string]*dataset.Ordering) *Table {
	less := func(field, a, b string) bool {
		if o := orderings[field]; o != nil {
			return o.Less(a, b)
		}
		return a < b
	}
	sort.SliceStable(t.Rows, func(i, j int) bool {
		for k, field := range t.GroupFields {
			a, b := t.Rows[i].Keys[k], t.Rows[j].Keys[k]
			if a == b {
				continue
			}
			return less(field, a, b)
		}
		return false
	})
	return t
}

// SortByValue orders rows by reduced value. Missing values sort last.
func (t *Table) SortByValue(ascending bool) *Table {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		a, aok := t.Rows[i].Value.Float()
		b, bok := t.Rows[j].Value.Float()
		switch {
		case !aok || !bok:
			return aok && !bok
		case ascending:
			return a < b
		default:
			return a > b
		}
	})
	return t
}

// Complete returns a table holding every combination of levels, one slice
// per grouping field, in level order. Combinations without records carry a
// missing value (zero for count). Observed rows whose keys fall outside
// the levels are kept after the product.
func (t *Table) Complete(levels [][]string) *Table {
	out := &Table{
		GroupFields: append([]string{}, t.GroupFields...),
		ValueField:  t.ValueField,
		Reducer:     t.Reducer,
	}
	if len(levels) != len(t.GroupFields) {
		out.Rows = append([]Row{}, t.Rows...)
		return out
	}

	observed := make(map[string]Row, len(t.Rows))
	for _, row := range t.Rows {
		observed[joinKeys(row.Keys)] = row
	}
	used := make(map[string]bool, len(t.Rows))

	for _, keys := range product(levels) {
		id := joinKeys(keys)
		if row, ok := observed[id]; ok {
			out.Rows = append(out.Rows, row)
			used[id] = true
			continue
		}
		out.Rows = append(out.Rows, Row{Keys: keys, Value: t.Reducer.Reduce(nil)})
	}
	for _, row := range t.Rows {
		if !used[joinKeys(row.Keys)] {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

func product(levels [][]string) [][]string {
	combos := [][]string{{}}
	for _, lv := range levels {
		var next [][]string
		for _, prefix := range combos {
			for _, v := range lv {
				keys := append(append([]string{}, prefix...), v)
				next = append(next, keys)
			}
		}
		combos = next
	}
	return combos
}

// SortMode selects how a table is ordered for presentation.
type SortMode string

const (
	SortCanonical SortMode = "canonical"
	SortValue     SortMode = "value"
	SortValueDesc SortMode = "value_desc"
	SortNone      SortMode = "none"
)

// ParseSortMode converts a name into a SortMode. The empty string means
// canonical.
func ParseSortMode(s string) (SortMode, error) {
	switch m := SortMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return SortCanonical, nil
	case SortCanonical, SortValue, SortValueDesc, SortNone:
		return m, nil
	default:
		return "", fmt.Errorf("unknown sort %q (expected canonical, value, value_desc or none)", s)
	}
}

// Sort orders the table by mode.
func (t *Table) Sort(mode SortMode, orderings map[string]*dataset.Ordering) *Table {
	switch mode {
	case SortCanonical:
		return t.SortBy(orderings)
	case SortValue:
		return t.SortByValue(true)
	case SortValueDesc:
		return t.SortByValue(false)
	default:
		return t
	}
}
