package dataset

import "sort"

// Ordering is the canonical display order of a bracket field.
type Ordering struct {
	labels []string
	index  map[string]int
	key    func(string) string
}

// NewOrdering creates an ordering from labels. Duplicates keep their first position.
func NewOrdering(labels ...string) *Ordering {
	o := &Ordering{index: make(map[string]int, len(labels))}
	for _, l := range labels {
		if _, ok := o.index[l]; ok {
			continue
		}
		o.index[l] = len(o.labels)
		o.labels = append(o.labels, l)
	}
	return o
}

// Keyed returns a copy of the ordering that matches labels through fn, so
// that variant spellings of a label share its rank. Labels keep their
// original text.
func (o *Ordering) Keyed(fn func(string) string) *Ordering {
	k := &Ordering{index: make(map[string]int, len(o.labels)), key: fn}
	for _, l := range o.labels {
		if _, ok := k.index[fn(l)]; ok {
			continue
		}
		k.index[fn(l)] = len(k.labels)
		k.labels = append(k.labels, l)
	}
	return k
}

func (o *Ordering) lookup(label string) (int, bool) {
	if o.key != nil {
		label = o.key(label)
	}
	i, ok := o.index[label]
	return i, ok
}

// Labels returns the labels in canonical order.
func (o *Ordering) Labels() []string {
	return append([]string{}, o.labels...)
}

// Len returns the number of labels.
func (o *Ordering) Len() int {
	return len(o.labels)
}

// Rank returns the position of a label, false if the label is not part of
// the ordering.
func (o *Ordering) Rank(label string) (int, bool) {
	return o.lookup(label)
}

// Contains checks if a label is part of the ordering.
func (o *Ordering) Contains(label string) bool {
	_, ok := o.lookup(label)
	return ok
}

// Observed returns the subset of the ordering present in values, keeping
// the canonical relative order.
func (o *Ordering) Observed(values []string) *Ordering {
	seen := make(map[int]bool, len(values))
	for _, v := range values {
		if i, ok := o.lookup(v); ok {
			seen[i] = true
		}
	}
	var kept []string
	for i, l := range o.labels {
		if seen[i] {
			kept = append(kept, l)
		}
	}
	out := NewOrdering(kept...)
	if o.key != nil {
		return out.Keyed(o.key)
	}
	return out
}

// Less orders two labels canonically. Unknown labels sort after known ones
// and lexically among themselves.
func (o *Ordering) Less(a, b string) bool {
	ra, oka := o.lookup(a)
	rb, okb := o.lookup(b)
	switch {
	case oka && okb:
		return ra < rb
	case oka:
		return true
	case okb:
		return false
	default:
		return a < b
	}
}

// Sort sorts labels in place by canonical order.
func (o *Ordering) Sort(labels []string) {
	sort.SliceStable(labels, func(i, j int) bool {
		return o.Less(labels[i], labels[j])
	})
}
