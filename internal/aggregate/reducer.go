package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spdash/spdash/internal/dataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Reducer collapses the values of one group to a single number.
type Reducer string

const (
	Mean   Reducer = "mean"
	Min    Reducer = "min"
	Max    Reducer = "max"
	Std    Reducer = "std"
	Count  Reducer = "count"
	Median Reducer = "median"
	Sum    Reducer = "sum"
)

// Reducers returns every supported reducer.
func Reducers() []Reducer {
	return []Reducer{Mean, Min, Max, Std, Count, Median, Sum}
}

// ParseReducer converts a name into a Reducer. "avg" and "average" are
// accepted for mean.
func ParseReducer(s string) (Reducer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mean", "avg", "average":
		return Mean, nil
	case "min":
		return Min, nil
	case "max":
		return Max, nil
	case "std", "stddev":
		return Std, nil
	case "count":
		return Count, nil
	case "median":
		return Median, nil
	case "sum":
		return Sum, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownReducer, s)
	}
}

// String returns the string representation of the reducer.
func (r Reducer) String() string {
	return string(r)
}

// Reduce applies the reducer to the non-missing values. With no values
// every reducer except count yields missing.
func (r Reducer) Reduce(values []float64) dataset.Number {
	if r == Count {
		return dataset.Some(float64(len(values)))
	}
	if len(values) == 0 {
		return dataset.Missing
	}

	switch r {
	case Mean:
		return dataset.Some(stat.Mean(values, nil))
	case Min:
		return dataset.Some(floats.Min(values))
	case Max:
		return dataset.Some(floats.Max(values))
	case Std:
		// Sample standard deviation; a single value yields NaN, hence missing
		return dataset.Some(stat.StdDev(values, nil))
	case Median:
		return dataset.Some(quantile(sorted(values), 0.5))
	case Sum:
		return dataset.Some(floats.Sum(values))
	default:
		return dataset.Missing
	}
}

func sorted(values []float64) []float64 {
	out := append([]float64{}, values...)
	sort.Float64s(out)
	return out
}

// quantile interpolates linearly between the closest ranks of sorted
// values, so the median of an even count is the mean of the middle pair.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	h := float64(len(sorted)-1) * p
	lo := int(h)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}
