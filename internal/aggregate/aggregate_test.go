package aggregate

import (
	"math"
	"strings"
	"testing"

	"github.com/spdash/spdash/internal/dataset"
	"github.com/spdash/spdash/internal/normalizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `Gender,Department,Preparation,Gaming,Attendance,Semester,SSC,HSC,Last,Overall
Male,CSE,2-3 Hours,0-1 Hour,80%-100%,2nd,4.5,4.2,3.6,3.5
Female,CSE,0-1 Hour,0-1 Hour,60%-79%,1st,4.8,4.4,3.8,3.7
Male,EEE,1-2 Hours,More than 3 Hours,80%-100%,2nd,4.0,3.8,3.0,3.1
Female,BBA,More than 3 Hours,1-2 Hours,Below 40%,3rd,,4.0,3.3,3.3
,CSE,1-2 Hours,2-3 Hours,80%-100%,1st,3.9,3.9,3.4,3.2
Male,CSE,Sometimes,0-1 Hour,80%-100%,2nd,4.1,4.1,3.5,3.9
`

func loadSample(t *testing.T) *dataset.Dataset {
	t.Helper()
	table, err := dataset.ReadTable(strings.NewReader(sample))
	require.NoError(t, err)
	ds, _, err := normalizer.Normalize("sample", table, normalizer.DefaultBrackets())
	require.NoError(t, err)
	return ds
}

func value(t *testing.T, tbl *Table, keys ...string) float64 {
	t.Helper()
	row, ok := tbl.Lookup(keys...)
	require.True(t, ok, "no row for %v", keys)
	v, ok := row.Value.Float()
	require.True(t, ok, "missing value for %v", keys)
	return v
}

func TestAggregateMean(t *testing.T) {
	ds := loadSample(t)

	tbl, err := Aggregate(ds, []string{dataset.ColDepartment}, dataset.ColOverall, Mean)
	require.NoError(t, err)

	// First-seen order, no sorting
	assert.Equal(t, []string{"CSE", "EEE", "BBA"}, tbl.Levels(0))
	assert.InDelta(t, (3.5+3.7+3.2+3.9)/4, value(t, tbl, "CSE"), 1e-9)
	assert.InDelta(t, 3.1, value(t, tbl, "EEE"), 1e-9)
}

func TestAggregateReducerAliases(t *testing.T) {
	ds := loadSample(t)
	cse := []float64{3.5, 3.7, 3.2, 3.9}

	tests := []struct {
		alias Reducer
		want  Reducer
		value float64
	}{
		{"avg", Mean, (3.5 + 3.7 + 3.2 + 3.9) / 4},
		{"MEAN", Mean, (3.5 + 3.7 + 3.2 + 3.9) / 4},
		{"stddev", Std, sampleStd(cse)},
		{" Median ", Median, (3.5 + 3.7) / 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.alias), func(t *testing.T) {
			tbl, err := Aggregate(ds, []string{dataset.ColDepartment}, dataset.ColOverall, tt.alias)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tbl.Reducer)
			assert.InDelta(t, tt.value, value(t, tbl, "CSE"), 1e-9)
		})
	}
}

func TestAggregateReducers(t *testing.T) {
	ds := loadSample(t)
	tests := []struct {
		reducer Reducer
		want    float64
	}{
		{Min, 3.2},
		{Max, 3.9},
		{Count, 4},
		{Sum, 3.5 + 3.7 + 3.2 + 3.9},
		{Median, (3.5 + 3.7) / 2},
		{Std, sampleStd([]float64{3.5, 3.7, 3.2, 3.9})},
	}
	for _, tt := range tests {
		t.Run(tt.reducer.String(), func(t *testing.T) {
			tbl, err := Aggregate(ds, []string{dataset.ColDepartment}, dataset.ColOverall, tt.reducer)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, value(t, tbl, "CSE"), 1e-9)
		})
	}
}

func sampleStd(xs []float64) float64 {
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	var ss float64
	for _, x := range xs {
		ss += (x - mean) * (x - mean)
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

func TestAggregateTwoFieldsExcludesMissingKeys(t *testing.T) {
	ds := loadSample(t)

	tbl, err := Aggregate(ds, []string{dataset.ColDepartment, dataset.ColGender}, dataset.ColOverall, Count)
	require.NoError(t, err)

	// The row with no Gender is excluded, and no EEE/Female row is invented
	assert.Equal(t, 2.0, value(t, tbl, "CSE", "Male"))
	assert.Equal(t, 1.0, value(t, tbl, "CSE", "Female"))
	_, ok := tbl.Lookup("EEE", "Female")
	assert.False(t, ok)
	assert.Equal(t, 4, tbl.Len())
}

func TestAggregateAllMissingGroup(t *testing.T) {
	ds := loadSample(t)

	// BBA's only record has no SSC
	for _, r := range []Reducer{Mean, Min, Max, Std, Median, Sum} {
		tbl, err := Aggregate(ds, []string{dataset.ColDepartment}, dataset.ColSSC, r)
		require.NoError(t, err)
		row, ok := tbl.Lookup("BBA")
		require.True(t, ok)
		assert.True(t, row.Value.IsMissing(), "reducer %s", r)
		assert.Equal(t, 0, row.N)
	}

	tbl, err := Aggregate(ds, []string{dataset.ColDepartment}, dataset.ColSSC, Count)
	require.NoError(t, err)
	assert.Equal(t, 0.0, value(t, tbl, "BBA"))
}

func TestAggregateSingleValueStdIsMissing(t *testing.T) {
	ds := loadSample(t)
	tbl, err := Aggregate(ds, []string{dataset.ColDepartment}, dataset.ColOverall, Std)
	require.NoError(t, err)
	row, _ := tbl.Lookup("EEE")
	assert.True(t, row.Value.IsMissing())
}

func TestAggregateErrors(t *testing.T) {
	ds := loadSample(t)
	tests := []struct {
		name    string
		ds      *dataset.Dataset
		groups  []string
		value   string
		reducer Reducer
		want    error
	}{
		{"failed dataset", dataset.NewFailed("x"), []string{"Gender"}, "Overall", Mean, ErrNoData},
		{"no groups", ds, nil, "Overall", Mean, ErrGroupArity},
		{"three groups", ds, []string{"Gender", "Department", "Semester"}, "Overall", Mean, ErrGroupArity},
		{"unknown group", ds, []string{"Nope"}, "Overall", Mean, ErrUnknownField},
		{"unknown value", ds, []string{"Gender"}, "Nope", Mean, ErrUnknownField},
		{"categorical value", ds, []string{"Gender"}, "Department", Mean, ErrNotNumeric},
		{"bad reducer", ds, []string{"Gender"}, "Overall", Reducer("mode"), ErrUnknownReducer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Aggregate(tt.ds, tt.groups, tt.value, tt.reducer)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAggregateFilteredEmpty(t *testing.T) {
	ds := loadSample(t).Filter(func(*dataset.Record) bool { return false })
	tbl, err := Aggregate(ds, []string{dataset.ColGender}, dataset.ColOverall, Mean)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
}

func TestParseReducer(t *testing.T) {
	for in, want := range map[string]Reducer{
		"mean": Mean, "AVG": Mean, " average ": Mean, "std": Std, "count": Count,
		"min": Min, "max": Max, "median": Median, "sum": Sum,
	} {
		got, err := ParseReducer(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseReducer("mode")
	assert.ErrorIs(t, err, ErrUnknownReducer)
}

func TestSortBy(t *testing.T) {
	ds := loadSample(t)

	tbl, err := Aggregate(ds, []string{dataset.ColPreparation}, dataset.ColOverall, Mean)
	require.NoError(t, err)
	tbl.SortBy(ds.Orderings())

	// Canonical order, unknown label last
	assert.Equal(t, []string{"0-1 Hour", "1-2 Hours", "2-3 Hours", "More than 3 Hours", "Sometimes"}, tbl.Levels(0))

	tbl, err = Aggregate(ds, []string{dataset.ColDepartment, dataset.ColGender}, dataset.ColOverall, Mean)
	require.NoError(t, err)
	tbl.SortBy(nil)
	var got []string
	for _, row := range tbl.Rows {
		got = append(got, strings.Join(row.Keys, "/"))
	}
	assert.Equal(t, []string{"BBA/Female", "CSE/Female", "CSE/Male", "EEE/Male"}, got)
}

func TestSortByValue(t *testing.T) {
	ds := loadSample(t)
	tbl, err := Aggregate(ds, []string{dataset.ColDepartment}, dataset.ColSSC, Mean)
	require.NoError(t, err)

	tbl.SortByValue(true)
	assert.Equal(t, []string{"EEE", "CSE", "BBA"}, tbl.Levels(0))

	tbl.SortByValue(false)
	assert.Equal(t, []string{"CSE", "EEE", "BBA"}, tbl.Levels(0), "missing stays last")
}

func TestComplete(t *testing.T) {
	ds := loadSample(t)
	tbl, err := Aggregate(ds, []string{dataset.ColDepartment, dataset.ColGender}, dataset.ColOverall, Mean)
	require.NoError(t, err)

	full := tbl.Complete([][]string{{"BBA", "CSE", "EEE"}, {"Female", "Male"}})
	require.Equal(t, 6, full.Len())
	assert.Equal(t, 4, tbl.Len(), "original table untouched")

	row, ok := full.Lookup("EEE", "Female")
	require.True(t, ok)
	assert.True(t, row.Value.IsMissing())
	assert.Equal(t, []string{"BBA", "Female"}, full.Rows[0].Keys)

	counts, err := Aggregate(ds, []string{dataset.ColDepartment, dataset.ColGender}, dataset.ColOverall, Count)
	require.NoError(t, err)
	row, _ = counts.Complete([][]string{{"BBA", "CSE", "EEE"}, {"Female", "Male"}}).Lookup("BBA", "Male")
	assert.Equal(t, "0", row.Value.String())
}

func TestHeader(t *testing.T) {
	ds := loadSample(t)
	tbl, err := Aggregate(ds, []string{dataset.ColGender}, dataset.ColOverall, Mean)
	require.NoError(t, err)
	assert.Equal(t, []string{"Gender", "mean(Overall)"}, tbl.Header())
}

func TestSortMode(t *testing.T) {
	ds := loadSample(t)

	m, err := ParseSortMode("")
	require.NoError(t, err)
	assert.Equal(t, SortCanonical, m)
	_, err = ParseSortMode("random")
	assert.Error(t, err)

	tbl, err := Aggregate(ds, []string{dataset.ColDepartment}, dataset.ColOverall, Count)
	require.NoError(t, err)

	tbl.Sort(SortNone, nil)
	assert.Equal(t, []string{"CSE", "EEE", "BBA"}, tbl.Levels(0))
	tbl.Sort(SortCanonical, ds.Orderings())
	assert.Equal(t, []string{"BBA", "CSE", "EEE"}, tbl.Levels(0))
	tbl.Sort(SortValueDesc, nil)
	assert.Equal(t, "CSE", tbl.Rows[0].Keys[0])
}

func TestQueryRun(t *testing.T) {
	ds := loadSample(t)

	q := Query{
		GroupFields: []string{dataset.ColPreparation, dataset.ColGender},
		ValueField:  dataset.ColOverall,
		Reducer:     Mean,
		Sort:        SortCanonical,
	}
	tbl, err := q.Run(ds)
	require.NoError(t, err)
	assert.Equal(t, "0-1 Hour", tbl.Rows[0].Keys[0])
	observed := tbl.Len()

	q.Fill = true
	tbl, err = q.Run(ds)
	require.NoError(t, err)
	// Full canonical Preparation order plus the unknown label, times two genders
	assert.Equal(t, 4*2+1, tbl.Len())
	assert.Greater(t, tbl.Len(), observed)
	assert.Equal(t, "Sometimes", tbl.Rows[tbl.Len()-1].Keys[0])

	assert.Equal(t, []string{"0-1 Hour", "1-2 Hours", "2-3 Hours", "More than 3 Hours"}, DisplayLevels(ds, dataset.ColPreparation))
	assert.Equal(t, []string{"BBA", "CSE", "EEE"}, DisplayLevels(ds, dataset.ColDepartment))
}
