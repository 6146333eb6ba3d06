package report

import (
	"github.com/spdash/spdash/internal/aggregate"
	"github.com/spdash/spdash/internal/dataset"
)

type chartSpec struct {
	id       string
	title    string
	kind     ChartKind
	requires []string
	build    func(ds *dataset.Dataset, opts Options) (Chart, error)
}

// Correlation heatmap fields, in display order.
var heatmapFields = []string{
	dataset.ColHSC, dataset.ColSSC, dataset.ColLast, dataset.ColOverall,
	dataset.ColPreparationNumeric, dataset.ColAttendanceNumeric,
}

var catalog = map[Objective][]chartSpec{
	ObjectiveAcademic: {
		{
			id:       "hsc_vs_overall",
			title:    "HSC vs Overall CGPA",
			kind:     KindScatter,
			requires: []string{dataset.ColHSC, dataset.ColOverall},
			build:    scatter(dataset.ColHSC, dataset.ColOverall),
		},
		{
			id:       "ssc_vs_overall",
			title:    "SSC vs Overall CGPA",
			kind:     KindScatter,
			requires: []string{dataset.ColSSC, dataset.ColOverall},
			build:    scatter(dataset.ColSSC, dataset.ColOverall),
		},
		{
			id:       "overall_by_attendance",
			title:    "Average Overall CGPA by Attendance",
			kind:     KindBar,
			requires: []string{dataset.ColAttendance, dataset.ColOverall},
			build:    meanBar(dataset.ColOverall, dataset.ColAttendance),
		},
		{
			id:       "overall_by_preparation",
			title:    "Average Overall CGPA by Preparation Time",
			kind:     KindBar,
			requires: []string{dataset.ColPreparation, dataset.ColOverall},
			build:    meanBar(dataset.ColOverall, dataset.ColPreparation),
		},
		{
			id:       "correlation",
			title:    "Correlation of Academic and Habit Measures",
			kind:     KindHeatmap,
			requires: []string{dataset.ColHSC, dataset.ColOverall},
			build:    heatmap,
		},
	},
	ObjectiveBackground: {
		{
			id:       "overall_by_hometown",
			title:    "Overall CGPA Distribution by Hometown",
			kind:     KindViolin,
			requires: []string{dataset.ColHometown, dataset.ColOverall},
			build:    distribution(dataset.ColHometown, dataset.ColOverall),
		},
		{
			id:       "overall_by_department_gender",
			title:    "Average Overall CGPA by Department and Gender",
			kind:     KindBar,
			requires: []string{dataset.ColDepartment, dataset.ColGender, dataset.ColOverall},
			build:    meanBar(dataset.ColOverall, dataset.ColDepartment, dataset.ColGender),
		},
		{
			id:       "overall_by_income",
			title:    "Overall CGPA by Income",
			kind:     KindBox,
			requires: []string{dataset.ColIncome, dataset.ColOverall},
			build:    distribution(dataset.ColIncome, dataset.ColOverall),
		},
	},
	ObjectiveTemporal: {
		{
			id:       "overall_by_semester",
			title:    "Average Overall CGPA by Semester",
			kind:     KindLine,
			requires: []string{dataset.ColSemester, dataset.ColOverall, dataset.ColSemesterSort},
			build:    semesterTrend,
		},
		{
			id:       "last_vs_overall_by_department",
			title:    "Mean Last Score and Mean Overall CGPA by Department",
			kind:     KindDumbbell,
			requires: []string{dataset.ColDepartment, dataset.ColLast, dataset.ColOverall},
			build:    dumbbell,
		},
		{
			id:       "overall_by_preparation_gaming",
			title:    "Mean Overall CGPA by Preparation and Gaming",
			kind:     KindBar,
			requires: []string{dataset.ColPreparation, dataset.ColGaming, dataset.ColOverall},
			build:    meanBar(dataset.ColOverall, dataset.ColPreparation, dataset.ColGaming),
		},
	},
}

func scatter(x, y string) func(*dataset.Dataset, Options) (Chart, error) {
	return func(ds *dataset.Dataset, _ Options) (Chart, error) {
		pts, err := aggregate.Points(ds, x, y, "")
		if err != nil {
			return Chart{}, err
		}
		return Chart{X: x, Y: y, Points: pts}, nil
	}
}

// meanBar averages value by one or two fields, sorted for display. The
// second field, if any, is the colour of a grouped bar.
func meanBar(value string, groups ...string) func(*dataset.Dataset, Options) (Chart, error) {
	return func(ds *dataset.Dataset, opts Options) (Chart, error) {
		q := aggregate.Query{
			GroupFields: groups,
			ValueField:  value,
			Reducer:     aggregate.Mean,
			Sort:        aggregate.SortCanonical,
			Fill:        opts.FillUnobserved,
		}
		t, err := q.Run(ds)
		if err != nil {
			return Chart{}, err
		}

		c := Chart{X: groups[0], Y: value, Table: t}
		if len(groups) > 1 {
			c.Colour = groups[1]
		}
		return c, nil
	}
}

func heatmap(ds *dataset.Dataset, _ Options) (Chart, error) {
	m, err := aggregate.Correlation(ds, heatmapFields)
	if err != nil {
		return Chart{}, err
	}
	return Chart{Matrix: m}, nil
}

func distribution(group, value string) func(*dataset.Dataset, Options) (Chart, error) {
	return func(ds *dataset.Dataset, _ Options) (Chart, error) {
		s, err := aggregate.Describe(ds, group, value)
		if err != nil {
			return Chart{}, err
		}
		return Chart{X: group, Y: value, Summaries: s}, nil
	}
}

// semesterTrend averages Overall per semester label, ordered by the mean
// semester sort key. Labels without a key come last.
func semesterTrend(ds *dataset.Dataset, _ Options) (Chart, error) {
	overall, err := aggregate.Aggregate(ds, []string{dataset.ColSemester}, dataset.ColOverall, aggregate.Mean)
	if err != nil {
		return Chart{}, err
	}
	keys, err := aggregate.Aggregate(ds, []string{dataset.ColSemester}, dataset.ColSemesterSort, aggregate.Mean)
	if err != nil {
		return Chart{}, err
	}
	keys.SortByValue(true)

	order := dataset.NewOrdering(keys.Levels(0)...)
	overall.SortBy(map[string]*dataset.Ordering{dataset.ColSemester: order})
	return Chart{X: dataset.ColSemester, Y: dataset.ColOverall, Table: overall}, nil
}

// dumbbell pairs mean Last with mean Overall per department, sorted by
// mean Overall ascending.
func dumbbell(ds *dataset.Dataset, _ Options) (Chart, error) {
	last, err := aggregate.Aggregate(ds, []string{dataset.ColDepartment}, dataset.ColLast, aggregate.Mean)
	if err != nil {
		return Chart{}, err
	}
	overall, err := aggregate.Aggregate(ds, []string{dataset.ColDepartment}, dataset.ColOverall, aggregate.Mean)
	if err != nil {
		return Chart{}, err
	}
	overall.SortByValue(true)

	pairs := make([]Pair, 0, overall.Len())
	for _, row := range overall.Rows {
		p := Pair{Group: row.Keys[0], From: dataset.Missing, To: row.Value}
		if l, ok := last.Lookup(row.Keys...); ok {
			p.From = l.Value
		}
		pairs = append(pairs, p)
	}
	return Chart{X: dataset.ColLast, Y: dataset.ColOverall, Pairs: pairs}, nil
}
