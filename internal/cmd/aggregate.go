package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spdash/spdash/internal/aggregate"
	"github.com/spdash/spdash/internal/dataset"
	"github.com/spdash/spdash/internal/output"
	"github.com/spf13/cobra"
)

type aggregateOptions struct {
	by        []string
	value     string
	reducer   string
	sort      string
	fill      bool
	precision int
	json      bool
}

func newAggregateCmd(global *globalOptions) *cobra.Command {
	opts := &aggregateOptions{}

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Group the dataset and reduce a numeric field",
		Long: `Group the cleaned dataset by one or two categorical fields and reduce a
numeric field within each group.

Reducers: mean, median, min, max, std, count, sum.
Sort modes: canonical (bracket order), value, value_desc, none.

Examples:
    spdash aggregate --by Department
    spdash aggregate --by Department --by Gender --value HSC --reducer median
    spdash aggregate --by Attendance --sort value_desc --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAggregate(cmd, global, opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.by, "by", nil, "grouping field, repeat for two fields")
	cmd.Flags().StringVar(&opts.value, "value", dataset.ColOverall, "numeric field to reduce")
	cmd.Flags().StringVar(&opts.reducer, "reducer", string(aggregate.Mean), "reducer to apply")
	cmd.Flags().StringVar(&opts.sort, "sort", string(aggregate.SortCanonical), "row order")
	cmd.Flags().BoolVar(&opts.fill, "fill", false, "emit blank rows for unobserved combinations (default from config)")
	cmd.Flags().IntVar(&opts.precision, "precision", 2, "decimal places in terminal output")
	cmd.Flags().BoolVar(&opts.json, "json", false, "output as JSON")
	_ = cmd.MarkFlagRequired("by")

	return cmd
}

func runAggregate(cmd *cobra.Command, global *globalOptions, opts *aggregateOptions) error {
	reducer, err := aggregate.ParseReducer(opts.reducer)
	if err != nil {
		return err
	}
	mode, err := aggregate.ParseSortMode(opts.sort)
	if err != nil {
		return err
	}

	env, err := loadEnvironment(cmd, global)
	if err != nil {
		return err
	}

	fill := env.cfg.FillUnobserved()
	if cmd.Flags().Changed("fill") {
		fill = opts.fill
	}

	ds, _, err := loadDataset(cmd, env)
	if err != nil {
		return err
	}

	q := aggregate.Query{
		GroupFields: opts.by,
		ValueField:  opts.value,
		Reducer:     reducer,
		Sort:        mode,
		Fill:        fill,
	}
	table, err := q.Run(ds)
	if err != nil {
		return err
	}

	if opts.json {
		data, err := json.MarshalIndent(table, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal aggregate: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	displayAggregate(cmd, table, opts.precision)
	return nil
}

func displayAggregate(cmd *cobra.Command, table *aggregate.Table, precision int) {
	title := fmt.Sprintf("%s of %s by %s", table.Reducer, table.ValueField, strings.Join(table.GroupFields, " × "))
	cmd.Println(output.Header(title, 80))
	cmd.Println()

	k := len(table.GroupFields)
	t := output.NewTable(append(table.Header(), "n")...).SetAlign(output.AlignRight, k, k+1)
	for _, row := range table.Rows {
		cells := append([]string{}, row.Keys...)
		value := ""
		if !row.Value.IsMissing() {
			value = row.Value.Format(precision)
		}
		cells = append(cells, value, strconv.Itoa(row.N))
		t.AddRow(cells...)
	}
	cmd.Print(t.Render())
	cmd.Printf("\n%d groups\n", table.Len())
}
