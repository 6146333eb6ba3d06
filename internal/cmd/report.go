package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spdash/spdash/internal/report"
	"github.com/spf13/cobra"
)

// ErrXLSXNeedsFile is returned when a workbook would be written to stdout.
var ErrXLSXNeedsFile = errors.New("xlsx output requires --out")

type reportOptions struct {
	format string
	out    string
	fill   bool
}

func newReportCmd(global *globalOptions) *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report <objective>",
		Short: "Render the charts of a dashboard objective",
		Long: `Render the KPIs and chart data of one dashboard objective.

Objectives:
  1  Prior Academic Standing and Study Habits
  2  Demographic and Socioeconomic Background
  3  Temporal and Habit Interaction

Formats: text, json, csv, xlsx. XLSX needs --out.

Examples:
    spdash report 1
    spdash report 2 --format json
    spdash report 3 --format xlsx --out temporal.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, global, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", string(report.FormatText), "output format: text, json, csv, xlsx")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write to a file instead of stdout")
	cmd.Flags().BoolVar(&opts.fill, "fill", false, "emit blank rows for unobserved combinations (default from config)")

	return cmd
}

func runReport(cmd *cobra.Command, global *globalOptions, opts *reportOptions, arg string) error {
	obj, err := report.ParseObjective(arg)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if format == report.FormatXLSX && (opts.out == "" || opts.out == "-") {
		return ErrXLSXNeedsFile
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

	r, err := report.Build(ds, obj, report.Options{FillUnobserved: fill})
	if err != nil {
		return err
	}
	for _, s := range r.Skipped {
		env.log.Warn("chart skipped", "chart", s.Chart, "reason", s.Reason)
	}

	if opts.out == "" || opts.out == "-" {
		return report.Write(cmd.OutOrStdout(), r, format)
	}

	if err := writeReportFile(opts.out, r, format); err != nil {
		return err
	}
	cmd.Printf("Wrote %s report (%d charts) to %s\n", strings.ToUpper(string(format)), len(r.Charts), opts.out)
	return nil
}

func writeReportFile(path string, r *report.Report, format report.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := report.Write(f, r, format); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
