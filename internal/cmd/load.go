package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spdash/spdash/internal/dataset"
	"github.com/spdash/spdash/internal/normalizer"
	"github.com/spdash/spdash/internal/output"
	"github.com/spf13/cobra"
)

type loadOptions struct {
	out  string
	json bool
}

func newLoadCmd(global *globalOptions) *cobra.Command {
	opts := &loadOptions{}

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load and clean the dataset",
		Long: `Fetch the configured dataset, clean it and report the outcome.

Rows missing HSC, Last or Overall are dropped. Bracket fields gain numeric
and ordered companions. Use --out to write the cleaned table as CSV.

Examples:
    spdash load
    spdash load --source ./students.csv --out clean.csv
    spdash load --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write the cleaned dataset as CSV (- for stdout)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the load status as JSON")

	return cmd
}

func runLoad(cmd *cobra.Command, global *globalOptions, opts *loadOptions) error {
	env, err := loadEnvironment(cmd, global)
	if err != nil {
		return err
	}

	ds, status := env.newNormalizer().Load(cmd.Context(), env.location())

	// stdout carries the CSV alone when the dataset is written there
	w := cmd.OutOrStdout()
	if opts.out == "-" {
		w = cmd.ErrOrStderr()
	}

	if opts.json {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		fmt.Fprintln(w, string(data))
	} else {
		printStatus(w, status, ds)
	}

	if !status.OK {
		return NewExitError(1, "")
	}

	if opts.out != "" {
		if err := writeDataset(cmd.OutOrStdout(), opts.out, ds); err != nil {
			return err
		}
		if opts.out != "-" && !opts.json {
			cmd.Printf("Wrote %d rows to %s\n", ds.Len(), opts.out)
		}
	}

	return nil
}

// loadDataset loads the configured source and turns a failed load into
// an exit error.
func loadDataset(cmd *cobra.Command, env *environment) (*dataset.Dataset, normalizer.Status, error) {
	ds, status := env.newNormalizer().Load(cmd.Context(), env.location())
	if !status.OK {
		return nil, status, NewExitError(1, status.Message)
	}
	return ds, status, nil
}

func printStatus(w io.Writer, status normalizer.Status, ds *dataset.Dataset) {
	field := func(label, value string) {
		fmt.Fprintf(w, "  %s %s\n", output.PadRight(label+":", 9), value)
	}

	fmt.Fprintf(w, "%s %s\n", output.Checkmark(status.OK), status.Message)
	if !status.OK {
		field("Reason", string(status.Reason))
		field("Source", status.Source)
		return
	}

	field("Source", status.Source)
	field("Dropped", strconv.Itoa(status.Dropped))
	field("Duration", status.Duration.String())
	field("Columns", strings.Join(ds.Columns(), ", "))
}

func writeDataset(stdout io.Writer, path string, ds *dataset.Dataset) error {
	if path == "-" {
		return ds.WriteCSV(stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := ds.WriteCSV(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
