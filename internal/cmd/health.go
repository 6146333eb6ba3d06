package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spdash/spdash/internal/config"
	"github.com/spdash/spdash/internal/dataset"
	"github.com/spdash/spdash/internal/normalizer"
	"github.com/spdash/spdash/internal/output"
	"github.com/spf13/cobra"
)

// Health check outcomes.
const (
	checkPass = "PASS"
	checkWarn = "WARN"
	checkFail = "FAIL"
)

// healthCheck is the outcome of one check.
type healthCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// healthResult collects every check of a health run.
type healthResult struct {
	Status  string        `json:"status"`
	Source  string        `json:"source"`
	Rows    int           `json:"rows"`
	Dropped int           `json:"dropped"`
	Checks  []healthCheck `json:"checks"`
}

func (r *healthResult) add(name, status, message string) {
	r.Checks = append(r.Checks, healthCheck{Name: name, Status: status, Message: message})
}

func (r *healthResult) count(status string) int {
	n := 0
	for _, c := range r.Checks {
		if c.Status == status {
			n++
		}
	}
	return n
}

// exitCode maps the worst check outcome to a process exit code.
func (r *healthResult) exitCode() int {
	switch {
	case r.count(checkFail) > 0:
		return 2
	case r.count(checkWarn) > 0:
		return 1
	default:
		return 0
	}
}

func newHealthCmd(global *globalOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Run health check for CI/CD pipelines",
		Long: `Check the configuration, fetch the dataset and verify its shape.

Exit codes:
  0  All checks passed
  1  Warnings present (non-blocking issues)
  2  Errors present (blocking issues)

Use --json for machine-readable output in CI/CD pipelines.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd, global)
			if err != nil {
				return err
			}

			result := runHealthChecks(cmd.Context(), env)

			if jsonOutput {
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal health result: %w", err)
				}
				cmd.Println(string(data))
			} else {
				displayHealth(cmd, result)
			}

			if code := result.exitCode(); code != 0 {
				return NewExitError(code, "")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func runHealthChecks(ctx context.Context, env *environment) *healthResult {
	result := &healthResult{Source: env.location()}

	if err := env.cfg.Validate(); err != nil {
		result.add("config", checkFail, joinErrors(err))
	} else if env.cfgPath == "" {
		result.add("config", checkPass, "using defaults")
	} else {
		result.add("config", checkPass, env.cfgPath)
	}

	ds, status := env.newNormalizer().Load(ctx, env.location())
	if !status.OK {
		result.add("source", checkFail, fmt.Sprintf("%s (%s)", status.Message, status.Reason))
		result.Status = healthLabel(result.exitCode())
		return result
	}
	result.add("source", checkPass, fmt.Sprintf("loaded in %s", status.Duration))
	result.Rows = status.Rows
	result.Dropped = status.Dropped

	var missing []string
	for _, col := range dataset.ExpectedColumns() {
		if !ds.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		result.add("columns", checkWarn, "missing optional columns: "+strings.Join(missing, ", "))
	} else {
		result.add("columns", checkPass, fmt.Sprintf("%d expected columns present", len(dataset.ExpectedColumns())))
	}

	total := status.Rows + status.Dropped
	switch {
	case status.Rows == 0:
		result.add("rows", checkFail, "no usable rows after cleaning")
	case status.Dropped > 0:
		result.add("rows", checkWarn, fmt.Sprintf("%d of %d rows dropped for missing HSC, Last or Overall", status.Dropped, total))
	default:
		result.add("rows", checkPass, fmt.Sprintf("%d rows", status.Rows))
	}

	brackets := []struct {
		col string
		cfg config.BracketConfig
	}{
		{dataset.ColAttendance, env.cfg.Dashboard.Brackets.Attendance},
		{dataset.ColPreparation, env.cfg.Dashboard.Brackets.Preparation},
		{dataset.ColGaming, env.cfg.Dashboard.Brackets.Gaming},
	}
	for _, b := range brackets {
		if !ds.HasColumn(b.col) {
			continue
		}
		if unknown := unknownLabels(ds, b.col, b.cfg.Order); len(unknown) > 0 {
			result.add(strings.ToLower(b.col), checkWarn, "labels outside the bracket order: "+strings.Join(unknown, ", "))
		} else {
			result.add(strings.ToLower(b.col), checkPass, "all labels recognised")
		}
	}

	result.Status = healthLabel(result.exitCode())
	return result
}

// unknownLabels lists the observed labels of col that order does not name.
func unknownLabels(ds *dataset.Dataset, col string, order []string) []string {
	known := make(map[string]bool, len(order))
	for _, label := range order {
		known[normalizer.NormalizeLabel(label)] = true
	}
	var out []string
	for _, label := range ds.Distinct(col) {
		if !known[normalizer.NormalizeLabel(label)] {
			out = append(out, label)
		}
	}
	return out
}

func healthLabel(code int) string {
	switch code {
	case 0:
		return "healthy"
	case 1:
		return "degraded"
	default:
		return "unhealthy"
	}
}

// joinErrors flattens an errors.Join result into one line.
func joinErrors(err error) string {
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) {
		return err.Error()
	}
	msgs := make([]string, 0, len(joined.Unwrap()))
	for _, e := range joined.Unwrap() {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

func displayHealth(cmd *cobra.Command, result *healthResult) {
	cmd.Println(output.Header("Health Check", 80))
	cmd.Println()
	cmd.Printf("Source: %s\n", result.Source)
	if total := result.Rows + result.Dropped; total > 0 {
		kept := 100 * float64(result.Rows) / float64(total)
		cmd.Printf("Rows:   %d kept, %d dropped %s %s\n", result.Rows, result.Dropped, output.ProgressBar(kept, 20), output.FormatPercent(kept))
	}
	cmd.Println()

	t := output.NewTable("", "Check", "Status", "Detail")
	for _, c := range result.Checks {
		t.AddRow(output.CheckIcon(c.Status), c.Name, output.Color(c.Status, output.CheckColor(c.Status)), c.Message)
	}
	cmd.Print(t.RenderCompact())
	cmd.Println()

	summary := fmt.Sprintf("%d passed, %d warnings, %d errors",
		result.count(checkPass), result.count(checkWarn), result.count(checkFail))
	cmd.Printf("Status: %s (%s)\n", output.Color(strings.ToUpper(result.Status), output.CheckColor(statusCheck(result.exitCode()))), summary)
}

func statusCheck(code int) string {
	switch code {
	case 0:
		return checkPass
	case 1:
		return checkWarn
	default:
		return checkFail
	}
}
