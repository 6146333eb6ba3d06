package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spdash/spdash/internal/config"
	"github.com/spdash/spdash/internal/output"
	"github.com/spdash/spdash/internal/source"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type configOptions struct {
	validate bool
	format   string
}

func newConfigCmd(global *globalOptions) *cobra.Command {
	opts := &configOptions{}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or validate spdash configuration",
		Long: `Display the effective configuration after merging defaults with the
config file, the environment and command-line flags.

Examples:
    spdash config                     # Show current config
    spdash config --validate          # Check config validity
    spdash config --format yaml       # Output as YAML`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(cmd, global)
			if err != nil {
				return err
			}
			if opts.validate {
				return validateConfig(cmd, env)
			}
			return displayConfig(cmd, env, opts.format)
		},
	}

	cmd.Flags().BoolVar(&opts.validate, "validate", false, "validate configuration")
	cmd.Flags().StringVar(&opts.format, "format", "terminal", "output format: terminal, yaml, json")

	return cmd
}

func validateConfig(cmd *cobra.Command, env *environment) error {
	cmd.Println(output.Header("Configuration Validation", 80))
	cmd.Println()

	var warnings []string

	if env.cfgPath == "" {
		warnings = append(warnings, "Config file not found (using defaults)")
	} else {
		cmd.Printf("  %s Config file: %s\n", output.Color("[PASS]", output.Green), env.cfgPath)
	}

	kind, _ := source.Classify(env.location())
	cmd.Printf("  %s Source (%s): %s\n", output.Color("[PASS]", output.Green), kind, env.location())

	var problems []error
	if err := env.cfg.Validate(); err != nil {
		var joined interface{ Unwrap() []error }
		if errors.As(err, &joined) {
			problems = joined.Unwrap()
		} else {
			problems = []error{err}
		}
	}

	cmd.Println()

	for _, p := range problems {
		cmd.Printf("  %s %s\n", output.Color("[FAIL]", output.Red), p)
	}
	for _, w := range warnings {
		cmd.Printf("  %s %s\n", output.Color("[WARN]", output.Yellow), w)
	}

	cmd.Println()

	if len(problems) > 0 {
		cmd.Printf("Status: %s\n", output.Color("INVALID", output.Red))
		return NewExitError(1, "configuration validation failed")
	} else if len(warnings) > 0 {
		cmd.Printf("Status: %s\n", output.Color("VALID (with warnings)", output.Yellow))
	} else {
		cmd.Printf("Status: %s\n", output.Color("VALID", output.Green))
	}

	return nil
}

func displayConfig(cmd *cobra.Command, env *environment, format string) error {
	switch format {
	case "json":
		return displayConfigJSON(cmd, env.cfg)
	case "yaml":
		return displayConfigYAML(cmd, env.cfg)
	case "terminal", "":
		return displayConfigTerminal(cmd, env)
	default:
		return fmt.Errorf("unknown format %q (expected terminal, yaml or json)", format)
	}
}

func displayConfigJSON(cmd *cobra.Command, cfg *config.Config) error {
	data, err := json.MarshalIndent(cfg.Dashboard, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func displayConfigYAML(cmd *cobra.Command, cfg *config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	cmd.Print(string(data))
	return nil
}

func displayConfigTerminal(cmd *cobra.Command, env *environment) error {
	cfg := env.cfg.Dashboard
	cmd.Println(output.Header("spdash Configuration", 80))
	cmd.Println()

	configPath := env.cfgPath
	if configPath == "" {
		configPath = "(defaults)"
	}

	cmd.Println("Source:")
	cmd.Printf("  Config file: %s\n", configPath)
	cmd.Printf("  Location:    %s\n", cfg.Source.Location)
	cmd.Printf("  Timeout:     %ds\n", cfg.Source.TimeoutSec)
	cmd.Printf("  User agent:  %s\n", cfg.Source.UserAgent)
	cmd.Println()

	cmd.Println("Brackets:")
	cmd.Printf("  Attendance:  %s\n", strings.Join(cfg.Brackets.Attendance.Order, " < "))
	cmd.Printf("  Preparation: %s\n", strings.Join(cfg.Brackets.Preparation.Order, " < "))
	cmd.Printf("  Gaming:      %s\n", strings.Join(cfg.Brackets.Gaming.Order, " < "))
	cmd.Println()

	cmd.Println("Aggregation:")
	cmd.Printf("  Unobserved: %s\n", cfg.Aggregation.Unobserved)
	cmd.Println()

	cmd.Println("Server:")
	cmd.Printf("  Address:      %s\n", cfg.Server.Addr)
	cmd.Printf("  CORS origins: %s\n", strings.Join(cfg.Server.CORSOrigins, ", "))
	cmd.Printf("  Timeout:      %ds\n", cfg.Server.TimeoutSec)
	cmd.Println()

	cmd.Printf("Log level: %s\n", cfg.Logging.Level)

	return nil
}
