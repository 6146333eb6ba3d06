// Package cmd provides the CLI commands for spdash.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spdash/spdash/internal/cache"
	"github.com/spdash/spdash/internal/config"
	"github.com/spdash/spdash/internal/logger"
	"github.com/spdash/spdash/internal/normalizer"
	"github.com/spdash/spdash/internal/output"
	"github.com/spdash/spdash/internal/source"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time via ldflags.
	Version = "dev"
	// Commit is set at build time via ldflags.
	Commit = "none"
	// Date is set at build time via ldflags.
	Date = "unknown"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	cfgFile  string
	source   string
	logLevel string
	noColor  bool
}

// NewRootCmd builds the spdash command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "spdash",
		Short: "Student performance dashboard data toolkit",
		Long: `spdash loads the student performance dataset, cleans it and renders the
chart data of the three dashboard objectives.

It can print aggregates and reports in the terminal, export them as JSON,
CSV or XLSX, and serve them over a small JSON API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				output.DisableColor()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (default: .spdash/config.yaml or spdash.yaml)")
	flags.StringVar(&opts.source, "source", "", "dataset location, overrides the configured source")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newVersionCmd(),
		newLoadCmd(opts),
		newAggregateCmd(opts),
		newReportCmd(opts),
		newHealthCmd(opts),
		newConfigCmd(opts),
		newServeCmd(opts),
	)

	return root
}

// Execute runs the root command. This is called by main.main().
func Execute() error {
	root := NewRootCmd()
	root.SetOut(os.Stdout)
	return root.Execute()
}

// environment is the resolved configuration of one invocation.
type environment struct {
	cfg *config.Config

	// cfgPath is the file the configuration came from, empty for defaults.
	cfgPath string
	log     *logger.Logger
}

// loadEnvironment resolves configuration in precedence order: defaults,
// config file, .env and process environment, then command-line flags.
func loadEnvironment(cmd *cobra.Command, opts *globalOptions) (*environment, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	if err := config.LoadEnvFile(cwd); err != nil {
		return nil, err
	}

	var (
		cfg  *config.Config
		path string
	)
	if opts.cfgFile != "" {
		path = opts.cfgFile
		cfg, err = config.Load(path)
	} else {
		path, _ = config.FindConfig(cwd)
		cfg, err = config.LoadFromDir(cwd)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.ApplyEnv(os.Getenv)
	if opts.source != "" {
		cfg.Dashboard.Source.Location = opts.source
	}
	if opts.logLevel != "" {
		cfg.Dashboard.Logging.Level = opts.logLevel
	}

	return &environment{
		cfg:     cfg,
		cfgPath: path,
		log:     logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Dashboard.Logging.Level),
	}, nil
}

// newNormalizer builds the loader for the configured source.
func (e *environment) newNormalizer(opts ...normalizer.Option) *normalizer.Normalizer {
	src := e.cfg.Dashboard.Source
	fetcher := source.New(
		source.WithTimeout(time.Duration(src.TimeoutSec)*time.Second),
		source.WithUserAgent(src.UserAgent),
	)

	opts = append([]normalizer.Option{
		normalizer.WithBrackets(normalizer.BracketsFromConfig(e.cfg.Dashboard.Brackets)),
		normalizer.WithLogger(e.log),
	}, opts...)
	return normalizer.New(fetcher, opts...)
}

// newCache builds a memoizing loader over the configured source.
func (e *environment) newCache() *cache.Cache {
	return cache.New(e.newNormalizer())
}

// location returns the configured dataset location.
func (e *environment) location() string {
	return e.cfg.Dashboard.Source.Location
}
