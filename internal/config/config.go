// Package config provides configuration management for spdash.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingSource         = errors.New("source.location is required")
	ErrInvalidTimeout        = errors.New("source.timeout_sec must be at least 1")
	ErrEmptyBracketOrder     = errors.New("bracket order must not be empty")
	ErrMidpointNotInOrder    = errors.New("bracket midpoint label is not part of the order")
	ErrInvalidUnobserved     = errors.New("aggregation.unobserved must be one of: omit, blank")
	ErrInvalidLogLevel       = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrMissingServerAddr     = errors.New("server.addr is required")
	ErrDuplicateBracketLabel = errors.New("bracket order contains a duplicate label")
)

// DefaultSource is the published student-performance dataset.
const DefaultSource = "https://raw.githubusercontent.com/tirayanaa-aa/AssingmentSV/refs/heads/main/processed_data.csv"

// Environment variables that override file configuration.
const (
	EnvSource   = "SPDASH_SOURCE"
	EnvLogLevel = "SPDASH_LOG_LEVEL"
	EnvAddr     = "SPDASH_ADDR"
)

// Unobserved group combination policies.
const (
	UnobservedOmit  = "omit"
	UnobservedBlank = "blank"
)

// Config represents the spdash configuration.
type Config struct {
	Dashboard DashboardConfig `yaml:"dashboard"`
}

// DashboardConfig contains the main settings.
type DashboardConfig struct {
	// Source is the CSV resource to load.
	Source SourceConfig `yaml:"source"`

	// Brackets holds the ordering and midpoints of bracket fields.
	Brackets BracketsConfig `yaml:"brackets"`

	Aggregation AggregationConfig `yaml:"aggregation"`

	Server ServerConfig `yaml:"server"`

	Logging LoggingConfig `yaml:"logging"`
}

// SourceConfig describes where the dataset lives.
type SourceConfig struct {
	// Location is an http(s) URL, a file:// URL or a local path.
	Location   string `yaml:"location"`
	TimeoutSec int    `yaml:"timeout_sec"`
	UserAgent  string `yaml:"user_agent"`
}

// BracketsConfig contains the bracket field definitions.
type BracketsConfig struct {
	Attendance  BracketConfig `yaml:"attendance"`
	Preparation BracketConfig `yaml:"preparation"`
	Gaming      BracketConfig `yaml:"gaming"`
}

// BracketConfig defines the canonical order of a bracket field and the
// representative numeric midpoint of each label.
type BracketConfig struct {
	Order     []string           `yaml:"order"`
	Midpoints map[string]float64 `yaml:"midpoints,omitempty"`
}

// AggregationConfig controls grouped aggregation.
type AggregationConfig struct {
	// Unobserved decides whether group combinations with no records are
	// omitted or emitted as blank rows.
	Unobserved string `yaml:"unobserved"`
}

// ServerConfig contains the JSON API settings.
type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins"`
	TimeoutSec  int      `yaml:"timeout_sec"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Dashboard: DashboardConfig{
			Source: SourceConfig{
				Location:   DefaultSource,
				TimeoutSec: 30,
				UserAgent:  "spdash/1.0",
			},
			Brackets: BracketsConfig{
				Attendance: BracketConfig{
					Order: []string{"0%-19%", "20%-39%", "Below 40%", "40%-59%", "60%-79%", "80%-100%"},
					Midpoints: map[string]float64{
						"0%-19%":    10,
						"20%-39%":   30,
						"Below 40%": 30,
						"40%-59%":   50,
						"60%-79%":   70,
						"80%-100%":  90,
					},
				},
				Preparation: BracketConfig{
					Order: []string{"0-1 Hour", "1-2 Hours", "2-3 Hours", "More than 3 Hours"},
					Midpoints: map[string]float64{
						"0-1 Hour":          0.5,
						"1-2 Hours":         1.5,
						"2-3 Hours":         2.5,
						"More than 3 Hours": 3.5,
					},
				},
				Gaming: BracketConfig{
					Order: []string{"0-1 Hour", "1-2 Hours", "2-3 Hours", "More than 3 Hours"},
				},
			},
			Aggregation: AggregationConfig{
				Unobserved: UnobservedOmit,
			},
			Server: ServerConfig{
				Addr:        ":8080",
				CORSOrigins: []string{"http://localhost:3000"},
				TimeoutSec:  60,
			},
			Logging: LoggingConfig{
				Level: "info",
			},
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Save saves the configuration to a file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// FindConfig searches for a configuration file starting from the given path.
func FindConfig(startPath string) (string, error) {
	candidates := []string{
		".spdash/config.yaml",
		"spdash.yaml",
		"spdash.yml",
	}

	// Search from start path upward
	dir := startPath
	for {
		for _, candidate := range candidates {
			path := filepath.Join(dir, candidate)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no spdash configuration found")
}

// LoadFromDir loads configuration from the given directory.
func LoadFromDir(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		// Return default config if no config file found
		return DefaultConfig(), nil
	}

	return Load(path)
}

// LoadEnvFile loads a .env file from dir into the process environment, if
// one exists. Variables already set are not overwritten.
func LoadEnvFile(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides settings from environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvSource)); v != "" {
		c.Dashboard.Source.Location = v
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		c.Dashboard.Logging.Level = v
	}
	if v := strings.TrimSpace(getenv(EnvAddr)); v != "" {
		c.Dashboard.Server.Addr = v
	}
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs []error
	d := c.Dashboard

	if strings.TrimSpace(d.Source.Location) == "" {
		errs = append(errs, ErrMissingSource)
	}
	if d.Source.TimeoutSec < 1 {
		errs = append(errs, ErrInvalidTimeout)
	}

	brackets := map[string]BracketConfig{
		"attendance":  d.Brackets.Attendance,
		"preparation": d.Brackets.Preparation,
		"gaming":      d.Brackets.Gaming,
	}
	for _, name := range []string{"attendance", "preparation", "gaming"} {
		if err := brackets[name].validate(); err != nil {
			errs = append(errs, fmt.Errorf("brackets.%s: %w", name, err))
		}
	}

	switch d.Aggregation.Unobserved {
	case UnobservedOmit, UnobservedBlank:
	default:
		errs = append(errs, ErrInvalidUnobserved)
	}

	switch strings.ToLower(d.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, ErrInvalidLogLevel)
	}

	if strings.TrimSpace(d.Server.Addr) == "" {
		errs = append(errs, ErrMissingServerAddr)
	}

	return errors.Join(errs...)
}

func (b BracketConfig) validate() error {
	if len(b.Order) == 0 {
		return ErrEmptyBracketOrder
	}
	seen := make(map[string]bool, len(b.Order))
	for _, label := range b.Order {
		if seen[label] {
			return fmt.Errorf("%w: %q", ErrDuplicateBracketLabel, label)
		}
		seen[label] = true
	}
	for label := range b.Midpoints {
		if !seen[label] {
			return fmt.Errorf("%w: %q", ErrMidpointNotInOrder, label)
		}
	}
	return nil
}

// FillUnobserved reports whether unobserved group combinations should be filled.
func (c *Config) FillUnobserved() bool {
	return c.Dashboard.Aggregation.Unobserved == UnobservedBlank
}
