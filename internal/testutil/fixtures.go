// Package testutil provides test utilities and fixtures for spdash tests.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spdash/spdash/internal/config"
	"github.com/spdash/spdash/internal/dataset"
	"github.com/spdash/spdash/internal/normalizer"
)

// SampleCSV is a small student-performance export. Eight rows, of which
// the last two are dropped at load: one has Last "N/A", one has an
// unparseable Overall.
const SampleCSV = `Gender,Hometown,Department,Income,Semester,Preparation,Gaming,Attendance,SSC,HSC,Last,Overall
Male,City,CSE,Low,3rd,2-3 Hours,0-1 Hour,80%-100%,4.75,4.5,3.5,3.5
Female,Village,CSE,Middle,2nd,0-1 Hour,1-2 Hours,60%-79%,5.0,4.75,3.75,3.75
Male,Village,EEE,Low,1st,1-2 Hours,More than 3 Hours,Below 40%,4.0,4.0,3.0,3.0
Female,City,BBA,High,4th,More than 3 Hours,0-1 Hour,80%-100%,,4.25,3.25,3.5
Male,City,EEE,Middle,2nd,1-2 Hours,2-3 Hours,40%-59%,4.5,4.5,3.25,3.25
Female,City,CSE,High,1st,2-3 Hours,0-1 Hour,80%-100%,5.0,5.0,4.0,3.75
Male,Village,BBA,Low,3rd,0-1 Hour,2-3 Hours,60%-79%,4.25,3.75,N/A,3.0
Female,Village,EEE,Middle,4th,2-3 Hours,1-2 Hours,80%-100%,4.5,4.25,3.5,abc
`

// SampleRows is the number of records SampleCSV keeps after cleaning.
const SampleRows = 6

// NewTestDataset cleans csv text the way a load does.
func NewTestDataset(t *testing.T, csv string) *dataset.Dataset {
	t.Helper()

	table, err := dataset.ReadTable(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Failed to parse CSV: %v", err)
	}
	ds, _, err := normalizer.Normalize("testdata", table, normalizer.DefaultBrackets())
	if err != nil {
		t.Fatalf("Failed to normalize CSV: %v", err)
	}
	return ds
}

// SampleDataset returns SampleCSV cleaned.
func SampleDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	return NewTestDataset(t, SampleCSV)
}

// WriteCSV writes csv text to a file in a temporary directory and returns
// its path.
func WriteCSV(t *testing.T, csv string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "students.csv")
	if err := os.WriteFile(path, []byte(csv), 0644); err != nil {
		t.Fatalf("Failed to write CSV: %v", err)
	}
	return path
}

// ServeCSV serves csv text over HTTP for the lifetime of the test.
func ServeCSV(t *testing.T, csv string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(csv))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// ConfigOption configures a test config.
type ConfigOption func(*config.Config)

// NewTestConfig creates a config for testing with optional configuration.
func NewTestConfig(t *testing.T, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// WithSource sets the dataset location.
func WithSource(location string) ConfigOption {
	return func(c *config.Config) {
		c.Dashboard.Source.Location = location
	}
}

// WithUnobserved sets the unobserved combination policy.
func WithUnobserved(policy string) ConfigOption {
	return func(c *config.Config) {
		c.Dashboard.Aggregation.Unobserved = policy
	}
}

// WithAttendanceMidpoint overrides one attendance midpoint.
func WithAttendanceMidpoint(label string, v float64) ConfigOption {
	return func(c *config.Config) {
		c.Dashboard.Brackets.Attendance.Midpoints[label] = v
	}
}

// NewTestProject creates a temporary directory holding cfg as
// .spdash/config.yaml and returns the directory.
func NewTestProject(t *testing.T, cfg *config.Config) string {
	t.Helper()

	dir := t.TempDir()
	if err := cfg.Save(filepath.Join(dir, ".spdash", "config.yaml")); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return dir
}
