package testutil

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/spdash/spdash/internal/config"
	"github.com/spdash/spdash/internal/dataset"
)

func TestSampleDataset(t *testing.T) {
	ds := SampleDataset(t)
	if ds.Len() != SampleRows {
		t.Fatalf("Expected %d rows, got %d", SampleRows, ds.Len())
	}
	for _, col := range dataset.ExpectedColumns() {
		if !ds.HasColumn(col) {
			t.Errorf("Expected column %s", col)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	path := WriteCSV(t, SampleCSV)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read back CSV: %v", err)
	}
	if string(data) != SampleCSV {
		t.Error("CSV content mismatch")
	}
}

func TestServeCSV(t *testing.T) {
	srv := ServeCSV(t, "a,b\n1,2\n")
	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "a,b\n1,2\n" {
		t.Errorf("Unexpected body %q", body)
	}
}

func TestNewTestConfig(t *testing.T) {
	cfg := NewTestConfig(t,
		WithSource("data.csv"),
		WithUnobserved(config.UnobservedBlank),
		WithAttendanceMidpoint("Below 40%", 20),
	)

	if cfg.Dashboard.Source.Location != "data.csv" {
		t.Errorf("Expected source data.csv, got %s", cfg.Dashboard.Source.Location)
	}
	if !cfg.FillUnobserved() {
		t.Error("Expected blank unobserved policy")
	}
	if got := cfg.Dashboard.Brackets.Attendance.Midpoints["Below 40%"]; got != 20 {
		t.Errorf("Expected midpoint 20, got %v", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config: %v", err)
	}
}

func TestNewTestProject(t *testing.T) {
	dir := NewTestProject(t, NewTestConfig(t, WithSource("x.csv")))

	cfg, err := config.LoadFromDir(dir)
	if err != nil {
		t.Fatalf("LoadFromDir failed: %v", err)
	}
	if cfg.Dashboard.Source.Location != "x.csv" {
		t.Errorf("Expected source x.csv, got %s", cfg.Dashboard.Source.Location)
	}
	if _, err := os.Stat(filepath.Join(dir, ".spdash", "config.yaml")); err != nil {
		t.Errorf("Expected config file: %v", err)
	}
}
