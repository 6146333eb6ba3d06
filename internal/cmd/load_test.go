package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spdash/spdash/internal/dataset"
	"github.com/spdash/spdash/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCommand(t *testing.T) {
	inDir(t, t.TempDir())
	path := testutil.WriteCSV(t, testutil.SampleCSV)

	out, err := executeCommand(t, "load", "--source", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Successfully loaded and pre-processed 6 rows.")
	assert.Contains(t, out, "Dropped:  2")
	assert.Contains(t, out, dataset.ColAttendanceNumeric)
}

func TestLoadCommandHTTP(t *testing.T) {
	inDir(t, t.TempDir())
	srv := testutil.ServeCSV(t, testutil.SampleCSV)

	out, err := executeCommand(t, "load", "--source", srv.URL+"/students.csv")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully loaded and pre-processed 6 rows.")
}

func TestLoadCommandOut(t *testing.T) {
	inDir(t, t.TempDir())
	path := testutil.WriteCSV(t, testutil.SampleCSV)
	outPath := filepath.Join(t.TempDir(), "clean.csv")

	out, err := executeCommand(t, "load", "--source", path, "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 6 rows to "+outPath)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, testutil.SampleRows+1)
	assert.Contains(t, lines[0], dataset.ColPreparationNumeric)
	assert.Contains(t, lines[0], dataset.ColSemesterSort)
}

func TestLoadCommandStdoutKeepsStatusOnStderr(t *testing.T) {
	inDir(t, t.TempDir())
	path := testutil.WriteCSV(t, testutil.SampleCSV)

	for _, args := range [][]string{
		{"load", "--source", path, "--out", "-", "--json"},
		{"load", "--source", path, "--out", "-"},
	} {
		stdout, stderr, err := executeCommandStreams(t, args...)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(stdout), "\n")
		require.Len(t, lines, testutil.SampleRows+1, stdout)
		assert.True(t, strings.HasPrefix(lines[0], "Gender,"), lines[0])
		assert.NotContains(t, stdout, "Successfully loaded")
		assert.Contains(t, stderr, "Successfully loaded and pre-processed 6 rows.")
	}
}

func TestLoadCommandJSON(t *testing.T) {
	inDir(t, t.TempDir())
	path := testutil.WriteCSV(t, testutil.SampleCSV)

	out, err := executeCommand(t, "load", "--source", path, "--json")
	require.NoError(t, err)

	var status map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, true, status["ok"])
	assert.Equal(t, float64(6), status["rows"])
	assert.Equal(t, float64(2), status["dropped"])
	assert.NotEmpty(t, status["load_id"])
}

func TestLoadCommandFailure(t *testing.T) {
	inDir(t, t.TempDir())
	missing := filepath.Join(t.TempDir(), "absent.csv")

	out, err := executeCommand(t, "load", "--source", missing)

	requireExitCode(t, err, 1)
	assert.Contains(t, out, "Error loading or processing data")
	assert.Contains(t, out, "Reason:   unreachable")
}

func TestLoadCommandMissingColumns(t *testing.T) {
	inDir(t, t.TempDir())
	path := testutil.WriteCSV(t, "HSC,Last\n4,3\n")

	out, err := executeCommand(t, "load", "--source", path)

	requireExitCode(t, err, 1)
	assert.Contains(t, out, "Reason:   missing_columns")
}
