package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeOutput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "plain text", "plain text"},
		{"colour", "\x1b[32mgreen\x1b[0m", "green"},
		{"compound", "\x1b[1;31mbold red\x1b[0m and \x1b[2mdim\x1b[0m", "bold red and dim"},
		{"crlf", "a,b\r\n1,2\r\n", "a,b\n1,2\n"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeOutput(tt.input))
		})
	}
}

func TestGoldenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })

	t.Setenv(EnvUpdateGolden, "1")
	Golden(t, "report", []byte("\x1b[1mKPI\x1b[0m\r\nStudents\r\n"))

	data, err := os.ReadFile(filepath.Join(dir, "testdata", "report.golden"))
	require.NoError(t, err)
	assert.Equal(t, "KPI\nStudents\n", string(data))

	t.Setenv(EnvUpdateGolden, "")
	Golden(t, "report", []byte("KPI\nStudents\n"))
}
