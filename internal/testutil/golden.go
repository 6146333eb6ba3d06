package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// EnvUpdateGolden rewrites golden files when set to a non-empty value.
const EnvUpdateGolden = "SPDASH_UPDATE_GOLDEN"

var updateGolden = flag.Bool("update", false, "update golden files")

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

// Update reports whether golden files should be rewritten, either with
// go test -update or with SPDASH_UPDATE_GOLDEN set.
func Update() bool {
	return *updateGolden || os.Getenv(EnvUpdateGolden) != ""
}

// Golden compares rendered output with testdata/<name>.golden. Colour
// escapes are stripped and line endings normalised first, so terminal and
// CRLF output compare equal to the stored file.
func Golden(t *testing.T, name string, actual []byte) {
	t.Helper()

	got := NormalizeOutput(string(actual))
	path := filepath.Join("testdata", name+".golden")

	if Update() {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(got), 0644))
		t.Logf("Updated golden file: %s", path)
		return
	}

	want, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		t.Fatalf("Golden file %s does not exist. Run with -update to create it.", path)
	}
	require.NoError(t, err)

	assert.Equal(t, NormalizeOutput(string(want)), got, "output differs from %s", path)
}

// NormalizeOutput strips ANSI escapes and converts CRLF to LF.
func NormalizeOutput(s string) string {
	s = ansiPattern.ReplaceAllString(s, "")
	return strings.ReplaceAll(s, "\r\n", "\n")
}
