package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spdash/spdash/internal/config"
	"github.com/spdash/spdash/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs a fresh command tree and returns what it printed.
// Log records go to a separate buffer.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeCommandContext(t, context.Background(), args...)
}

func executeCommandContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()

	root := NewRootCmd()
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(new(bytes.Buffer))
	root.SetArgs(append([]string{"--no-color"}, args...))

	err := root.ExecuteContext(ctx)
	return out.String(), err
}

// executeCommandStreams runs the command and returns stdout and stderr
// separately.
func executeCommandStreams(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	root := NewRootCmd()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(append([]string{"--no-color"}, args...))

	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// inDir switches into dir for the rest of the test and clears the
// environment overrides.
func inDir(t *testing.T, dir string) {
	t.Helper()

	t.Setenv(config.EnvSource, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvAddr, "")

	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
}

// requireExitCode asserts that err is an ExitError with the given code.
func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, code, exitErr.Code)
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, "version")
	require.NoError(t, err)

	assert.Contains(t, out, "spdash version dev")
	assert.Contains(t, out, runtime.Version())
	assert.Contains(t, out, runtime.GOOS+"/"+runtime.GOARCH)
}

func TestRootHelpListsCommands(t *testing.T) {
	out, err := executeCommand(t, "--help")
	require.NoError(t, err)

	for _, name := range []string{"load", "aggregate", "report", "health", "config", "serve", "version"} {
		assert.Contains(t, out, name)
	}
}

func TestUnknownCommand(t *testing.T) {
	_, err := executeCommand(t, "bogus")
	assert.Error(t, err)
}

func TestLoadEnvironmentDefaults(t *testing.T) {
	inDir(t, t.TempDir())

	env, err := loadEnvironment(&cobra.Command{}, &globalOptions{})
	require.NoError(t, err)

	assert.Empty(t, env.cfgPath)
	assert.Equal(t, config.DefaultSource, env.location())
	assert.NotNil(t, env.log)
}

func TestLoadEnvironmentPrecedence(t *testing.T) {
	cfg := testutil.NewTestConfig(t, testutil.WithSource("from-file.csv"))
	cfg.Dashboard.Logging.Level = "warn"
	dir := testutil.NewTestProject(t, cfg)
	inDir(t, dir)

	env, err := loadEnvironment(&cobra.Command{}, &globalOptions{})
	require.NoError(t, err)
	assert.Equal(t, "from-file.csv", env.location())
	assert.Equal(t, "warn", env.cfg.Dashboard.Logging.Level)
	assert.Equal(t, filepath.Join(dir, ".spdash", "config.yaml"), env.cfgPath)

	t.Setenv(config.EnvSource, "from-env.csv")
	env, err = loadEnvironment(&cobra.Command{}, &globalOptions{})
	require.NoError(t, err)
	assert.Equal(t, "from-env.csv", env.location())

	env, err = loadEnvironment(&cobra.Command{}, &globalOptions{source: "from-flag.csv", logLevel: "debug"})
	require.NoError(t, err)
	assert.Equal(t, "from-flag.csv", env.location())
	assert.Equal(t, "debug", env.cfg.Dashboard.Logging.Level)
}

func TestLoadEnvironmentExplicitConfig(t *testing.T) {
	inDir(t, t.TempDir())

	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, testutil.NewTestConfig(t, testutil.WithSource("custom.csv")).Save(path))

	env, err := loadEnvironment(&cobra.Command{}, &globalOptions{cfgFile: path})
	require.NoError(t, err)
	assert.Equal(t, "custom.csv", env.location())
	assert.Equal(t, path, env.cfgPath)
}

func TestLoadEnvironmentMissingExplicitConfig(t *testing.T) {
	inDir(t, t.TempDir())

	_, err := loadEnvironment(&cobra.Command{}, &globalOptions{cfgFile: "absent.yaml"})
	assert.ErrorContains(t, err, "failed to load config")
}

func TestLoadEnvironmentDotEnv(t *testing.T) {
	dir := t.TempDir()
	inDir(t, dir)
	// inDir registered a restore; unset so the .env value is not shadowed
	require.NoError(t, os.Unsetenv(config.EnvSource))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(config.EnvSource+"=dotenv.csv\n"), 0644))

	env, err := loadEnvironment(&cobra.Command{}, &globalOptions{})
	require.NoError(t, err)
	assert.Equal(t, "dotenv.csv", env.location())
}

func TestExitError(t *testing.T) {
	err := NewExitError(2, "blocked")
	assert.Equal(t, "blocked", err.Error())
	assert.Equal(t, 2, err.Code)
}
