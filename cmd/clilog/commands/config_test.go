package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/clilog/internal/config"
	clierrors "github.com/thoreinstein/clilog/internal/errors"
	"github.com/thoreinstein/clilog/internal/paths"
)

func TestConfigShow(t *testing.T) {
	r := run(t, "default_level: info\nenv_vars: [APP_LOG]\n", "config", "show")
	require.NoError(t, r.err)

	assert.Contains(t, r.stdout, "default_level: info")
	assert.Contains(t, r.stdout, "- APP_LOG")
	assert.Contains(t, r.stdout, "size_kb: 1024")
	assert.True(t, strings.HasPrefix(r.stdout, "# "), "source comment first: %q", r.stdout)
}

func TestConfigShow_TOML(t *testing.T) {
	r := run(t, "", "config", "show", "--output", "toml")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "default_level = 'warn'")
	assert.Contains(t, r.stdout, "[console]")
}

func TestConfigShow_BadFormat(t *testing.T) {
	r := run(t, "", "config", "show", "-o", "ini")
	require.Error(t, r.err)
	assert.Equal(t, clierrors.ExitUser, clierrors.Code(r.err))
}

func TestConfig_DefaultsToShow(t *testing.T) {
	r := run(t, "", "config")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "default_level: warn")
}

func TestConfigShow_InvalidConfig(t *testing.T) {
	r := run(t, "default_level: loud\n", "config", "show")
	require.Error(t, r.err)
	assert.Contains(t, clierrors.Suggestion(r.err), "config init --force")
}

func TestConfigGet(t *testing.T) {
	r := run(t, "env_vars: [A, B]\nrotation:\n  size_kb: 7\n", "config", "get", "rotation.size_kb")
	require.NoError(t, r.err)
	assert.Equal(t, "7\n", r.stdout)

	r = run(t, "env_vars: [A, B]\n", "config", "get", "env_vars")
	require.NoError(t, r.err)
	assert.Equal(t, "A\nB\n", r.stdout)

	r = run(t, "", "config", "get", "nope")
	require.ErrorIs(t, r.err, clierrors.ErrNotFound)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clilog", "config.yaml")

	r := run(t, "", "config", "init", "--path", path, "--default-level", "INFO", "--log-path=app.log")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "Wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "default_level: info")
	assert.Contains(t, string(data), "log_file: app.log")

	r = run(t, "", "config", "init", "--path", path)
	require.ErrorIs(t, r.err, clierrors.ErrExists)
	assert.Equal(t, "Use --force to overwrite", clierrors.Suggestion(r.err))

	r = run(t, "", "config", "init", "--path", path, "--force", "--default-level", "trace")
	require.NoError(t, r.err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "default_level: trace")
}

func TestConfigInit_DefaultLogPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	r := run(t, "", "config", "init", "--path", path, "--log-path")
	require.NoError(t, r.err)

	s := readSettings(t, path)
	assert.Equal(t, paths.DefaultLogFile(), s.LogFile)
	assert.Equal(t, paths.LogDir(), filepath.Dir(s.LogFile))
}

func TestConfigInit_NoLogPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	r := run(t, "", "config", "init", "--path", path)
	require.NoError(t, r.err)
	assert.Empty(t, readSettings(t, path).LogFile)
}

func readSettings(t *testing.T, path string) config.Settings {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var s config.Settings
	require.NoError(t, yaml.Unmarshal(data, &s))
	return s
}

func TestConfigInit_Interactive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	r := runWithInput(t, "5\n", "config", "init", "--interactive", "--path", path)
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "Select [3]: ")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "default_level = 'debug'")
}

func TestConfigInit_InteractiveCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	r := runWithInput(t, "", "config", "init", "-i", "--path", path)
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "Cancelled.")
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestConfigInit_BadLevel(t *testing.T) {
	r := run(t, "", "config", "init", "--path", filepath.Join(t.TempDir(), "c.yaml"), "--default-level", "loud")
	require.Error(t, r.err)
	assert.Equal(t, clierrors.ExitUser, clierrors.Code(r.err))
}

func TestConfigInit_BrokenExistingConfig(t *testing.T) {
	// a broken settings file must not block rewriting it
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_level: loud\n"), 0o600))

	r := runWithConfig(t, path, "", "config", "init", "--path", path, "--force")
	require.NoError(t, r.err)
}
