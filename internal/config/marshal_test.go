package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	clierrors "github.com/thoreinstein/clilog/internal/errors"
)

func TestMarshal(t *testing.T) {
	s := Default()
	s.FileLevel = "debug"

	out, err := Marshal(s, FormatYAML)
	require.NoError(t, err)
	assert.Contains(t, string(out), "default_level: warn\n")
	assert.Contains(t, string(out), "size_kb: 1024")

	out, err = Marshal(s, "TOML")
	require.NoError(t, err)
	assert.Contains(t, string(out), "default_level = 'warn'")
	assert.Contains(t, string(out), "[rotation]")

	_, err = Marshal(s, "ini")
	require.Error(t, err)
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatTOML, FormatFor("a/config.TOML"))
	assert.Equal(t, FormatYAML, FormatFor("a/config.yaml"))
	assert.Equal(t, FormatYAML, FormatFor("a/config"))
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")

	s := Default()
	s.DefaultLevel = "info"
	require.NoError(t, Write(path, s, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got Settings
	require.NoError(t, toml.Unmarshal(data, &got))
	assert.Equal(t, "info", got.DefaultLevel)

	err = Write(path, s, false)
	require.ErrorIs(t, err, clierrors.ErrExists)

	s.DefaultLevel = "trace"
	require.NoError(t, Write(path, s, true))
}

func TestWrite_YAMLRoundTripsThroughLoad(t *testing.T) {
	resetViper(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	s := Default()
	s.EnvVars = []string{"APP_LOG"}
	s.LogFile = "app.log"
	require.NoError(t, Write(path, s, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(data, &raw))
	assert.Equal(t, "app.log", raw["log_file"])

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestWrite_Invalid(t *testing.T) {
	s := Default()
	s.DefaultLevel = "loud"
	err := Write(filepath.Join(t.TempDir(), "config.yaml"), s, false)
	require.ErrorIs(t, err, clierrors.ErrInvalidConfig)
}
