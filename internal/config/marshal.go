package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	clierrors "github.com/thoreinstein/clilog/internal/errors"
	"github.com/thoreinstein/clilog/internal/paths"
	"github.com/thoreinstein/clilog/pkg/fileutil"
)

// Output formats for Marshal.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Marshal encodes s as YAML or TOML.
func Marshal(s *Settings, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatYAML, "yml", "":
		return yaml.Marshal(s)
	case FormatTOML:
		return toml.Marshal(s)
	default:
		return nil, errors.Newf("unsupported format %q (want yaml or toml)", format)
	}
}

// FormatFor picks the encoding for path from its extension, YAML by default.
func FormatFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Write validates s and writes it to path, creating parent directories.
// An existing file is only replaced when force is set.
func Write(path string, s *Settings, force bool) error {
	if err := Validate(s); err != nil {
		return err
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.Wrapf(clierrors.ErrExists, "config file %s", path)
		}
	}

	data, err := Marshal(s, FormatFor(path))
	if err != nil {
		return err
	}
	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return err
	}
	return fileutil.AtomicWriteFile(path, data, 0o600)
}
