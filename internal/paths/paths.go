package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "clilog"

// ConfigFileName is the settings file name, without extension.
const ConfigFileName = "config"

// LogFileName is the default log file name.
const LogFileName = "clilog.log"

// ErrInvalidPath indicates the provided path is malformed or invalid.
var ErrInvalidPath = errors.New("invalid path")

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if path == "" {
		return errors.Wrap(ErrInvalidPath, "empty directory path")
	}
	if perm == 0 {
		perm = DefaultDirPerm
	}
	if err := os.MkdirAll(path, perm); err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	return nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// StateHome returns the XDG state home directory.
// On Linux: ~/.local/state
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func StateHome() string {
	return xdg.StateHome
}

// ConfigDir returns the clilog config directory.
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// ConfigFile returns the default settings file path.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), ConfigFileName+".yaml")
}

// LogDir returns the directory log files go to by default.
func LogDir() string {
	return filepath.Join(StateHome(), AppName)
}

// DefaultLogFile returns the default log file path.
func DefaultLogFile() string {
	return filepath.Join(LogDir(), LogFileName)
}

// ArchivePattern returns a rotation window pattern next to logFile:
// "logs/app.log" becomes "logs/app.{}.log".
func ArchivePattern(logFile string) string {
	ext := filepath.Ext(logFile)
	base := logFile[:len(logFile)-len(ext)]
	if ext == "" {
		return base + ".{}"
	}
	return base + ".{}" + ext
}
