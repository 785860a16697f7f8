// Package config provides configuration management for clilog using Viper.
package config

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	clierrors "github.com/thoreinstein/clilog/internal/errors"
	"github.com/thoreinstein/clilog/internal/paths"
	"github.com/thoreinstein/clilog/pkg/level"
)

// EnvPrefix prefixes environment variables that override settings,
// e.g. CLILOG_DEFAULT_LEVEL or CLILOG_ROTATION_SIZE_KB.
const EnvPrefix = "CLILOG"

// Settings is the clilog configuration file.
type Settings struct {
	// DefaultLevel is the --loglevel default.
	DefaultLevel string `mapstructure:"default_level" yaml:"default_level" toml:"default_level" validate:"required,log_level"`
	// FileLevel is the --file-loglevel default; empty follows the console.
	FileLevel string `mapstructure:"file_level" yaml:"file_level,omitempty" toml:"file_level,omitempty" validate:"omitempty,log_level"`
	// EnvVars override the flags, first valid value wins. CLILOG_LOGLEVEL
	// is always consulted first.
	EnvVars []string `mapstructure:"env_vars" yaml:"env_vars,omitempty" toml:"env_vars,omitempty" validate:"dive,required"`
	// LogFile enables the file sink.
	LogFile string `mapstructure:"log_file" yaml:"log_file,omitempty" toml:"log_file,omitempty"`
	// Rotate rolls LogFile according to Rotation.
	Rotate   bool     `mapstructure:"rotate" yaml:"rotate" toml:"rotate"`
	Rotation Rotation `mapstructure:"rotation" yaml:"rotation" toml:"rotation"`
	Console  Console  `mapstructure:"console" yaml:"console" toml:"console"`
}

// Rotation configures the rolling file sink.
type Rotation struct {
	SizeKB uint64 `mapstructure:"size_kb" yaml:"size_kb" toml:"size_kb" validate:"gt=0"`
	// WindowPrefix is the archive pattern; empty derives it from the log
	// file ("app.log" archives to "app.{}.log").
	WindowPrefix string `mapstructure:"window_prefix" yaml:"window_prefix,omitempty" toml:"window_prefix,omitempty"`
	WindowCount  uint32 `mapstructure:"window_count" yaml:"window_count" toml:"window_count" validate:"lte=100"`
}

// Console configures the console sink.
type Console struct {
	Format  string `mapstructure:"format" yaml:"format" toml:"format" validate:"oneof=text json"`
	NoColor bool   `mapstructure:"no_color" yaml:"no_color" toml:"no_color"`
}

// Default returns the settings used when no file is present.
func Default() *Settings {
	return &Settings{
		DefaultLevel: level.Warn.Name(),
		Rotation: Rotation{
			SizeKB:      1024,
			WindowCount: 5,
		},
		Console: Console{Format: "text"},
	}
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	viper.SetConfigName(paths.ConfigFileName)
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigDir())

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	def := Default()
	viper.SetDefault("default_level", def.DefaultLevel)
	viper.SetDefault("file_level", def.FileLevel)
	viper.SetDefault("env_vars", []string{})
	viper.SetDefault("log_file", def.LogFile)
	viper.SetDefault("rotate", def.Rotate)
	viper.SetDefault("rotation.size_kb", def.Rotation.SizeKB)
	viper.SetDefault("rotation.window_prefix", def.Rotation.WindowPrefix)
	viper.SetDefault("rotation.window_count", def.Rotation.WindowCount)
	viper.SetDefault("console.format", def.Console.Format)
	viper.SetDefault("console.no_color", def.Console.NoColor)
}

// Load reads the configuration file and validates the result.
// If path is provided, it reads from that specific file and its absence is
// an error. If path is empty, it searches the default locations and falls
// back to defaults.
func Load(path string) (*Settings, error) {
	if path != "" {
		viper.SetConfigFile(path)
		if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext != "" {
			viper.SetConfigType(ext)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case path != "" && (errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)):
			return nil, errors.Wrapf(clierrors.ErrNotFound, "config file %s", path)
		case errors.As(err, &notFound):
			// implicit load: defaults are fine
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	if err := Validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Used returns the config file Load read, or "" when defaults were used.
func Used() string {
	return viper.ConfigFileUsed()
}

// WindowPattern returns the archive pattern for logFile.
func (s *Settings) WindowPattern(logFile string) string {
	if s.Rotation.WindowPrefix != "" {
		return s.Rotation.WindowPrefix
	}
	return paths.ArchivePattern(logFile)
}
