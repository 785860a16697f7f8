package logsetup

import (
	"io"
	"os"
	"time"

	"github.com/thoreinstein/clilog/pkg/level"
)

// Format specifies the output format of a sink.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
)

// FileKind selects how a file sink treats its file.
type FileKind int

const (
	// Continuous always appends to the same file.
	Continuous FileKind = iota
	// Rolling rolls the file over according to a RotationPolicy.
	Rolling
)

func (k FileKind) String() string {
	switch k {
	case Continuous:
		return "continuous"
	case Rolling:
		return "rolling"
	default:
		return "unknown"
	}
}

// ConsoleSpec describes the console sink.
type ConsoleSpec struct {
	// Out defaults to os.Stderr.
	Out io.Writer
	// Format defaults to FormatText.
	Format Format
	// NoColor disables colour even on a terminal.
	NoColor bool
	// TimeFormat is a time layout; empty omits timestamps.
	TimeFormat string
}

// FileSpec describes the file sink.
type FileSpec struct {
	// Path of the active log file. Parent directories are created.
	Path string
	// Format defaults to FormatJSON.
	Format Format
	// Perm defaults to 0600.
	Perm os.FileMode
	// Threshold overrides the builder level for this sink.
	Threshold *level.Level
}

// DefaultConsoleSpec returns the console sink used when WithConsole is
// called without customization.
func DefaultConsoleSpec() ConsoleSpec {
	return ConsoleSpec{
		Out:        os.Stderr,
		Format:     FormatText,
		TimeFormat: time.Kitchen,
	}
}

// DefaultFileSpec returns the file sink defaults. The path is left empty.
func DefaultFileSpec() FileSpec {
	return FileSpec{
		Format: FormatJSON,
		Perm:   0o600,
	}
}
