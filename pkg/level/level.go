// Package level defines the six ordered log verbosity levels used by clilog.
//
// Levels are ordered from least verbose ([Off]) to most verbose ([Trace]).
// The ordering is fixed and every index computed from user input is clamped
// to the table bounds, so repeated -v/-q flags can never step outside it.
//
//	l, err := level.Parse("DEBUG") // level.Debug
//	i, _ := level.IndexOf(l)       // 4
//	level.At(i + 10)               // level.Trace
package level

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Level is a log verbosity level.
type Level uint8

// The levels, least verbose first.
const (
	Off Level = iota
	Error
	Warn
	Info
	Debug
	Trace
)

// Count is the number of levels in the table.
const Count = 6

// slog has no trace or off level; these sit outside its builtin range.
const (
	// LevelTrace is more verbose than slog.LevelDebug.
	LevelTrace = slog.LevelDebug - 4
	// LevelOff is higher than any level a record is emitted at.
	LevelOff = slog.Level(math.MaxInt32)
)

// ErrUnknownLevel is returned for names or values outside the level table.
var ErrUnknownLevel = errors.New("unknown log level")

var table = [Count]Level{Off, Error, Warn, Info, Debug, Trace}

var names = [Count]string{"off", "error", "warn", "info", "debug", "trace"}

var descriptions = [Count]string{
	"Disable logging completely",
	"Only show error messages",
	"Show warnings and errors",
	"Show information, warnings and errors",
	"Show debug information and everything above",
	"Show all messages",
}

var slogLevels = [Count]slog.Level{
	LevelOff,
	slog.LevelError,
	slog.LevelWarn,
	slog.LevelInfo,
	slog.LevelDebug,
	LevelTrace,
}

// IndexOf returns the position of l in the table.
func IndexOf(l Level) (int, error) {
	i := int(l)
	if i >= Count || table[i] != l {
		return 0, errors.Wrapf(ErrUnknownLevel, "level value %d", uint8(l))
	}
	return i, nil
}

// At returns the level at index i, clamped to the table bounds.
func At(i int) Level {
	return table[clamp(i)]
}

// Lookup returns the level at index i and whether i was inside the table.
func Lookup(i int) (Level, bool) {
	if i < 0 || i >= Count {
		return Off, false
	}
	return table[i], true
}

// Parse returns the level named s. Matching is case-insensitive.
func Parse(s string) (Level, error) {
	for i, name := range names {
		if strings.EqualFold(s, name) {
			return table[i], nil
		}
	}
	return Off, errors.Wrapf(ErrUnknownLevel, "%q", s)
}

// MustParse is like Parse but panics on an unknown name.
// It is meant for compile-time constants.
func MustParse(s string) Level {
	l, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return l
}

// All returns the levels in table order.
func All() []Level {
	out := make([]Level, Count)
	copy(out, table[:])
	return out
}

// Names returns the lower-case level names in table order.
func Names() []string {
	out := make([]string, Count)
	copy(out, names[:])
	return out
}

// Valid reports whether l is one of the six levels.
func (l Level) Valid() bool {
	_, err := IndexOf(l)
	return err == nil
}

// String returns the upper-case level name.
func (l Level) String() string {
	if !l.Valid() {
		return "LEVEL(" + strconv.Itoa(int(l)) + ")"
	}
	return strings.ToUpper(names[l])
}

// Name returns the lower-case level name, as accepted on the command line.
func (l Level) Name() string {
	if !l.Valid() {
		return ""
	}
	return names[l]
}

// Description returns a short human readable explanation of the level.
func (l Level) Description() string {
	if !l.Valid() {
		return ""
	}
	return descriptions[l]
}

// Slog returns the slog level used as a handler threshold for l.
func (l Level) Slog() slog.Level {
	if !l.Valid() {
		return LevelOff
	}
	return slogLevels[l]
}

// Level implements slog.Leveler.
func (l Level) Level() slog.Level {
	return l.Slog()
}

// Enables reports whether a record at level r passes a threshold of l.
func (l Level) Enables(r Level) bool {
	if r == Off || !r.Valid() || !l.Valid() {
		return false
	}
	return r <= l
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, errors.Wrapf(ErrUnknownLevel, "level value %d", uint8(l))
	}
	return []byte(names[l]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// FromSlog maps a slog record level to the closest table level.
// Anything below slog.LevelDebug is reported as Trace.
func FromSlog(s slog.Level) Level {
	switch {
	case s >= LevelOff:
		return Off
	case s >= slog.LevelError:
		return Error
	case s >= slog.LevelWarn:
		return Warn
	case s >= slog.LevelInfo:
		return Info
	case s >= slog.LevelDebug:
		return Debug
	default:
		return Trace
	}
}

func clamp(i int) int {
	if i < 0 {
		return 0
	}
	if i >= Count {
		return Count - 1
	}
	return i
}
