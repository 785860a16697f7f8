package logsetup

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/clilog/pkg/level"
)

// Builder accumulates a logging configuration and installs it once.
//
//	h, err := logsetup.New(level.Info).
//		WithConsole().
//		WithFile(logsetup.Rolling, func(s logsetup.FileSpec) logsetup.FileSpec {
//			s.Path = "logs/app.log"
//			return s
//		}).
//		WithRotationPolicy(1024, "logs/app.{}.log", 5).
//		Build()
//
// Chaining errors are sticky: the first one is returned by Build.
type Builder struct {
	level     level.Level
	fileLevel *level.Level
	console   *ConsoleSpec
	file      *FileSpec
	fileKind  FileKind
	policy    *PolicyBuilder
	err       error
	built     bool
}

// New starts a configuration with no sinks.
func New(l level.Level) *Builder {
	return &Builder{level: l}
}

// WithConsole enables the console sink. Customizers run in order on
// DefaultConsoleSpec.
func (b *Builder) WithConsole(customize ...func(ConsoleSpec) ConsoleSpec) *Builder {
	if b.console != nil {
		b.setErr(ErrConsoleAlreadySet)
		return b
	}
	spec := DefaultConsoleSpec()
	for _, fn := range customize {
		if fn != nil {
			spec = fn(spec)
		}
	}
	b.console = &spec
	return b
}

// WithFile enables the file sink. A Rolling sink also needs a rotation
// policy, set before or after this call.
func (b *Builder) WithFile(kind FileKind, customize ...func(FileSpec) FileSpec) *Builder {
	if b.file != nil {
		b.setErr(ErrFileAlreadySet)
		return b
	}
	spec := DefaultFileSpec()
	for _, fn := range customize {
		if fn != nil {
			spec = fn(spec)
		}
	}
	b.file = &spec
	b.fileKind = kind
	return b
}

// WithFileLevel sets the file sink threshold. FileSpec.Threshold, when set,
// takes precedence.
func (b *Builder) WithFileLevel(l level.Level) *Builder {
	b.fileLevel = &l
	return b
}

// WithRotationPolicy sets or replaces the rotation policy.
func (b *Builder) WithRotationPolicy(sizeLimitKB uint64, windowPrefix string, windowCount uint32) *Builder {
	b.policy = NewPolicy().SizeLimit(sizeLimitKB).Window(windowPrefix, windowCount)
	return b
}

// WithPolicy sets or replaces the rotation policy with a partially or fully
// configured PolicyBuilder. Missing parts are reported by Build.
func (b *Builder) WithPolicy(p *PolicyBuilder) *Builder {
	b.policy = p
	return b
}

// Level returns the configured level.
func (b *Builder) Level() level.Level {
	return b.level
}

// HasFile reports whether a file sink is configured.
func (b *Builder) HasFile() bool {
	return b.file != nil
}

// Err returns the first chaining error, if any.
func (b *Builder) Err() error {
	return b.err
}

func (b *Builder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Build validates the configuration, assembles the sinks (console first,
// then file) and installs the result as the process-wide logger.
// A Builder can only be built once, whether or not Build succeeds.
func (b *Builder) Build() (*Handle, error) {
	if b.built {
		return nil, ErrAlreadyBuilt
	}
	b.built = true

	if b.err != nil {
		return nil, b.err
	}

	h, err := b.assemble()
	if err != nil {
		return nil, err
	}
	if err := Install(h); err != nil {
		_ = h.closeSinks()
		return nil, err
	}
	return h, nil
}

// assemble validates the builder and opens the sinks without installing.
func (b *Builder) assemble() (*Handle, error) {
	if b.console == nil && b.file == nil {
		return nil, ErrNoAppender
	}
	if !b.level.Valid() {
		return nil, errors.Mark(errors.Wrapf(level.ErrUnknownLevel, "builder level %d", uint8(b.level)), ErrBuildFailed)
	}

	var (
		policy    RotationPolicy
		fileLevel = level.Off
	)
	if b.file != nil {
		if b.file.Path == "" {
			return nil, ErrFilePathNotSet
		}
		if b.fileKind == Rolling {
			if b.policy == nil {
				return nil, ErrNoPolicy
			}
			p, err := b.policy.Build()
			if err != nil {
				return nil, err
			}
			if filepath.Clean(p.ArchiveName(1)) == filepath.Clean(b.file.Path) {
				return nil, errors.Wrapf(ErrInvalidPolicy, "window pattern %q collides with the log file", p.WindowPattern)
			}
			policy = p
		}
		fileLevel = b.resolveFileLevel()
		if !fileLevel.Valid() {
			return nil, errors.Mark(errors.Wrapf(level.ErrUnknownLevel, "file level %d", uint8(fileLevel)), ErrBuildFailed)
		}
	}

	h := &Handle{level: b.level, fileLevel: fileLevel}
	fan := NewMultiHandler()

	if b.console != nil {
		out := b.console.Out
		if out == nil {
			out = os.Stderr
		}
		fan.Add("console", newSinkHandler(out, b.console.Format, b.level, b.console.TimeFormat, b.console.NoColor))
	}

	if b.file != nil {
		w, err := b.openFile(policy)
		if err != nil {
			return nil, errors.Mark(err, ErrBuildFailed)
		}
		h.closers = append(h.closers, w)
		fan.Add("file:"+b.fileKind.String(), newSinkHandler(w, b.file.Format, fileLevel, time.RFC3339, true))
	}

	h.sinks = fan.Names()
	h.logger = slog.New(fan.Handler())
	return h, nil
}

func (b *Builder) resolveFileLevel() level.Level {
	switch {
	case b.file.Threshold != nil:
		return *b.file.Threshold
	case b.fileLevel != nil:
		return *b.fileLevel
	default:
		return b.level
	}
}

func (b *Builder) openFile(policy RotationPolicy) (io.WriteCloser, error) {
	perm := b.file.Perm
	if perm == 0 {
		perm = 0o600
	}

	if b.fileKind == Rolling {
		return OpenRollingFile(b.file.Path, perm, policy)
	}

	if err := os.MkdirAll(filepath.Dir(b.file.Path), dirPerm); err != nil {
		return nil, errors.Wrapf(err, "creating log directory for %s", b.file.Path)
	}
	f, err := os.OpenFile(b.file.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, perm)
	if err != nil {
		return nil, errors.Wrapf(err, "opening log file %s", b.file.Path)
	}
	return f, nil
}
