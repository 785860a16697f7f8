package logsetup

import (
	"io"
	"log"
	"log/slog"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/atomic"

	"github.com/thoreinstein/clilog/pkg/level"
)

// active holds the installed handle. It is only ever set with a
// compare-and-swap from nil, so two installs cannot both succeed.
var active atomic.Pointer[Handle]

// swapMu orders the default-logger swap done by Install with the restore
// done by Shutdown. Active reads do not take it.
var swapMu sync.Mutex

// Handle is an assembled logging pipeline.
type Handle struct {
	logger    *slog.Logger
	level     level.Level
	fileLevel level.Level
	sinks     []string
	closers   []io.Closer

	prevDefault  *slog.Logger
	prevLogOut   io.Writer
	prevLogFlags int

	closeOnce sync.Once
	closeErr  error
}

// Logger returns the slog logger for the pipeline.
func (h *Handle) Logger() *slog.Logger {
	return h.logger
}

// Level returns the console threshold, which is also the file threshold
// unless the file sink has its own.
func (h *Handle) Level() level.Level {
	return h.level
}

// FileLevel returns the file sink threshold, or Off without a file sink.
func (h *Handle) FileLevel() level.Level {
	return h.fileLevel
}

// Sinks returns the configured sink names in output order.
func (h *Handle) Sinks() []string {
	out := make([]string, len(h.sinks))
	copy(out, h.sinks)
	return out
}

// Close uninstalls h if it is the active handle and closes its file sinks.
func (h *Handle) Close() error {
	if removed, err := uninstall(h); removed {
		return err
	}
	return h.closeSinks()
}

func (h *Handle) closeSinks() error {
	h.closeOnce.Do(func() {
		var errs []error
		for _, c := range h.closers {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		h.closeErr = errors.Join(errs...)
	})
	return h.closeErr
}

// Install makes h the process-wide logger and slog.Default().
// It fails with ErrInitFailed wrapping ErrAlreadyInitialized if another
// handle is installed; the installed handle is left untouched.
func Install(h *Handle) error {
	if h == nil || h.logger == nil {
		return errors.Mark(errors.New("cannot install an empty handle"), ErrInitFailed)
	}

	swapMu.Lock()
	defer swapMu.Unlock()

	prevDefault, prevOut, prevFlags := slog.Default(), log.Writer(), log.Flags()
	if !active.CompareAndSwap(nil, h) {
		// h is left as it was: it may be the installed handle itself.
		return errors.Mark(errors.Wrap(ErrAlreadyInitialized, "installing logger"), ErrInitFailed)
	}
	h.prevDefault = prevDefault
	h.prevLogOut = prevOut
	h.prevLogFlags = prevFlags
	slog.SetDefault(h.logger)
	return nil
}

// Active returns the installed handle, or nil.
func Active() *Handle {
	return active.Load()
}

// Shutdown uninstalls the active handle, restores the previous default
// loggers and closes file sinks. It is a no-op when nothing is installed.
func Shutdown() error {
	_, err := uninstall(nil)
	return err
}

// uninstall removes the active handle, or only want when it is non-nil.
// It reports whether a handle was removed.
func uninstall(want *Handle) (bool, error) {
	swapMu.Lock()
	defer swapMu.Unlock()

	h := active.Load()
	if h == nil || (want != nil && h != want) {
		return false, nil
	}
	if !active.CompareAndSwap(h, nil) {
		return false, nil
	}

	// slog.SetDefault redirects the log package; undo that as well.
	slog.SetDefault(h.prevDefault)
	log.SetOutput(h.prevLogOut)
	log.SetFlags(h.prevLogFlags)

	return true, h.closeSinks()
}
