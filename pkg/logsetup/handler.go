package logsetup

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/thoreinstein/clilog/pkg/level"
)

// HandlerOptions configures a Handler.
type HandlerOptions struct {
	// Level is the minimum record level. Nil means slog.LevelInfo.
	Level slog.Leveler
	// TimeFormat is a time layout; empty omits timestamps.
	TimeFormat string
	// NoColor disables colour even when the writer is a terminal.
	NoColor bool
}

// Handler implements slog.Handler for line-oriented text output.
// Each record is written with a single Write call; colour is used only
// when the writer is a terminal.
type Handler struct {
	opts   HandlerOptions
	out    io.Writer
	mu     *sync.Mutex
	attrs  []slog.Attr
	groups []string

	timeColor  *color.Color
	traceColor *color.Color
	debugColor *color.Color
	infoColor  *color.Color
	warnColor  *color.Color
	errorColor *color.Color
	keyColor   *color.Color
}

// NewHandler creates a text handler writing to out.
func NewHandler(out io.Writer, opts *HandlerOptions) *Handler {
	if opts == nil {
		opts = &HandlerOptions{}
	}

	h := &Handler{
		opts: *opts,
		out:  out,
		mu:   &sync.Mutex{},
	}

	if UseColor(out, opts.NoColor) {
		h.timeColor = color.New(color.FgHiBlack)
		h.traceColor = color.New(color.FgBlue)
		h.debugColor = color.New(color.FgMagenta)
		h.infoColor = color.New(color.FgGreen)
		h.warnColor = color.New(color.FgYellow)
		h.errorColor = color.New(color.FgRed, color.Bold)
		h.keyColor = color.New(color.FgCyan)
		// fatih/color turns itself off when stdout is not a terminal;
		// the decision here is about out, not stdout.
		for _, c := range []*color.Color{h.timeColor, h.traceColor, h.debugColor,
			h.infoColor, h.warnColor, h.errorColor, h.keyColor} {
			c.EnableColor()
		}
	}

	return h
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, l slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return l >= minLevel
}

// Handle formats r as "<time> <LEVEL> <message> key=value ...".
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if h.opts.TimeFormat != "" && !r.Time.IsZero() {
		t := r.Time.Format(h.opts.TimeFormat)
		if h.timeColor != nil {
			t = h.timeColor.Sprint(t)
		}
		buf.WriteString(t)
		buf.WriteByte(' ')
	}

	label := level.FromSlog(r.Level).String()
	padded := fmt.Sprintf("%-5s", label)
	if c := h.levelColor(r.Level); c != nil {
		padded = c.Sprint(padded)
	}
	buf.WriteString(padded)
	buf.WriteByte(' ')

	buf.WriteString(r.Message)

	// attrs from WithAttrs already carry their group prefix
	for _, a := range h.attrs {
		h.appendAttr(&buf, "", a)
	}
	prefix := h.groupPrefix()
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&buf, prefix, a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

func (h *Handler) levelColor(l slog.Level) *color.Color {
	if h.timeColor == nil {
		return nil
	}
	switch {
	case l >= slog.LevelError:
		return h.errorColor
	case l >= slog.LevelWarn:
		return h.warnColor
	case l >= slog.LevelInfo:
		return h.infoColor
	case l >= slog.LevelDebug:
		return h.debugColor
	default:
		return h.traceColor
	}
}

// groupPrefix returns the open groups as "a.b.", or "".
func (h *Handler) groupPrefix() string {
	if len(h.groups) == 0 {
		return ""
	}
	return strings.Join(h.groups, ".") + "."
}

func (h *Handler) appendAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	key := prefix + a.Key
	if h.keyColor != nil {
		key = h.keyColor.Sprint(key)
	}

	fmt.Fprintf(buf, " %s=%v", key, a.Value.Any())
}

// WithAttrs returns a new Handler with the given attributes.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newH := *h
	newH.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	newH.attrs = append(newH.attrs, h.attrs...)
	prefix := h.groupPrefix()
	for _, a := range attrs {
		a.Key = prefix + a.Key
		newH.attrs = append(newH.attrs, a)
	}
	return &newH
}

// WithGroup returns a new Handler that prefixes later keys with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newH := *h
	newH.groups = make([]string, len(h.groups)+1)
	copy(newH.groups, h.groups)
	newH.groups[len(h.groups)] = name
	return &newH
}

// replaceLevel renders record levels with the table names so TRACE does
// not come out as "DEBUG-4".
func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 || a.Key != slog.LevelKey {
		return a
	}
	if l, ok := a.Value.Any().(slog.Level); ok {
		a.Value = slog.StringValue(level.FromSlog(l).String())
	}
	return a
}

// newSinkHandler builds the slog handler for one sink.
func newSinkHandler(out io.Writer, format Format, threshold level.Level, timeFormat string, noColor bool) slog.Handler {
	switch format {
	case FormatJSON:
		return slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level:       threshold,
			ReplaceAttr: replaceLevel,
		})
	default:
		return NewHandler(out, &HandlerOptions{
			Level:      threshold,
			TimeFormat: timeFormat,
			NoColor:    noColor,
		})
	}
}
