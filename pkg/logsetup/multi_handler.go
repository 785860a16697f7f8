package logsetup

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
)

type sink struct {
	name    string
	handler slog.Handler
}

// MultiHandler writes each record to named sinks in the order they were
// added. The builder adds the console before the file, so a record shows
// on the terminal before it is persisted.
//
// Every sink keeps its own threshold: a record only reaches the sinks
// whose handler is enabled for its level. A failing sink does not stop the
// ones after it; Handle reports each failure prefixed with the sink name.
type MultiHandler struct {
	sinks []sink
}

// NewMultiHandler returns a MultiHandler with no sinks.
func NewMultiHandler() *MultiHandler {
	return &MultiHandler{}
}

// Add appends a sink and returns m.
func (m *MultiHandler) Add(name string, h slog.Handler) *MultiHandler {
	m.sinks = append(m.sinks, sink{name: name, handler: h})
	return m
}

// Names returns the sink names in output order.
func (m *MultiHandler) Names() []string {
	names := make([]string, len(m.sinks))
	for i, s := range m.sinks {
		names[i] = s.name
	}
	return names
}

// Handler returns the only sink's handler directly, or m when there are
// several.
func (m *MultiHandler) Handler() slog.Handler {
	if len(m.sinks) == 1 {
		return m.sinks[0].handler
	}
	return m
}

// Enabled reports whether any sink accepts records at l, so the logger
// only builds records someone will write.
func (m *MultiHandler) Enabled(ctx context.Context, l slog.Level) bool {
	for _, s := range m.sinks {
		if s.handler.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

// Handle passes r to each enabled sink.
func (m *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, s := range m.sinks {
		if !s.handler.Enabled(ctx, r.Level) {
			continue
		}
		if err := s.handler.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, errors.Wrapf(err, "%s sink", s.name))
		}
	}
	return errors.Join(errs...)
}

// WithAttrs returns a MultiHandler whose sinks all carry attrs.
func (m *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return m.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

// WithGroup returns a MultiHandler whose sinks all open group name.
func (m *MultiHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return m
	}
	return m.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (m *MultiHandler) derive(fn func(slog.Handler) slog.Handler) *MultiHandler {
	out := &MultiHandler{sinks: make([]sink, len(m.sinks))}
	for i, s := range m.sinks {
		out.sinks[i] = sink{name: s.name, handler: fn(s.handler)}
	}
	return out
}
