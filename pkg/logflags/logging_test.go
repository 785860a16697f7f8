package logflags

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/clilog/pkg/level"
	"github.com/thoreinstein/clilog/pkg/logsetup"
	"github.com/thoreinstein/clilog/pkg/verbosity"
)

func fakeEnv(m map[string]string) Option {
	return WithResolver(verbosity.NewResolver(
		verbosity.WithLookup(func(key string) (string, bool) {
			v, ok := m[key]
			return v, ok
		}),
		verbosity.WithLogger(nil),
	))
}

func parse(t *testing.T, def level.Level, args ...string) Matches {
	t.Helper()
	fs := newFlagSet()
	require.NoError(t, Register(fs, NewArgs(def).WithFileLevel(level.Info).Export()))
	require.NoError(t, fs.Parse(args))
	return FromFlagSet(fs)
}

func TestResolveLevel(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
		want level.Level
	}{
		{"default", nil, nil, level.Warn},
		{"explicit", []string{"--loglevel", "debug"}, nil, level.Debug},
		{"verbose", []string{"-v"}, nil, level.Info},
		{"very verbose", []string{"-vvvvvvvvvvv"}, nil, level.Trace},
		{"very quiet", []string{"-qqqqqqqqqqq"}, nil, level.Off},
		{"explicit shifted", []string{"--loglevel", "error", "-vv"}, nil, level.Info},
		{"env wins", []string{"-qqq"}, map[string]string{"APP_LOG": "trace"}, level.Trace},
		{"env invalid", []string{"-v"}, map[string]string{"APP_LOG": "chatty"}, level.Info},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveLevel(parse(t, level.Warn, tt.args...), WithEnv("APP_LOG"), fakeEnv(tt.env))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveLevel_NotRegistered(t *testing.T) {
	fs := newFlagSet()
	require.NoError(t, fs.Parse(nil))

	_, err := ResolveLevel(FromFlagSet(fs), fakeEnv(nil))
	require.ErrorIs(t, err, ErrLevelFlagMissing)
}

type staticMatches map[string]string

func (m staticMatches) Value(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

func (m staticMatches) Occurrences(string) uint64 { return 0 }

func TestResolveLevel_InvalidValue(t *testing.T) {
	_, err := ResolveLevel(staticMatches{FlagLevel: "loud"}, fakeEnv(nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, verbosity.ErrInvalidLevel))
}

func TestResolveFileLevel(t *testing.T) {
	l, ok, err := ResolveFileLevel(parse(t, level.Warn, "-qq"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, level.Info, l, "file level ignores -q")

	l, ok, err = ResolveFileLevel(parse(t, level.Warn, "--file-loglevel", "TRACE"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, level.Trace, l)

	_, ok, err = ResolveFileLevel(staticMatches{FlagLevel: "warn"})
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = ResolveFileLevel(staticMatches{FlagFileLevel: "nope"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, verbosity.ErrInvalidLevel))
}

func consoleTo(buf *bytes.Buffer) func(*logsetup.Builder) *logsetup.Builder {
	return func(b *logsetup.Builder) *logsetup.Builder {
		return b.WithConsole(func(s logsetup.ConsoleSpec) logsetup.ConsoleSpec {
			s.Out = buf
			s.TimeFormat = ""
			return s
		})
	}
}

func TestBuildLogging_EndToEnd(t *testing.T) {
	t.Cleanup(func() { _ = logsetup.Shutdown() })

	var buf bytes.Buffer
	var handle *logsetup.Handle

	cmd := &cobra.Command{
		Use: "app",
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := BuildLogging(FromCommand(cmd), consoleTo(&buf), fakeEnv(nil))
			if err != nil {
				return err
			}
			handle = h
			slog.Debug("suppressed debug")
			slog.Warn("emitted warn")
			return nil
		},
	}
	_, err := AddLoggingFlags(cmd, level.Info)
	require.NoError(t, err)

	cmd.SetOut(io.Discard)
	cmd.SetArgs([]string{"--loglevel", "warn"})
	require.NoError(t, cmd.Execute())

	require.NotNil(t, handle)
	assert.Equal(t, level.Warn, handle.Level())
	assert.Same(t, handle, logsetup.Active())
	assert.NotContains(t, buf.String(), "suppressed debug")
	assert.Equal(t, "WARN  emitted warn\n", buf.String())
}

func TestBuildLogging_FileLevelFlag(t *testing.T) {
	t.Cleanup(func() { _ = logsetup.Shutdown() })

	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "app.log")
	m := parse(t, level.Warn, "--file-loglevel", "debug")

	h, err := BuildLogging(m, func(b *logsetup.Builder) *logsetup.Builder {
		return consoleTo(&buf)(b).WithFile(logsetup.Continuous, func(s logsetup.FileSpec) logsetup.FileSpec {
			s.Path = path
			return s
		})
	}, fakeEnv(nil))
	require.NoError(t, err)
	assert.Equal(t, level.Warn, h.Level())
	assert.Equal(t, level.Debug, h.FileLevel())
}

func TestInitLogging_SecondCallFails(t *testing.T) {
	t.Cleanup(func() { _ = logsetup.Shutdown() })

	m := parse(t, level.Error)
	first, err := InitLogging(m, fakeEnv(nil))
	require.NoError(t, err)

	_, err = InitLogging(m, fakeEnv(nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, logsetup.ErrAlreadyInitialized))
	assert.Same(t, first, logsetup.Active())
}

func TestBuildLogging_NilBuilder(t *testing.T) {
	_, err := BuildLogging(parse(t, level.Warn), func(*logsetup.Builder) *logsetup.Builder { return nil }, fakeEnv(nil))
	require.Error(t, err)
	assert.Nil(t, logsetup.Active())
}
