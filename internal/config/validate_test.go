package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clierrors "github.com/thoreinstein/clilog/internal/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Settings)
		wantField string
		wantRule  string
	}{
		{"defaults", func(*Settings) {}, "", ""},
		{"upper case level", func(s *Settings) { s.DefaultLevel = "INFO" }, "", ""},
		{"unknown level", func(s *Settings) { s.DefaultLevel = "chatty" }, "default_level", "log_level"},
		{"empty level", func(s *Settings) { s.DefaultLevel = "" }, "default_level", "required"},
		{"unknown file level", func(s *Settings) { s.FileLevel = "verbose" }, "file_level", "log_level"},
		{"zero size", func(s *Settings) { s.Rotation.SizeKB = 0 }, "rotation.size_kb", "gt"},
		{"huge window", func(s *Settings) { s.Rotation.WindowCount = 1000 }, "rotation.window_count", "lte"},
		{"bad format", func(s *Settings) { s.Console.Format = "xml" }, "console.format", "oneof"},
		{"empty env var", func(s *Settings) { s.EnvVars = []string{"OK", ""} }, "env_vars[1]", "required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(s)

			err := Validate(s)
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, clierrors.ErrInvalidConfig)
			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.wantField, fe.Field)
			assert.Equal(t, tt.wantRule, fe.Rule)
		})
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	s := Default()
	s.DefaultLevel = "nope"
	s.Console.Format = "xml"

	err := Validate(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default_level")
	assert.Contains(t, err.Error(), "console.format")
}

func TestValidate_Nil(t *testing.T) {
	require.ErrorIs(t, Validate(nil), clierrors.ErrInvalidConfig)
}
