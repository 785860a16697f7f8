package config

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	clierrors "github.com/thoreinstein/clilog/internal/errors"
	"github.com/thoreinstein/clilog/pkg/level"
)

// FieldError describes one invalid setting.
type FieldError struct {
	// Field is the dotted settings key, e.g. "rotation.size_kb".
	Field string
	// Value is the offending value as written.
	Value any
	// Rule is the failed validation rule.
	Rule string
}

func (e *FieldError) Error() string {
	switch e.Rule {
	case "log_level":
		return fmt.Sprintf("%s: %q is not a log level (%s)", e.Field, e.Value, strings.Join(level.Names(), ", "))
	case "required":
		return e.Field + ": required"
	case "oneof":
		return fmt.Sprintf("%s: %v is not one of the allowed values", e.Field, e.Value)
	default:
		return fmt.Sprintf("%s: %v fails %s", e.Field, e.Value, e.Rule)
	}
}

// Is lets errors.Is match FieldErrors against ErrInvalidConfig.
func (e *FieldError) Is(target error) bool {
	return target == clierrors.ErrInvalidConfig
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report fields by their settings key rather than the Go name.
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = validate.RegisterValidation("log_level", func(fl validator.FieldLevel) bool {
			_, err := level.Parse(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

// Validate checks s. The returned error joins one FieldError per invalid
// setting and matches clierrors.ErrInvalidConfig.
func Validate(s *Settings) error {
	if s == nil {
		return errors.Wrap(clierrors.ErrInvalidConfig, "settings are nil")
	}

	err := validatorInstance().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validating settings")
	}

	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, &FieldError{
			Field: settingsKey(fe.Namespace()),
			Value: fe.Value(),
			Rule:  fe.Tag(),
		})
	}
	return errors.Join(errs...)
}

// settingsKey drops the struct name from a validator namespace:
// "Settings.rotation.size_kb" becomes "rotation.size_kb".
func settingsKey(namespace string) string {
	_, key, ok := strings.Cut(namespace, ".")
	if !ok {
		return namespace
	}
	return key
}
