package logflags

import "github.com/cockroachdb/errors"

var (
	// ErrDuplicateFlag indicates a logging flag name or shorthand is defined
	// more than once, either in the descriptors or on the target flag set.
	ErrDuplicateFlag = errors.New("duplicate logging flag")

	// ErrMissingFlag indicates one of the level, verbose and quiet flags is
	// absent from a descriptor group.
	ErrMissingFlag = errors.New("missing logging flag")

	// ErrLevelFlagMissing indicates the parsed arguments have no level flag,
	// usually because the logging flags were never registered.
	ErrLevelFlagMissing = errors.New("log level flag not registered")
)
