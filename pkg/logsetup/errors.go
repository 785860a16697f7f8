package logsetup

import "github.com/cockroachdb/errors"

// Configuration errors reported by Builder.Build and PolicyBuilder.Build.
var (
	// ErrNoAppender indicates neither a console nor a file sink was configured.
	ErrNoAppender = errors.New("no appender configured: add a console or file sink")

	// ErrConsoleAlreadySet indicates WithConsole was called more than once.
	ErrConsoleAlreadySet = errors.New("console sink already set")

	// ErrFileAlreadySet indicates WithFile was called more than once.
	ErrFileAlreadySet = errors.New("file sink already set")

	// ErrFilePathNotSet indicates a file sink without a path.
	ErrFilePathNotSet = errors.New("file sink path not set")

	// ErrNoPolicy indicates a rolling file sink without a rotation policy.
	ErrNoPolicy = errors.New("rolling file sink requires a rotation policy")

	// ErrNoSizeTrigger indicates a rotation policy without a size limit.
	ErrNoSizeTrigger = errors.New("rotation policy has no size trigger")

	// ErrNoFixedWindowRoller indicates a rotation policy without a window roller.
	ErrNoFixedWindowRoller = errors.New("rotation policy has no fixed window roller")

	// ErrInvalidPolicy indicates a rotation policy with unusable values.
	ErrInvalidPolicy = errors.New("invalid rotation policy")

	// ErrAlreadyBuilt indicates Build was called on a consumed Builder.
	ErrAlreadyBuilt = errors.New("logging configuration already built")

	// ErrBuildFailed indicates a sink could not be created.
	ErrBuildFailed = errors.New("building logger failed")
)

// Installation errors.
var (
	// ErrInitFailed indicates the logger could not be installed.
	ErrInitFailed = errors.New("logger init failed")

	// ErrAlreadyInitialized indicates a logger is already installed in this process.
	ErrAlreadyInitialized = errors.New("logger already initialized")
)
