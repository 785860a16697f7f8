// Package logsetup assembles and installs the process-wide slog pipeline.
//
// A [Builder] collects a level, a console sink and an optional file sink
// (continuous, or rolled by a [RotationPolicy]). [Builder.Build] validates
// the configuration, wires the sinks console first, applies the level as
// every sink's threshold and installs the result with [Install], which
// succeeds at most once per process until [Shutdown].
//
// # Basic Usage
//
//	h, err := logsetup.New(level.Info).WithConsole().Build()
//	if err != nil {
//		return err
//	}
//	defer h.Close()
//	slog.Info("ready")
//
// # Rotation
//
//	logsetup.New(level.Debug).
//		WithFile(logsetup.Rolling, func(s logsetup.FileSpec) logsetup.FileSpec {
//			s.Path = "logs/app.log"
//			return s
//		}).
//		WithRotationPolicy(512, "logs/app.{}.log", 3)
//
// keeps logs/app.log under 512 KB and at most three archives,
// logs/app.1.log being the newest.
package logsetup
