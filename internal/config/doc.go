// Package config loads the clilog settings file.
//
// Settings are read with Viper from config.yaml in the current directory
// or ~/.config/clilog, overridden by CLILOG_* environment variables, and
// validated with go-playground/validator:
//
//	default_level: warn
//	file_level: debug
//	env_vars: [MYAPP_LOG]
//	log_file: /var/log/myapp.log
//	rotate: true
//	rotation:
//	  size_kb: 1024
//	  window_count: 5
//	console:
//	  format: text
//
// Invalid settings are reported together, one [FieldError] per key:
//
//	if err := config.Validate(s); errors.Is(err, clierrors.ErrInvalidConfig) {
//	    ...
//	}
package config
