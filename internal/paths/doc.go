// Package paths resolves the locations clilog reads settings from and
// writes logs to.
//
// The package wraps github.com/adrg/xdg for XDG Base Directory compliance:
//
//	paths.ConfigFile()     // ~/.config/clilog/config.yaml
//	paths.DefaultLogFile() // ~/.local/state/clilog/clilog.log
package paths
