package logsetup

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether w is a terminal. Writers other than *os.File count
// when they expose Fd(), as colorable wrappers do.
func IsTTY(w io.Writer) bool {
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// UseColor decides whether the console sink colours its output for w.
// The first rule that applies wins:
//
//	noColor (ConsoleSpec.NoColor)   off
//	NO_COLOR set, any value         off (https://no-color.org)
//	CLICOLOR_FORCE set, not "0"     on, even when piped
//	TERM=dumb                       off
//	otherwise                       on only when w is a terminal
func UseColor(w io.Writer, noColor bool) bool {
	return colorDecision(noColor, IsTTY(w), os.LookupEnv)
}

func colorDecision(noColor, isTTY bool, lookup func(string) (string, bool)) bool {
	if noColor {
		return false
	}
	if _, ok := lookup("NO_COLOR"); ok {
		return false
	}
	if v, ok := lookup("CLICOLOR_FORCE"); ok && v != "" && v != "0" {
		return true
	}
	if v, _ := lookup("TERM"); v == "dumb" {
		return false
	}
	return isTTY
}
