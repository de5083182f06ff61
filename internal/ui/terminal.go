package ui

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ShouldUseColor reports whether rwa output on stdout should carry ANSI
// colors.
func ShouldUseColor() bool {
	return colorEnabled(os.Getenv, term.IsTerminal(int(os.Stdout.Fd())))
}

// colorEnabled applies, in order: RWA_COLOR=always|never, NO_COLOR
// (https://no-color.org), CLICOLOR_FORCE=1, CLICOLOR=0, then the TTY check.
func colorEnabled(getenv func(string) string, tty bool) bool {
	switch strings.ToLower(strings.TrimSpace(getenv("RWA_COLOR"))) {
	case "always":
		return true
	case "never":
		return false
	}
	if getenv("NO_COLOR") != "" {
		return false
	}
	if strings.TrimSpace(getenv("CLICOLOR_FORCE")) == "1" {
		return true
	}
	if strings.TrimSpace(getenv("CLICOLOR")) == "0" {
		return false
	}
	return tty
}
