package ui

import "fmt"

// ANSI256 color codes matching the Ayu palette.
const (
	colorAccent = 74  // blue
	colorMuted  = 245 // medium gray
	colorOK     = 114 // green
	colorWarn   = 221 // yellow
	colorFail   = 203 // red
)

var noColor bool

func paint(color int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", color, s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string { return paint(colorAccent, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return paint(colorMuted, s) }

func RenderOK(s string) string   { return paint(colorOK, s) }
func RenderWarn(s string) string { return paint(colorWarn, s) }
func RenderFail(s string) string { return paint(colorFail, s) }

// RenderState colors a session state: connected green, connecting yellow,
// error red, anything else muted.
func RenderState(state string) string {
	switch state {
	case "connected":
		return RenderOK(state)
	case "connecting":
		return RenderWarn(state)
	case "error":
		return RenderFail(state)
	}
	return RenderMuted(state)
}

// RenderVerdict renders a gate verdict.
func RenderVerdict(allowed bool, reason string) string {
	if allowed {
		return RenderOK("ALLOWED")
	}
	return RenderFail("REJECTED") + " " + RenderMuted("("+reason+")")
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
