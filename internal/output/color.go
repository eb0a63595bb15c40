package output

import (
	"os"

	"golang.org/x/term"

	"github.com/bimmerbailey/fieldprompt/internal/llm"
)

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// ColorMode determines when to use colored output.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // Auto-detect based on TTY
	ColorAlways                  // Always use colors
	ColorNever                   // Never use colors
)

// ParseColorMode converts a flag value to a ColorMode, defaulting to auto.
func ParseColorMode(s string) ColorMode {
	switch s {
	case "always":
		return ColorAlways
	case "never":
		return ColorNever
	default:
		return ColorAuto
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// shouldColorize determines if output should be colorized based on mode and TTY detection.
func shouldColorize(mode ColorMode, w any) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	case ColorAuto:
		if f, ok := w.(*os.File); ok {
			return isTerminal(f)
		}
		return false
	}
	return false
}

// colorizeRole picks a color per chat role.
func colorizeRole(role, text string) string {
	switch role {
	case llm.RoleUser:
		return colorBold + colorCyan + text + colorReset
	case llm.RoleAssistant:
		return colorBold + text + colorReset
	default:
		return colorGray + text + colorReset
	}
}

// FormatRoleHeader returns the "=== role ===" line printed above a message.
func FormatRoleHeader(role string, colorize bool) string {
	header := "=== " + role + " ==="
	if colorize {
		return colorizeRole(role, header)
	}
	return header
}
