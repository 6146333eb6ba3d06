// Package output provides formatting and display utilities for spdash.
package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
)

// Palette used across terminal output.
var (
	Bold      = newColor(color.Bold)
	Dim       = newColor(color.Faint)
	Red       = newColor(color.FgRed)
	Green     = newColor(color.FgGreen)
	Yellow    = newColor(color.FgYellow)
	Cyan      = newColor(color.FgCyan)
	BoldRed   = newColor(color.Bold, color.FgRed)
	BoldGreen = newColor(color.Bold, color.FgGreen)
)

// newColor builds a color that always emits escapes; Color decides
// whether to apply it.
func newColor(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

var useColor = true

// DisableColor disables colored output.
func DisableColor() {
	useColor = false
}

// EnableColor enables colored output.
func EnableColor() {
	useColor = true
}

// IsColorEnabled returns whether color output is enabled.
func IsColorEnabled() bool {
	return useColor && isTerminal()
}

// isTerminal checks if stdout is a terminal.
func isTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Color applies a color to text if color is enabled.
func Color(text string, c *color.Color) string {
	if !IsColorEnabled() {
		return text
	}
	return c.Sprint(text)
}

// CheckColor returns the color for a health check status.
func CheckColor(status string) *color.Color {
	switch strings.ToUpper(status) {
	case "PASS", "OK":
		return Green
	case "WARN", "WARNING":
		return Yellow
	case "FAIL", "ERROR":
		return Red
	default:
		return Dim
	}
}

// CheckIcon returns a colored icon for a health check status.
func CheckIcon(status string) string {
	switch strings.ToUpper(status) {
	case "PASS", "OK":
		return Color("✓", Green)
	case "WARN", "WARNING":
		return Color("⚠", Yellow)
	case "FAIL", "ERROR":
		return Color("✗", Red)
	default:
		return "?"
	}
}

// Checkmark returns a colored checkmark or X.
func Checkmark(ok bool) string {
	if ok {
		return Color("✓", Green)
	}
	return Color("✗", Red)
}

// Bar draws a horizontal bar filled to value/max of width cells.
func Bar(value, max float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if max > 0 && value > 0 {
		filled = int(value / max * float64(width))
	}
	if filled > width {
		filled = width
	}
	return Color(strings.Repeat("█", filled), Cyan) + strings.Repeat("░", width-filled)
}

// ProgressBar creates a visual progress bar.
func ProgressBar(percent float64, width int) string {
	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	// Color the bar based on completion
	var c *color.Color
	switch {
	case percent >= 80:
		c = Green
	case percent >= 50:
		c = Yellow
	default:
		c = Red
	}

	return Color("["+bar+"]", c)
}

// Header creates a formatted header line.
func Header(text string, width int) string {
	return Color(rule(text, "=", width), Bold)
}

// SubHeader creates a formatted subheader line.
func SubHeader(text string, width int) string {
	return Color(rule(text, "-", width), Dim)
}

func rule(text, fill string, width int) string {
	tw := runewidth.StringWidth(text)
	padding := (width - tw - 2) / 2
	if padding < 0 {
		padding = 0
	}
	line := strings.Repeat(fill, padding) + " " + text + " " + strings.Repeat(fill, padding)
	// Ensure exact width
	if lw := runewidth.StringWidth(line); lw < width {
		line += strings.Repeat(fill, width-lw)
	}
	return line
}

// FormatPercent formats a percentage with color.
func FormatPercent(percent float64) string {
	text := fmt.Sprintf("%.1f%%", percent)
	var c *color.Color
	switch {
	case percent >= 80:
		c = Green
	case percent >= 50:
		c = Yellow
	default:
		c = Red
	}
	return Color(text, c)
}

// Truncate truncates text to a maximum display width with ellipsis.
func Truncate(text string, maxWidth int) string {
	if runewidth.StringWidth(text) <= maxWidth {
		return text
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(text, maxWidth, "")
	}
	return runewidth.Truncate(text, maxWidth, "...")
}

// PadRight pads text to a minimum display width.
func PadRight(text string, width int) string {
	return runewidth.FillRight(text, width)
}
