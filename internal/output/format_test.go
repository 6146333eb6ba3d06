package output

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestCheckColor(t *testing.T) {
	tests := []struct {
		status   string
		expected *color.Color
	}{
		{"PASS", Green},
		{"ok", Green},
		{"WARN", Yellow},
		{"FAIL", Red},
		{"error", Red},
		{"SKIP", Dim},
	}

	for _, tt := range tests {
		assert.Same(t, tt.expected, CheckColor(tt.status), tt.status)
	}
}

func TestCheckIcon(t *testing.T) {
	// Not a terminal under go test, so icons come back uncolored
	tests := map[string]string{
		"PASS": "✓",
		"WARN": "⚠",
		"FAIL": "✗",
		"":     "?",
	}
	for status, want := range tests {
		assert.Equal(t, want, CheckIcon(status), status)
	}
}

func TestColorDisabled(t *testing.T) {
	DisableColor()
	defer EnableColor()

	assert.False(t, IsColorEnabled())
	assert.Equal(t, "plain", Color("plain", Red))
	assert.Equal(t, "✓", Checkmark(true))
	assert.Equal(t, "✗", Checkmark(false))
}

func TestProgressBar(t *testing.T) {
	DisableColor()
	defer EnableColor()

	assert.Equal(t, "[█████░░░░░]", ProgressBar(50, 10))
	assert.Equal(t, "[██████████]", ProgressBar(150, 10))
	assert.Equal(t, "[░░░░░░░░░░]", ProgressBar(-5, 10))
}

func TestBar(t *testing.T) {
	DisableColor()
	defer EnableColor()

	assert.Equal(t, "█████░░░░░", Bar(2, 4, 10))
	assert.Equal(t, "██████████", Bar(4, 4, 10))
	assert.Equal(t, "░░░░░░░░░░", Bar(1, 0, 10))
	assert.Equal(t, "", Bar(1, 1, 0))
}

func TestHeader(t *testing.T) {
	DisableColor()
	defer EnableColor()

	h := Header("Objective 1", 30)
	assert.Len(t, h, 30)
	assert.Contains(t, h, " Objective 1 ")
	assert.True(t, strings.HasPrefix(h, "="))

	s := SubHeader("KPIs", 20)
	assert.Len(t, s, 20)
	assert.True(t, strings.HasPrefix(s, "-"))
}

func TestFormatPercent(t *testing.T) {
	DisableColor()
	defer EnableColor()

	assert.Equal(t, "85.0%", FormatPercent(85))
	assert.Equal(t, "12.5%", FormatPercent(12.5))
}

func TestTruncateAndPad(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 10))
	assert.Equal(t, "hello...", Truncate("hello world", 8))
	assert.Equal(t, "ab", Truncate("abcdef", 2))

	assert.Equal(t, "ab   ", PadRight("ab", 5))
	assert.Equal(t, "abcdef", PadRight("abcdef", 3))
}
