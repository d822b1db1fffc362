package logger

import (
	"fmt"

	"github.com/fatih/color"
)

// colorScheme colours summary lines.
// Green: scanned, yellow: skipped (when non-zero), cyan: labels.
type colorScheme struct {
	enabled bool
	success *color.Color
	warn    *color.Color
	label   *color.Color
}

func newColorScheme(enabled bool) *colorScheme {
	s := &colorScheme{
		enabled: enabled,
		success: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		label:   color.New(color.FgCyan),
	}
	if !enabled {
		s.success.DisableColor()
		s.warn.DisableColor()
		s.label.DisableColor()
	} else {
		s.success.EnableColor()
		s.warn.EnableColor()
		s.label.EnableColor()
	}
	return s
}

// metric formats "label: value" with a coloured label
func (s *colorScheme) metric(label string, value interface{}) string {
	return fmt.Sprintf("%s: %v", s.label.Sprint(label), value)
}

// count formats "name: n", colouring the whole pair only when n is non-zero
func (s *colorScheme) count(name string, n int, c *color.Color) string {
	text := fmt.Sprintf("%s: %d", name, n)
	if n == 0 {
		return text
	}
	return c.Sprint(text)
}
