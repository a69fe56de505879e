package utils

import (
	"fmt"
	"strings"
)

// ProgressBar renders a fixed-width unicode bar for a 0..1 fraction.
func ProgressBar(fraction float64, width int) string {
	if width <= 0 {
		width = 10
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// FormatPages renders "current/total (percent%)" for a reading.
func FormatPages(current, total int) string {
	if total <= 0 {
		return fmt.Sprintf("%d pages", current)
	}
	return fmt.Sprintf("%d/%d (%d%%)", current, total, current*100/total)
}

// Truncate shortens s to max runes with an ellipsis.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
