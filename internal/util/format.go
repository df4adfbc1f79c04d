package util

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatNumber formats an int with K/M suffix for readability.
// Examples: 500 -> "500", 1500 -> "1.5K", 1500000 -> "1.5M"
func FormatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%.1fM", float64(n)/1000000)
}

// FormatCount formats n with thousands separators: 1234567 -> "1,234,567".
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatPercent returns part/total as a percentage with one decimal, "0.0%"
// when total is 0.
func FormatPercent(part, total int) string {
	if total == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)*100/float64(total))
}

func parseTimestamp(s string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339Nano, s)
	return t, err == nil
}

// FormatDateISO formats an RFC3339 timestamp string to ISO date format (2006-01-02).
// Returns the original string if parsing fails.
func FormatDateISO(s string) string {
	t, ok := parseTimestamp(s)
	if !ok {
		return s
	}
	return t.Format("2006-01-02")
}

// FormatDateHuman formats an RFC3339 timestamp string to human-readable format (Jan 2, 2006).
// Returns the original string if parsing fails.
func FormatDateHuman(s string) string {
	t, ok := parseTimestamp(s)
	if !ok {
		return s
	}
	return t.Format("Jan 2, 2006")
}

// FormatDateTime formats an RFC3339 timestamp string to date-time format (2006-01-02 15:04).
// Returns the original string if parsing fails.
func FormatDateTime(s string) string {
	t, ok := parseTimestamp(s)
	if !ok {
		return s
	}
	return t.Format("2006-01-02 15:04")
}

// Truncate shortens s to at most max runes, marking the cut with an ellipsis.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}

// FirstLine returns the first non-empty line of s, trimmed.
func FirstLine(s string) string {
	for line := range strings.SplitSeq(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
