package search

import (
	"time"

	"github.com/dustin/go-humanize"
)

// FormatAgo renders how long ago t was.
func FormatAgo(t time.Time) string {
	return humanize.Time(t)
}

// Truncate shortens text to max runes, adding "..." when cut.
func Truncate(text string, max int) string {
	runes := []rune(text)
	if max <= 0 {
		return ""
	}
	if len(runes) <= max {
		return text
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
