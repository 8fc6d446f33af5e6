package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/tokyobox/internal/core"
	"github.com/tessro/tokyobox/internal/search"
	"github.com/tessro/tokyobox/internal/tui/styles"
)

// Results displays the last search results with a selection
type Results struct {
	selected int
}

// NewResults creates a new Results component
func NewResults() *Results {
	return &Results{}
}

// SelectNext moves the selection down, stopping at the last of n results.
func (r *Results) SelectNext(n int) {
	if r.selected < n-1 {
		r.selected++
	}
}

// SelectPrev moves the selection up
func (r *Results) SelectPrev() {
	if r.selected > 0 {
		r.selected--
	}
}

// Selected returns the selected index
func (r *Results) Selected() int {
	return r.selected
}

// Reset moves the selection back to the first result.
func (r *Results) Reset() {
	r.selected = 0
}

// Render renders the result list. loading replaces the list with a spinner line.
func (r *Results) Render(results []core.Track, width, maxLines int, loading bool) string {
	if loading {
		return styles.Muted.Render("Searching...")
	}
	if len(results) == 0 {
		return styles.Muted.Render("No results")
	}
	if r.selected >= len(results) {
		r.selected = len(results) - 1
	}

	lines := make([]string, 0, maxLines)

	// Fixed overhead: selector (2) + " — " (3) + gap before duration (2)
	const overhead = 7

	for i, track := range results {
		if i >= maxLines {
			lines = append(lines, styles.Dim.Render(fmt.Sprintf("  ...and %d more", len(results)-i)))
			break
		}

		duration := track.Duration
		if duration == "" {
			duration = "00:00"
		}

		artist := track.Artist
		if artist == "" {
			artist = search.UnknownArtist
		}
		title, artist := fit(track.Title, artist, width-overhead-len(duration))
		info := fmt.Sprintf("%s — %s", title, styles.Muted.Render(artist))
		infoLen := len([]rune(title)) + 3 + len([]rune(artist))

		padding := width - 2 - infoLen - len(duration)
		if padding < 1 {
			padding = 1
		}

		selector := "  "
		if i == r.selected {
			selector = styles.Highlight.Render("▸ ")
		}

		line := selector + info +
			lipgloss.NewStyle().Width(padding).Render("") +
			styles.Dim.Render(duration)
		if i == r.selected {
			line = styles.Selected.Render(line)
		}
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
