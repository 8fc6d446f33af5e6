package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/tokyobox/internal/core"
	"github.com/tessro/tokyobox/internal/search"
	"github.com/tessro/tokyobox/internal/tui/styles"
)

// NowPlaying displays the current track and player controls
type NowPlaying struct{}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// Render renders the now playing panel
func (n *NowPlaying) Render(state core.UIState, width, height int, focused bool) string {
	title := styles.PanelTitle("Now Playing", focused)

	var content string
	switch {
	case state.Loading.Player:
		content = styles.Muted.Render("Loading...")
	case !state.HasTrack():
		content = styles.Muted.Render("No track playing")
	default:
		content = n.renderTrack(state, width-4)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
		"",
		n.renderControls(state, width-4),
	))
}

func (n *NowPlaying) renderTrack(state core.UIState, width int) string {
	track := state.CurrentTrack

	icon := styles.StatusIcon(state.IsPlaying)
	title := styles.Title.Render(search.Truncate(track.Title, width-4))

	artist := track.Artist
	if artist == "" {
		artist = search.UnknownArtist
	}

	lines := []string{
		icon + " " + title,
		"  " + styles.Subtitle.Render(search.Truncate(artist, width-2)),
	}
	if track.Duration != "" {
		lines = append(lines, "  "+styles.Dim.Render(track.Duration))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (n *NowPlaying) renderControls(state core.UIState, width int) string {
	barWidth := width - 12
	if barWidth < 10 {
		barWidth = 10
	}
	volume := fmt.Sprintf("vol %s %3d%%",
		styles.ProgressBar(float64(state.Volume), barWidth),
		state.Volume)

	playback := styles.Dim.Render("⏮ ")
	if state.IsPlaying {
		playback += styles.Playing.Render("⏸")
	} else {
		playback += styles.Paused.Render("▶")
	}
	playback += styles.Dim.Render(" ⏭")

	badges := playback + "   " + styles.ShuffleBadge(state.Shuffle) + "  " + styles.RepeatBadge(state.Repeat)

	return lipgloss.JoinVertical(lipgloss.Left, volume, badges)
}
