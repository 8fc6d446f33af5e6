package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tessro/tokyobox/internal/overlay"
	"github.com/tessro/tokyobox/internal/search"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the overlay state",
	Long:  `Shows the current track, player modes, queue size and notifications of the running overlay.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	var view overlay.View
	if err := getBridge(cmd.Context(), "/state", &view); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(view)
	}
	writeStatus(os.Stdout, view)
	return nil
}

func writeStatus(w io.Writer, view overlay.View) {
	state := view.State

	visibility := "hidden"
	if state.Visible {
		visibility = "shown"
	}
	fmt.Fprintf(w, "%s Overlay %s\n", StatusIcon(state.Visible), visibility)

	if t := state.CurrentTrack; t != nil {
		fmt.Fprintf(w, "  %s %s\n", PlayIcon(state.IsPlaying), t.Title)
		artist := t.Artist
		if artist == "" {
			artist = search.UnknownArtist
		}
		if t.Duration != "" {
			fmt.Fprintf(w, "    %s — %s\n", artist, t.Duration)
		} else {
			fmt.Fprintf(w, "    %s\n", artist)
		}
	} else {
		fmt.Fprintln(w, "  No track playing")
	}

	fmt.Fprintf(w, "    🔊 %s\n", FormatVolume(state.Volume, 20))
	fmt.Fprintf(w, "    shuffle: %s  repeat: %s\n", onOff(state.Shuffle), state.Repeat)

	q := view.Queue
	if len(q.Tracks) > 0 {
		fmt.Fprintf(w, "    queue: %d tracks, at %d\n", len(q.Tracks), q.CurrentIndex+1)
	} else {
		fmt.Fprintln(w, "    queue: empty")
	}

	for _, n := range view.Notifications {
		fmt.Fprintf(w, "  [%s] %s (%s)\n", n.Level, n.Message, search.FormatAgo(n.CreatedAt))
	}
}
