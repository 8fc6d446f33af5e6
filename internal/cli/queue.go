package cli

import (
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/tessro/tokyobox/internal/bridge"
	"github.com/tessro/tokyobox/internal/core"
	"github.com/tessro/tokyobox/internal/search"
)

var queueLimit int

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Manage the play queue",
	Long: `View and manage the overlay's play queue.

These commands change the local queue only; use 'tokyobox next' and friends
to also tell the game client.`,
	RunE: runQueueList,
}

var queueAddCmd = &cobra.Command{
	Use:   "add <id|url>",
	Short: "Add a track to the queue",
	Long: `Append a track to the queue. A YouTube link is reduced to its video ID.

Examples:
  tokyobox queue add dQw4w9WgXcQ --title "Never Gonna Give You Up" --artist "Rick Astley"
  tokyobox queue add https://youtu.be/dQw4w9WgXcQ`,
	Args: cobra.ExactArgs(1),
	RunE: runQueueAdd,
}

var queueRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a track from the queue",
	Args:    cobra.ExactArgs(1),
	RunE:    runQueueRemove,
}

var queueClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the queue",
	RunE:  runQueueClear,
}

var queueCurrentCmd = &cobra.Command{
	Use:   "current [id]",
	Short: "Show or set the current track",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runQueueCurrent,
}

var queueNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Move the queue cursor forward",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQueueMove(cmd, "/queue/next")
	},
}

var queuePreviousCmd = &cobra.Command{
	Use:     "previous",
	Aliases: []string{"prev"},
	Short:   "Move the queue cursor back",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQueueMove(cmd, "/queue/previous")
	},
}

var queueShuffleCmd = &cobra.Command{
	Use:   "shuffle",
	Short: "Toggle queue shuffle",
	RunE:  runQueueShuffle,
}

var queueRepeatCmd = &cobra.Command{
	Use:       "repeat <none|one|all>",
	Short:     "Set the queue repeat mode",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"none", "one", "all"},
	RunE:      runQueueRepeat,
}

var (
	queueAddTitle    string
	queueAddArtist   string
	queueAddDuration string
)

func init() {
	queueCmd.Flags().IntVarP(&queueLimit, "limit", "l", 20, "Maximum number of tracks to show")
	queueAddCmd.Flags().StringVar(&queueAddTitle, "title", "", "track title (default: the ID)")
	queueAddCmd.Flags().StringVar(&queueAddArtist, "artist", "", "track artist")
	queueAddCmd.Flags().StringVar(&queueAddDuration, "duration", "", "track duration, e.g. 03:25")

	queueCmd.AddCommand(queueAddCmd)
	queueCmd.AddCommand(queueRemoveCmd)
	queueCmd.AddCommand(queueClearCmd)
	queueCmd.AddCommand(queueCurrentCmd)
	queueCmd.AddCommand(queueNextCmd)
	queueCmd.AddCommand(queuePreviousCmd)
	queueCmd.AddCommand(queueShuffleCmd)
	queueCmd.AddCommand(queueRepeatCmd)
	rootCmd.AddCommand(queueCmd)
}

func printQueue(q core.QueueSnapshot) error {
	if JSONOutput() {
		return printJSON(q)
	}
	writeQueue(os.Stdout, q, queueLimit)
	return nil
}

func runQueueList(cmd *cobra.Command, args []string) error {
	var q core.QueueSnapshot
	if err := getBridge(cmd.Context(), "/queue", &q); err != nil {
		return err
	}
	return printQueue(q)
}

// trackFromArg builds a track from an ID or YouTube link plus the add flags.
func trackFromArg(arg string) core.Track {
	t := core.Track{
		ID:       arg,
		Title:    queueAddTitle,
		Artist:   queueAddArtist,
		Duration: queueAddDuration,
	}
	if id := videoIDFromArg(arg); id != arg {
		t.ID = id
		t.URL = search.WatchURL + id
	}
	if t.Title == "" {
		t.Title = t.ID
	}
	return t
}

func runQueueAdd(cmd *cobra.Command, args []string) error {
	t := trackFromArg(args[0])

	var q core.QueueSnapshot
	if err := postBridge(cmd.Context(), "/queue/tracks", t, &q); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]interface{}{"status": "added", "track": t, "queue": q})
	}
	fmt.Printf("Added to queue: %s\n", t.DisplayName())
	return nil
}

func runQueueRemove(cmd *cobra.Command, args []string) error {
	var q core.QueueSnapshot
	path := "/queue/tracks/" + url.PathEscape(args[0])
	if err := callBridge(cmd.Context(), http.MethodDelete, path, nil, &q); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]interface{}{"status": "removed", "id": args[0], "queue": q})
	}
	fmt.Printf("Removed %s\n", args[0])
	return nil
}

func runQueueClear(cmd *cobra.Command, args []string) error {
	if err := callBridge(cmd.Context(), http.MethodDelete, "/queue", nil, nil); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "cleared"})
	}
	fmt.Println("Queue cleared")
	return nil
}

func runQueueCurrent(cmd *cobra.Command, args []string) error {
	var res bridge.TrackResult
	if len(args) == 0 {
		if err := getBridge(cmd.Context(), "/queue", &res.Queue); err != nil {
			return err
		}
		if i := res.Queue.CurrentIndex; i >= 0 && i < len(res.Queue.Tracks) {
			t := res.Queue.Tracks[i]
			res.Track = &t
		}
	} else {
		if err := postBridge(cmd.Context(), "/queue/current/"+url.PathEscape(args[0]), nil, &res); err != nil {
			return err
		}
	}
	return printTrackResult(res)
}

func runQueueMove(cmd *cobra.Command, path string) error {
	var res bridge.TrackResult
	if err := postBridge(cmd.Context(), path, nil, &res); err != nil {
		return err
	}
	return printTrackResult(res)
}

func printTrackResult(res bridge.TrackResult) error {
	if JSONOutput() {
		return printJSON(res)
	}
	if res.Track == nil {
		fmt.Println("No current track")
		return nil
	}
	fmt.Printf("%s %s\n", PlayIcon(true), res.Track.DisplayName())
	return nil
}

func runQueueShuffle(cmd *cobra.Command, args []string) error {
	var q core.QueueSnapshot
	if err := postBridge(cmd.Context(), "/queue/shuffle", nil, &q); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(q)
	}
	fmt.Printf("Shuffle %s\n", onOff(q.Shuffled))
	return nil
}

func runQueueRepeat(cmd *cobra.Command, args []string) error {
	var q core.QueueSnapshot
	body := map[string]string{"mode": args[0]}
	if err := callBridge(cmd.Context(), http.MethodPut, "/queue/repeat", body, &q); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(q)
	}
	fmt.Printf("Repeat: %s\n", q.RepeatMode)
	return nil
}
