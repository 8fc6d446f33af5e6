package cli

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessro/tokyobox/internal/bridge"
	"github.com/tessro/tokyobox/internal/core"
)

var playID string

var playCmd = &cobra.Command{
	Use:   "play [link|query]",
	Short: "Play a link or search for music",
	Long: `Play a YouTube link or video ID, or search for anything else.

Examples:
  tokyobox play https://youtu.be/dQw4w9WgXcQ   # Queue and play a video
  tokyobox play lofi hip hop                  # Search; results appear in the overlay
  tokyobox play --id dQw4w9WgXcQ              # Play an entry already in the queue`,
	RunE: runPlay,
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for music",
	Long:  `Ask the game client to search. Results are pushed back into the overlay.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	playCmd.Flags().StringVar(&playID, "id", "", "play the queued track with this ID")
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(searchCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if playID != "" {
		var res bridge.TrackResult
		if err := postBridge(ctx, "/actions/play/"+url.PathEscape(playID), nil, &res); err != nil {
			return err
		}
		return printTrackResult(res)
	}

	if len(args) == 0 {
		return cmd.Help()
	}

	input := strings.Join(args, " ")
	var q core.QueueSnapshot
	if err := postBridge(ctx, "/actions/play", map[string]string{"input": input}, &q); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]interface{}{"status": "requested", "input": input, "queue": q})
	}
	fmt.Printf("Requested: %s\n", input)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	if err := postBridge(cmd.Context(), "/actions/search", map[string]string{"query": query}, nil); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "searching", "query": query})
	}
	fmt.Printf("Searching for %q; results will appear in the overlay\n", query)
	return nil
}
