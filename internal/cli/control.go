package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tessro/tokyobox/internal/bridge"
	tberrors "github.com/tessro/tokyobox/internal/errors"
)

const volumeStep = 10

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Skip to next track",
	Long:  `Advance the queue and ask the game client to play the next track.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRelayTrack(cmd, "/actions/next")
	},
}

var prevCmd = &cobra.Command{
	Use:     "prev",
	Aliases: []string{"previous"},
	Short:   "Go to previous track",
	Long:    `Step the queue back and ask the game client to play the previous track.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRelayTrack(cmd, "/actions/previous")
	},
}

var toggleCmd = &cobra.Command{
	Use:     "toggle",
	Aliases: []string{"pause", "resume"},
	Short:   "Toggle play/pause",
	RunE:    runToggle,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop playback",
	RunE:  runStop,
}

var shuffleCmd = &cobra.Command{
	Use:   "shuffle",
	Short: "Toggle shuffle",
	RunE:  runShuffle,
}

var repeatCmd = &cobra.Command{
	Use:   "repeat",
	Short: "Cycle repeat mode (none, one, all)",
	RunE:  runRepeat,
}

var (
	volumeUp   bool
	volumeDown bool
)

var volumeCmd = &cobra.Command{
	Use:   "volume [level]",
	Short: "Set or adjust volume",
	Long: `Set the playback volume (0-100) or adjust it up/down.

Examples:
  tokyobox volume 50      # Set volume to 50%
  tokyobox volume --up    # Increase volume by 10%
  tokyobox volume --down  # Decrease volume by 10%`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVolume,
}

func init() {
	volumeCmd.Flags().BoolVar(&volumeUp, "up", false, "Increase volume by 10%")
	volumeCmd.Flags().BoolVar(&volumeDown, "down", false, "Decrease volume by 10%")

	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(prevCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(shuffleCmd)
	rootCmd.AddCommand(repeatCmd)
	rootCmd.AddCommand(volumeCmd)
}

func runRelayTrack(cmd *cobra.Command, path string) error {
	var res bridge.TrackResult
	if err := postBridge(cmd.Context(), path, nil, &res); err != nil {
		return err
	}
	return printTrackResult(res)
}

func runToggle(cmd *cobra.Command, args []string) error {
	var res struct {
		IsPlaying bool `json:"isPlaying"`
	}
	if err := postBridge(cmd.Context(), "/actions/toggle", nil, &res); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(res)
	}
	if res.IsPlaying {
		fmt.Println("▶ Playing")
	} else {
		fmt.Println("⏸ Paused")
	}
	return nil
}

func runStop(cmd *cobra.Command, args []string) error {
	if err := postBridge(cmd.Context(), "/actions/stop", nil, nil); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "stopped"})
	}
	fmt.Println("⏹ Stopped")
	return nil
}

func runShuffle(cmd *cobra.Command, args []string) error {
	var res struct {
		Shuffle bool `json:"shuffle"`
	}
	if err := postBridge(cmd.Context(), "/actions/shuffle", nil, &res); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(res)
	}
	fmt.Printf("Shuffle %s\n", onOff(res.Shuffle))
	return nil
}

func runRepeat(cmd *cobra.Command, args []string) error {
	var res struct {
		RepeatMode string `json:"repeatMode"`
	}
	if err := postBridge(cmd.Context(), "/actions/repeat", nil, &res); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(res)
	}
	fmt.Printf("Repeat: %s\n", res.RepeatMode)
	return nil
}

// volumeRequest builds the /actions/volume body from args and flags.
func volumeRequest(args []string, up, down bool) (map[string]int, error) {
	switch {
	case len(args) > 0:
		val, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, tberrors.Invalid("invalid volume level: %s", args[0])
		}
		if val < 0 || val > 100 {
			return nil, tberrors.Invalid("volume must be between 0 and 100")
		}
		return map[string]int{"volume": val}, nil
	case up:
		return map[string]int{"delta": volumeStep}, nil
	case down:
		return map[string]int{"delta": -volumeStep}, nil
	default:
		return map[string]int{"delta": 0}, nil
	}
}

func runVolume(cmd *cobra.Command, args []string) error {
	body, err := volumeRequest(args, volumeUp, volumeDown)
	if err != nil {
		return err
	}

	var res struct {
		Volume int `json:"volume"`
	}
	if err := postBridge(cmd.Context(), "/actions/volume", body, &res); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(res)
	}
	fmt.Printf("🔊 %s\n", FormatVolume(res.Volume, 20))
	return nil
}
