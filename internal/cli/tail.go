package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tessro/tokyobox/internal/core"
	"github.com/tessro/tokyobox/internal/overlay"
	"github.com/tessro/tokyobox/internal/tail"
)

var (
	tailNoEmoji   bool
	tailTimestamp bool
	tailFormat    string
	tailInterval  time.Duration
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow overlay changes in real-time",
	Long: `Watch the running overlay and print changes as they happen.

Events tracked:
  - Track changes
  - Pause/Resume
  - Volume changes
  - Shuffle and repeat changes
  - Overlay shown/hidden

Template fields: .Type .Emoji .Time .Description .ID .Title .Artist .Duration
                 .Playing .Volume .Shuffle .Repeat

With --json each event is printed as one JSON object per line.`,
	RunE: runTail,
}

func init() {
	tailCmd.Flags().BoolVar(&tailNoEmoji, "no-emoji", false, "disable emoji output")
	tailCmd.Flags().BoolVarP(&tailTimestamp, "timestamp", "t", false, "show timestamps")
	tailCmd.Flags().StringVarP(&tailFormat, "format", "f", "", "custom format template")
	tailCmd.Flags().DurationVarP(&tailInterval, "interval", "i", time.Second, "poll interval")

	rootCmd.AddCommand(tailCmd)
}

// bridgeSource reads overlay state from the running bridge.
func bridgeSource() tail.Source {
	return tail.SourceFunc(func(ctx context.Context) (*core.UIState, error) {
		var view overlay.View
		if err := getBridge(ctx, "/state", &view); err != nil {
			return nil, err
		}
		return &view.State, nil
	})
}

func runTail(cmd *cobra.Command, args []string) error {
	formatter := tail.NewFormatter(
		tail.WithEmoji(!tailNoEmoji),
		tail.WithTimestamp(tailTimestamp),
		tail.WithTemplate(tailFormat),
		tail.WithJSON(JSONOutput()),
	)

	// Handle Ctrl+C gracefully
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher := tail.NewWatcher(bridgeSource(), tailInterval)
	if Verbose() {
		watcher.OnError(func(err error) {
			fmt.Fprintf(os.Stderr, "poll failed: %v\n", err)
		})
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- watcher.Start(ctx)
	}()

	for event := range watcher.Events() {
		fmt.Println(formatter.Format(event))
	}

	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
