package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	tberrors "github.com/tessro/tokyobox/internal/errors"
	"github.com/tessro/tokyobox/internal/logger"
	"github.com/tessro/tokyobox/internal/notify"
	"github.com/tessro/tokyobox/internal/tui"
)

var uiNoBridge bool

var uiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"tui"},
	Short:   "Launch the terminal overlay",
	Long: `Launch the overlay in the terminal, with the HTTP bridge running alongside
so the game client can keep pushing state.

The overlay shows:
  • Now Playing - current track, volume, shuffle and repeat
  • Queue - the play queue with the current entry marked
  • Notifications - recent toasts

Keyboard shortcuts:
  q, Ctrl+C    Quit
  ?            Help
  /            Search
  Space        Play/Pause
  n / p        Next / previous track
  s / r        Shuffle / cycle repeat
  f            Favorite current track
  +/-          Volume up/down
  Enter        Play selected queue entry
  d / c        Remove selected / clear queue
  x            Dismiss newest notification`,
	RunE: runUI,
}

func init() {
	uiCmd.Flags().BoolVar(&uiNoBridge, "no-bridge", false, "do not start the HTTP bridge")
	rootCmd.AddCommand(uiCmd)
}

// isTerminal reports whether stdout is a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func runUI(cmd *cobra.Command, args []string) error {
	if !isTerminal() {
		return tberrors.WithSuggestion(
			fmt.Errorf("%w: the overlay needs a terminal", tberrors.ErrInvalidInput),
			"Use 'tokyobox serve' to run without a terminal")
	}

	// Logging to stderr would draw over the overlay
	var log logger.LoggerInterface = appLog
	if cfg.Log.File == "" {
		log = logger.Discard()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
	defer stop()

	session, err := newSession(log)
	if err != nil {
		return err
	}
	defer session.Close()

	bridgeDone := make(chan error, 1)
	bridgeCtx, cancelBridge := context.WithCancel(ctx)
	defer cancelBridge()

	if uiNoBridge {
		bridgeDone <- nil
	} else {
		server, err := newBridgeServer(session, log)
		if err != nil {
			return err
		}
		go func() {
			err := server.Start(bridgeCtx)
			if err != nil {
				log.PrintError("bridge", err)
				session.Notify("Bridge stopped: "+err.Error(), notify.Error)
			}
			bridgeDone <- err
		}()
	}

	err = tui.Run(ctx, session, tui.Options{
		SearchDebounce: millis(cfg.UI.SearchDebounce),
	})
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}

	cancelBridge()
	<-bridgeDone
	return err
}
