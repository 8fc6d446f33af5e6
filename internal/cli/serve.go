package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the overlay headless",
	Long: `Run the overlay session behind the HTTP bridge without a terminal UI.

The game client pushes state to POST /message; the other tokyobox commands
talk to the same bridge. Stop with Ctrl+C.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "", "bridge listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveListen != "" {
		cfg.Bridge.Listen = serveListen
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session, err := newSession(appLog)
	if err != nil {
		return err
	}
	defer session.Close()

	server, err := newBridgeServer(session, appLog)
	if err != nil {
		return err
	}

	if JSONOutput() {
		_ = printJSON(map[string]string{"status": "listening", "listen": server.Addr()})
	} else {
		fmt.Printf("Tokyo Box listening on %s\n", server.Addr())
	}

	return server.Start(ctx)
}
