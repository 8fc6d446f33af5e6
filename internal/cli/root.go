package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tessro/tokyobox/internal/config"
	tberrors "github.com/tessro/tokyobox/internal/errors"
	"github.com/tessro/tokyobox/internal/logger"
)

var (
	cfgFile string
	jsonOut bool
	verbose bool

	cfg    *config.Config
	appLog *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tokyobox",
	Short: "Music player overlay for the game client",
	Long: `Tokyo Box is the music player overlay: it owns the play queue and overlay
state, relays user actions to the game client and renders the overlay in
the terminal.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.tokyoboxrc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", tberrors.ErrInvalidConfig, err)
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	appLog, err = logger.Open(cfg.Log.File, level)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}

	return nil
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if appLog != nil {
		_ = appLog.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, tberrors.Format(err))
		os.Exit(1)
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}
