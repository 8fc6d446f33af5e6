package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/tessro/tokyobox/internal/config"
	tberrors "github.com/tessro/tokyobox/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing tokyobox configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration values.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long:  `Open the configuration file in your default editor.`,
	RunE:  runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long:  `Create a new configuration file with default values.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		if JSONOutput() {
			return printJSON(map[string]string{"path": getConfigPath()})
		}
		fmt.Println(getConfigPath())
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Supported keys:
  backend.resource_name    Resource name used to build the backend URL
  backend.base_url         Full backend URL (overrides resource_name)
  backend.timeout          Request timeout in milliseconds
  backend.retries          Attempts per backend call
  backend.retry_wait       Base wait between attempts in milliseconds
  bridge.listen            Bridge listen address
  bridge.metrics           Expose /metrics (true/false)
  bridge.allowed_origins   Comma-separated browser origins allowed to call the bridge
  settings.path            Settings file location
  ui.notification_ttl      Toast lifetime in milliseconds
  ui.search_debounce       Search debounce in milliseconds
  log.level                debug, info, warn or error
  log.file                 Log file path

Examples:
  tokyobox config set backend.resource_name tokyo_box
  tokyobox config set bridge.listen 127.0.0.1:7070`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(cfg)
	}

	// Pretty print as TOML
	encoder := toml.NewEncoder(os.Stdout)
	encoder.Indent = "  "
	return encoder.Encode(cfg)
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return tberrors.WithSuggestion(
			fmt.Errorf("%w at %s", tberrors.ErrConfigNotFound, configPath),
			"Run 'tokyobox config init' first")
	}

	// Find editor
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"nano", "vim", "vi", "notepad"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Set EDITOR environment variable")
	}

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	return editorCmd.Run()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", configPath)
	}

	if err := writeConfigFile(configPath, config.Default()); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{
			"status": "created",
			"path":   configPath,
		})
	}

	fmt.Printf("Created config file: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Set backend.resource_name (or TOKYOBOX_BACKEND_RESOURCE_NAME) to your resource")
	fmt.Println("  2. Run 'tokyobox serve' or 'tokyobox ui' to start the overlay")
	return nil
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultPath()
}

func writeConfigFile(path string, c *config.Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := config.Write(f, c); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// setConfigValue assigns the text value to the dotted key.
func setConfigValue(c *config.Config, key, value string) error {
	atoi := func() (int, error) {
		i, err := strconv.Atoi(value)
		if err != nil {
			return 0, tberrors.Invalid("value must be an integer for %s", key)
		}
		return i, nil
	}

	var err error
	switch key {
	case "backend.resource_name":
		c.Backend.ResourceName = value
	case "backend.base_url":
		c.Backend.BaseURL = value
	case "backend.timeout":
		c.Backend.Timeout, err = atoi()
	case "backend.retries":
		c.Backend.Retries, err = atoi()
	case "backend.retry_wait":
		c.Backend.RetryWait, err = atoi()
	case "bridge.listen":
		c.Bridge.Listen = value
	case "bridge.metrics":
		c.Bridge.Metrics, err = strconv.ParseBool(value)
		if err != nil {
			err = tberrors.Invalid("value must be true or false for %s", key)
		}
	case "bridge.allowed_origins":
		c.Bridge.AllowedOrigins = config.SplitList(value)
	case "settings.path":
		c.Settings.Path = value
	case "ui.notification_ttl":
		c.UI.NotificationTTL, err = atoi()
	case "ui.search_debounce":
		c.UI.SearchDebounce, err = atoi()
	case "log.level":
		c.Log.Level = value
	case "log.file":
		c.Log.File = value
	default:
		return tberrors.WithSuggestion(
			tberrors.Invalid("unknown config key: %s", key),
			"Run 'tokyobox config set --help' for the list of keys")
	}
	if err != nil {
		return err
	}
	return c.Validate()
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return tberrors.WithSuggestion(
			fmt.Errorf("%w at %s", tberrors.ErrConfigNotFound, configPath),
			"Run 'tokyobox config init' first")
	}

	// Environment overrides must not leak into the file
	fileCfg := &config.Config{}
	if _, err := toml.DecodeFile(configPath, fileCfg); err != nil {
		return fmt.Errorf("%w: %w", tberrors.ErrInvalidConfig, err)
	}
	fileCfg.ApplyDefaults()

	if err := setConfigValue(fileCfg, key, value); err != nil {
		return err
	}
	if err := writeConfigFile(configPath, fileCfg); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}
