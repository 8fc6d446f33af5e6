package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tessro/tokyobox/internal/core"
	tberrors "github.com/tessro/tokyobox/internal/errors"
	"github.com/tessro/tokyobox/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage overlay settings",
	Long: `View and change the persisted overlay settings.

Changes are saved to the settings file and, when the overlay is running,
applied to it right away.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting",
	Long: `Set a single setting.

Keys and values:
  theme          dark | light
  locale         pt-BR | en-US
  scale          0.7 - 1.3
  volume         0 - 100
  notifications  true | false
  autoplay       true | false
  shuffle        true | false
  repeat         none | one | all

Examples:
  tokyobox settings set theme light
  tokyobox settings set volume 35`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: settings.Keys(),
	RunE:      runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	RunE:  runSettingsReset,
}

var settingsEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit settings interactively",
	RunE:  runSettingsEdit,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	settingsCmd.AddCommand(settingsEditCmd)
	rootCmd.AddCommand(settingsCmd)
}

// pushSettings applies keys from store to the running overlay. A missing
// overlay is not an error: the file is already up to date.
func pushSettings(ctx context.Context, store *settings.Store, keys ...string) error {
	for _, key := range keys {
		value, ok := store.Get(key)
		if !ok {
			continue
		}
		err := callBridge(ctx, http.MethodPut, "/settings/"+key, map[string]interface{}{"value": value}, nil)
		if errors.Is(err, tberrors.ErrBridgeUnavailable) {
			appLog.Debugf("settings: overlay not running, %s saved to file only", key)
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	store, err := openSettings(appLog)
	if err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(store.All())
	}

	t := NewTable("KEY", "VALUE")
	for _, key := range settings.Keys() {
		value, _ := store.Get(key)
		t.Row(key, fmt.Sprint(value))
	}
	t.Flush()
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]

	store, err := openSettings(appLog)
	if err != nil {
		return err
	}
	if err := store.SetString(key, raw); err != nil {
		return err
	}
	if err := pushSettings(cmd.Context(), store, key); err != nil {
		return err
	}

	value, _ := store.Get(key)
	if JSONOutput() {
		return printJSON(map[string]interface{}{"status": "updated", "key": key, "value": value})
	}
	fmt.Printf("Set %s = %v\n", key, value)
	return nil
}

func runSettingsReset(cmd *cobra.Command, args []string) error {
	store, err := openSettings(appLog)
	if err != nil {
		return err
	}
	if err := store.Reset(); err != nil {
		return err
	}
	if err := pushSettings(cmd.Context(), store, settings.Keys()...); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "reset", "path": store.Path()})
	}
	fmt.Println("Settings restored to defaults")
	return nil
}

// settingsForm holds the string-typed form values for a record.
type settingsForm struct {
	theme         string
	locale        string
	scale         string
	volume        string
	notifications bool
	autoplay      bool
	shuffle       bool
	repeat        string
}

func newSettingsForm(rec settings.Record) *settingsForm {
	return &settingsForm{
		theme:         rec.Theme,
		locale:        rec.Locale,
		scale:         strconv.FormatFloat(rec.Scale, 'f', -1, 64),
		volume:        strconv.Itoa(rec.Volume),
		notifications: rec.Notifications,
		autoplay:      rec.Autoplay,
		shuffle:       rec.Shuffle,
		repeat:        string(rec.Repeat),
	}
}

// record converts the form back, validating every field.
func (f *settingsForm) record() (settings.Record, error) {
	scale, err := strconv.ParseFloat(f.scale, 64)
	if err != nil {
		return settings.Record{}, fmt.Errorf("%w: scale must be a number", tberrors.ErrInvalidSetting)
	}
	volume, err := strconv.Atoi(f.volume)
	if err != nil {
		return settings.Record{}, fmt.Errorf("%w: volume must be a whole number", tberrors.ErrInvalidSetting)
	}

	rec := settings.Record{
		Theme:         f.theme,
		Locale:        f.locale,
		Scale:         scale,
		Volume:        volume,
		Notifications: f.notifications,
		Autoplay:      f.autoplay,
		Shuffle:       f.shuffle,
		Repeat:        core.RepeatMode(f.repeat),
	}
	return rec, rec.Validate()
}

// validateField checks a single typed-in value against an in-memory store.
func validateField(key string) func(string) error {
	return func(raw string) error {
		return settings.NewStore("").SetString(key, raw)
	}
}

func runSettingsEdit(cmd *cobra.Command, args []string) error {
	if !isTerminal() {
		return tberrors.WithSuggestion(
			fmt.Errorf("%w: settings edit needs a terminal", tberrors.ErrInvalidInput),
			"Use 'tokyobox settings set <key> <value>' instead")
	}

	store, err := openSettings(appLog)
	if err != nil {
		return err
	}

	f := newSettingsForm(store.All())
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Theme").
				Options(huh.NewOptions(settings.Themes()...)...).
				Value(&f.theme),
			huh.NewSelect[string]().
				Title("Language").
				Options(huh.NewOptions(settings.Locales()...)...).
				Value(&f.locale),
			huh.NewInput().
				Title("Interface scale").
				Description(fmt.Sprintf("%.1f - %.1f", settings.MinScale, settings.MaxScale)).
				Value(&f.scale).
				Validate(validateField(settings.KeyScale)),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Volume").
				Description("0 - 100").
				Value(&f.volume).
				Validate(validateField(settings.KeyVolume)),
			huh.NewSelect[string]().
				Title("Repeat").
				Options(huh.NewOptions(settings.RepeatModes()...)...).
				Value(&f.repeat),
			huh.NewConfirm().
				Title("Shuffle").
				Value(&f.shuffle),
			huh.NewConfirm().
				Title("Autoplay").
				Value(&f.autoplay),
			huh.NewConfirm().
				Title("Notifications").
				Value(&f.notifications),
		),
	).WithTheme(huh.ThemeCatppuccin())

	if err := form.Run(); err != nil {
		return fmt.Errorf("edit cancelled: %w", err)
	}

	rec, err := f.record()
	if err != nil {
		return err
	}
	if err := store.Replace(rec); err != nil {
		return err
	}
	if err := pushSettings(cmd.Context(), store, settings.Keys()...); err != nil {
		return err
	}

	fmt.Printf("Saved settings to %s\n", store.Path())
	return nil
}
