package cli

import (
	"fmt"
	"time"

	"github.com/tessro/tokyobox/internal/backend"
	"github.com/tessro/tokyobox/internal/bridge"
	"github.com/tessro/tokyobox/internal/logger"
	"github.com/tessro/tokyobox/internal/notify"
	"github.com/tessro/tokyobox/internal/overlay"
	"github.com/tessro/tokyobox/internal/settings"
)

func millis(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// newBackendClient builds the host client from config.
func newBackendClient(log logger.LoggerInterface) *backend.Client {
	c := backend.New(backend.Options{
		BaseURL:   cfg.BackendURL(),
		Resource:  cfg.Backend.ResourceName,
		Timeout:   millis(cfg.Backend.Timeout),
		Retries:   cfg.Backend.Retries,
		RetryWait: millis(cfg.Backend.RetryWait),
	})
	if Verbose() {
		c.SetVerbose(true, log.Debugf)
	}
	return c
}

// openSettings opens the persisted settings store. Entries that fail
// validation are logged and replaced by defaults.
func openSettings(log logger.LoggerInterface) (*settings.Store, error) {
	path, err := cfg.SettingsPath()
	if err != nil {
		return nil, err
	}

	store, result, err := settings.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if result.HasErrors() {
		log.Warnf("settings: %s", result.ErrorSummary())
	}
	return store, nil
}

// newSession wires the overlay session from config.
func newSession(log logger.LoggerInterface) (*overlay.Session, error) {
	store, err := openSettings(log)
	if err != nil {
		return nil, err
	}

	return overlay.New(overlay.Options{
		Backend:       newBackendClient(log),
		Settings:      store,
		Notifications: notify.NewCenter(millis(cfg.UI.NotificationTTL)),
		Logger:        log,
	})
}

// newBridgeServer puts the HTTP bridge in front of session.
func newBridgeServer(session *overlay.Session, log logger.LoggerInterface) (*bridge.Server, error) {
	return bridge.New(session, bridge.Options{
		Listen:         cfg.Bridge.Listen,
		Metrics:        cfg.Bridge.Metrics,
		AllowedOrigins: cfg.Bridge.AllowedOrigins,
		Debug:          Verbose(),
		Logger:         log,
	})
}
