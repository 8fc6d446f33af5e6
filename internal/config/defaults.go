package config

// NUIOrigin returns the browser origin the game client serves a resource's
// UI from.
func NUIOrigin(resource string) string {
	return "https://cfx-nui-" + resource
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			ResourceName: "tokyo_box",
			Timeout:      10000,
			Retries:      3,
			RetryWait:    1000,
		},
		Bridge: BridgeConfig{
			Listen:         "127.0.0.1:7878",
			Metrics:        true,
			AllowedOrigins: []string{NUIOrigin("tokyo_box")},
		},
		UI: UIConfig{
			NotificationTTL: 5000,
			SearchDebounce:  300,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Backend
	if c.Backend.ResourceName == "" {
		c.Backend.ResourceName = d.Backend.ResourceName
	}
	if c.Backend.Timeout == 0 {
		c.Backend.Timeout = d.Backend.Timeout
	}
	if c.Backend.Retries == 0 {
		c.Backend.Retries = d.Backend.Retries
	}
	if c.Backend.RetryWait == 0 {
		c.Backend.RetryWait = d.Backend.RetryWait
	}

	// Bridge
	if c.Bridge.Listen == "" {
		c.Bridge.Listen = d.Bridge.Listen
	}
	if len(c.Bridge.AllowedOrigins) == 0 {
		c.Bridge.AllowedOrigins = []string{NUIOrigin(c.Backend.ResourceName)}
	}

	// UI
	if c.UI.NotificationTTL == 0 {
		c.UI.NotificationTTL = d.UI.NotificationTTL
	}
	if c.UI.SearchDebounce == 0 {
		c.UI.SearchDebounce = d.UI.SearchDebounce
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// BackendURL returns the base URL for backend calls. When no explicit URL is
// configured it is derived from the resource name, the way the game client
// routes overlay callbacks.
func (c *Config) BackendURL() string {
	if c.Backend.BaseURL != "" {
		return c.Backend.BaseURL
	}
	return "https://" + c.Backend.ResourceName
}
