package config

// Config is the root configuration structure.
type Config struct {
	Backend  BackendConfig  `toml:"backend"`
	Bridge   BridgeConfig   `toml:"bridge"`
	Settings SettingsConfig `toml:"settings"`
	UI       UIConfig       `toml:"ui"`
	Log      LogConfig      `toml:"log"`
}

// BackendConfig holds settings for calls to the host backend.
type BackendConfig struct {
	ResourceName string `toml:"resource_name"`
	BaseURL      string `toml:"base_url"`
	Timeout      int    `toml:"timeout"`
	Retries      int    `toml:"retries"`
	RetryWait    int    `toml:"retry_wait"`
}

// BridgeConfig holds settings for the local HTTP bridge.
type BridgeConfig struct {
	Listen  string `toml:"listen"`
	Metrics bool   `toml:"metrics"`
	// AllowedOrigins are the browser origins allowed to call the bridge.
	// "*" allows any origin.
	AllowedOrigins []string `toml:"allowed_origins"`
}

// SettingsConfig locates the persisted overlay settings.
type SettingsConfig struct {
	Path string `toml:"path"`
}

// UIConfig holds terminal overlay settings.
type UIConfig struct {
	NotificationTTL int `toml:"notification_ttl"`
	SearchDebounce  int `toml:"search_debounce"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}
