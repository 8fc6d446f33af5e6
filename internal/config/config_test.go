package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFromAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[backend]
resource_name = "phone_box"

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Backend.ResourceName != "phone_box" {
		t.Errorf("ResourceName = %q, want %q", cfg.Backend.ResourceName, "phone_box")
	}
	if cfg.Backend.Retries != 3 {
		t.Errorf("Retries = %d, want 3", cfg.Backend.Retries)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if got := cfg.BackendURL(); got != "https://phone_box" {
		t.Errorf("BackendURL() = %q, want https://phone_box", got)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TOKYOBOX_BACKEND_BASE_URL", "http://127.0.0.1:30120/tokyo_box")
	t.Setenv("TOKYOBOX_BACKEND_RETRIES", "5")
	t.Setenv("TOKYOBOX_BRIDGE_LISTEN", "127.0.0.1:9000")

	cfg := Default()
	applyEnvOverrides(cfg)

	if cfg.BackendURL() != "http://127.0.0.1:30120/tokyo_box" {
		t.Errorf("BackendURL() = %q", cfg.BackendURL())
	}
	if cfg.Backend.Retries != 5 {
		t.Errorf("Retries = %d, want 5", cfg.Backend.Retries)
	}
	if cfg.Bridge.Listen != "127.0.0.1:9000" {
		t.Errorf("Listen = %q", cfg.Bridge.Listen)
	}
}

func TestAllowedOriginsDefault(t *testing.T) {
	cfg := &Config{Backend: BackendConfig{ResourceName: "my_box"}}
	cfg.ApplyDefaults()
	if len(cfg.Bridge.AllowedOrigins) != 1 || cfg.Bridge.AllowedOrigins[0] != "https://cfx-nui-my_box" {
		t.Errorf("AllowedOrigins = %v, want the resource's UI origin", cfg.Bridge.AllowedOrigins)
	}

	t.Setenv("TOKYOBOX_BRIDGE_ALLOWED_ORIGINS", "https://a.test, ,http://b.test")
	cfg = Default()
	applyEnvOverrides(cfg)
	if got := cfg.Bridge.AllowedOrigins; len(got) != 2 || got[0] != "https://a.test" || got[1] != "http://b.test" {
		t.Errorf("AllowedOrigins = %v", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "bad scheme",
			mutate:  func(c *Config) { c.Backend.BaseURL = "ftp://host" },
			wantErr: "backend: invalid base_url",
		},
		{
			name:    "too many retries",
			mutate:  func(c *Config) { c.Backend.Retries = 50 },
			wantErr: "retries must be between 0 and 10",
		},
		{
			name:    "bad listen address",
			mutate:  func(c *Config) { c.Bridge.Listen = "nope" },
			wantErr: "bridge: invalid listen address",
		},
		{
			name:    "origin with path",
			mutate:  func(c *Config) { c.Bridge.AllowedOrigins = []string{"https://example.com/app"} },
			wantErr: "invalid allowed origin",
		},
		{
			name:    "origin without scheme",
			mutate:  func(c *Config) { c.Bridge.AllowedOrigins = []string{"cfx-nui-tokyo_box"} },
			wantErr: "invalid allowed origin",
		},
		{
			name:   "any origin",
			mutate: func(c *Config) { c.Bridge.AllowedOrigins = []string{"*"} },
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: "invalid log level: loud",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Default()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "# tokyobox configuration") {
		t.Errorf("Write() output missing header: %q", buf.String())
	}

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Bridge.Listen != Default().Bridge.Listen {
		t.Errorf("Listen = %q after round trip", cfg.Bridge.Listen)
	}
}
