package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/garnizeh/dayhire/internal/config"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr :8080 got %q", cfg.Addr)
	}
	if cfg.DatabasePath != "dayhire.db" {
		t.Fatalf("expected default database path got %q", cfg.DatabasePath)
	}
	if cfg.APITimeout != 15*time.Second {
		t.Fatalf("expected 15s timeout got %v", cfg.APITimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got: %v", err)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	os.Setenv("DAYHIRE_ADDR", ":9999")
	defer os.Unsetenv("DAYHIRE_ADDR")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != ":9999" {
		t.Fatalf("expected env addr :9999 got %q", cfg.Addr)
	}
}

func TestLoadConfig_YAMLOverridesEnv(t *testing.T) {
	os.Setenv("DAYHIRE_ADDR", ":9999")
	defer os.Unsetenv("DAYHIRE_ADDR")

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "addr: \":7070\"\ndatabase_path: \"other.db\"\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Fatalf("expected yaml addr :7070 got %q", cfg.Addr)
	}
	if cfg.DatabasePath != "other.db" {
		t.Fatalf("expected yaml database path got %q", cfg.DatabasePath)
	}
	// values the file does not set keep their defaults
	if cfg.JWTSecret == "" {
		t.Fatalf("expected default jwt secret to survive")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := config.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestValidate_RejectsEmptyFields(t *testing.T) {
	base := config.Config{
		Addr:          ":8080",
		JWTSecret:     "secret",
		APITimeout:    5 * time.Second,
		DatabasePath:  "dayhire.db",
		TokenDuration: time.Hour,
	}

	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"empty addr", func(c *config.Config) { c.Addr = "" }},
		{"empty jwt secret", func(c *config.Config) { c.JWTSecret = "" }},
		{"empty database path", func(c *config.Config) { c.DatabasePath = "" }},
		{"zero timeout", func(c *config.Config) { c.APITimeout = 0 }},
		{"zero token duration", func(c *config.Config) { c.TokenDuration = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected Validate to fail")
			}
		})
	}
}
