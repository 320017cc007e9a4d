package config

import (
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SelectedProvider != "gemini" {
		t.Fatalf("provider = %q, want gemini", cfg.SelectedProvider)
	}
	if cfg.Providers == nil {
		t.Fatal("providers map not initialized")
	}
	if cfg.CLIPath != "" || cfg.DefaultTimeoutMs != 0 {
		t.Fatalf("unexpected executor defaults: %+v", cfg)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	cfg.CLIPath = "/opt/appknox/bin/appknox"
	cfg.DefaultTimeoutMs = 30000
	cfg.SelectedProvider = "anthropic"
	cfg.SetAPIKey("anthropic", "key-123")

	if err := SaveConfig(cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.CLIPath != cfg.CLIPath {
		t.Fatalf("cli_path = %q", loaded.CLIPath)
	}
	if loaded.DefaultTimeoutMs != 30000 {
		t.Fatalf("default_timeout_ms = %d", loaded.DefaultTimeoutMs)
	}
	if loaded.GetAPIKey("anthropic") != "key-123" {
		t.Fatal("api key did not round-trip")
	}
	if loaded.GetAPIKey("gemini") != "" {
		t.Fatal("unexpected key for unset provider")
	}
}
