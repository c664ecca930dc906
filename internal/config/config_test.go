package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.API.BaseURL != "https://ruletabackcardroid.vercel.app" {
		t.Fatalf("base url = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Fatalf("timeout = %v", cfg.API.Timeout)
	}
	if cfg.Countdown.Interval != time.Second {
		t.Fatalf("countdown interval = %v", cfg.Countdown.Interval)
	}
	if cfg.Redeem.WhatsAppNumber != "51932426069" {
		t.Fatalf("whatsapp number = %q", cfg.Redeem.WhatsAppNumber)
	}
	if cfg.Stub.InitialSpins != 3 {
		t.Fatalf("initial spins = %d", cfg.Stub.InitialSpins)
	}
}

func TestLoadReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	content := "api:\n  baseurl: http://localhost:4000/\n  timeout: 2s\nlocale: en\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:4000" {
		t.Fatalf("base url = %q, want trailing slash trimmed", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 2*time.Second {
		t.Fatalf("timeout = %v", cfg.API.Timeout)
	}
	if cfg.Locale != "en" {
		t.Fatalf("locale = %q", cfg.Locale)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("RULETA_STUB_PORT", "5050")
	t.Setenv("RULETA_TRACKING_ENABLED", "true")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Stub.Port != "5050" {
		t.Fatalf("stub port = %q", cfg.Stub.Port)
	}
	if !cfg.Tracking.Enabled {
		t.Fatal("expected tracking enabled from environment")
	}
}

func TestLoadDotEnvMissingFileIsIgnored(t *testing.T) {
	if err := LoadDotEnv(t.TempDir()); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
}

func TestLoadDotEnvSetsVariables(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("RULETA_TEST_DOTENV=hola\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("RULETA_TEST_DOTENV") })

	if err := LoadDotEnv(dir); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	if got := os.Getenv("RULETA_TEST_DOTENV"); got != "hola" {
		t.Fatalf("RULETA_TEST_DOTENV = %q", got)
	}
}
