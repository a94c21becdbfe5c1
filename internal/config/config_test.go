package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"curator/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantDatabase := filepath.Join(tempHome, ".local", "share", "curator", "curator.db")
	if cfg.Paths.Database != wantDatabase {
		t.Fatalf("unexpected database path: got %q want %q", cfg.Paths.Database, wantDatabase)
	}
	if cfg.Paths.VaultDir != filepath.Join(tempHome, "vault", "reading-list") {
		t.Fatalf("unexpected vault dir: %q", cfg.Paths.VaultDir)
	}
	if cfg.Fetch.LookbackDays != 7 {
		t.Fatalf("unexpected lookback days: %d", cfg.Fetch.LookbackDays)
	}
	if cfg.Fetch.YtdlpBinary != "yt-dlp" {
		t.Fatalf("unexpected yt-dlp binary: %q", cfg.Fetch.YtdlpBinary)
	}
	if cfg.Rating.Pattern != "rate_content" {
		t.Fatalf("unexpected fabric pattern: %q", cfg.Rating.Pattern)
	}
	if cfg.Rating.DelaySeconds != 2.0 {
		t.Fatalf("unexpected rating delay: %v", cfg.Rating.DelaySeconds)
	}
	if cfg.Notifications.Enabled {
		t.Fatal("expected notifications disabled by default")
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("unexpected log format: %q", cfg.Logging.Format)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}

	for _, dir := range []string{filepath.Dir(cfg.Paths.Database), cfg.Paths.LogDir, cfg.Paths.VaultDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}

	if filepath.Dir(cfg.LockPath()) != filepath.Dir(cfg.Paths.Database) {
		t.Fatalf("expected lock file beside database, got %q", cfg.LockPath())
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "curator.toml")

	type payload struct {
		Paths struct {
			Database string `toml:"database"`
			VaultDir string `toml:"vault_dir"`
		} `toml:"paths"`
		Fetch struct {
			LookbackDays int `toml:"lookback_days"`
		} `toml:"fetch"`
		Rating struct {
			Model        string  `toml:"model"`
			DelaySeconds float64 `toml:"delay_seconds"`
		} `toml:"rating"`
	}
	custom := payload{}
	custom.Paths.Database = filepath.Join(tempDir, "curator.db")
	custom.Paths.VaultDir = filepath.Join(tempDir, "vault")
	custom.Fetch.LookbackDays = 14
	custom.Rating.Model = "claude-sonnet"
	custom.Rating.DelaySeconds = 0.5
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.Database != custom.Paths.Database {
		t.Fatalf("expected database override, got %q", cfg.Paths.Database)
	}
	if cfg.Fetch.LookbackDays != 14 {
		t.Fatalf("expected lookback override, got %d", cfg.Fetch.LookbackDays)
	}
	if cfg.Rating.Model != "claude-sonnet" {
		t.Fatalf("expected model override, got %q", cfg.Rating.Model)
	}
	if cfg.Rating.DelaySeconds != 0.5 {
		t.Fatalf("expected delay override, got %v", cfg.Rating.DelaySeconds)
	}
	if cfg.Rating.Pattern != "rate_content" {
		t.Fatalf("expected pattern default to survive override, got %q", cfg.Rating.Pattern)
	}
}

func TestEnvVarSuppliesNtfyTopic(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("CURATOR_NTFY_TOPIC", "https://ntfy.sh/env-topic")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Notifications.NtfyTopic != "https://ntfy.sh/env-topic" {
		t.Fatalf("expected ntfy topic from env, got %q", cfg.Notifications.NtfyTopic)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "vault_dir") {
		t.Fatalf("sample config missing vault_dir: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if !strings.Contains(cfg.Paths.Database, "curator") {
		t.Fatalf("expected database path to contain curator, got %q", cfg.Paths.Database)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Fetch.TimeoutSeconds = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive fetch timeout")
	}

	cfg = config.Default()
	cfg.Rating.Pattern = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty fabric pattern")
	}

	cfg = config.Default()
	cfg.Rating.DelaySeconds = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative rating delay")
	}

	cfg = config.Default()
	cfg.Digest.WindowDays = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive digest window")
	}

	cfg = config.Default()
	cfg.Notifications.Enabled = true
	cfg.Notifications.NtfyTopic = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when notifications enabled without topic")
	}

	cfg = config.Default()
	cfg.Paths.VaultDir = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing vault dir")
	}
}
