package app

import (
	"os"
	"path/filepath"
	"testing"

	"cleardir/internal/config"
)

func TestGetDefaults(t *testing.T) {
	t.Run("uses env vars when set", func(t *testing.T) {
		t.Setenv("CLEARDIR_CONFIG_PATH", "/custom/config.toml")
		t.Setenv("CLEARDIR_HOME", "/custom/cleardir")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		if defaults["config_path"] != "/custom/config.toml" {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], "/custom/config.toml")
		}
		if defaults["base_dir"] != "/custom/cleardir" {
			t.Errorf("base_dir = %q, want %q", defaults["base_dir"], "/custom/cleardir")
		}
		if defaults["log_dir"] != "/custom/cleardir/log" {
			t.Errorf("log_dir = %q, want %q", defaults["log_dir"], "/custom/cleardir/log")
		}
	})

	t.Run("falls back to home dir defaults", func(t *testing.T) {
		t.Setenv("CLEARDIR_CONFIG_PATH", "")
		t.Setenv("CLEARDIR_HOME", "")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		homeDir, _ := os.UserHomeDir()

		wantConfig := filepath.Join(homeDir, ".config", "cleardir.toml")
		if defaults["config_path"] != wantConfig {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], wantConfig)
		}

		wantBase := filepath.Join(homeDir, ".local", "share", "cleardir")
		if defaults["base_dir"] != wantBase {
			t.Errorf("base_dir = %q, want %q", defaults["base_dir"], wantBase)
		}
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing default file yields defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cleardir.toml")

		cfg, err := LoadConfig(path, false)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Journal.Type != "none" {
			t.Errorf("Journal.Type = %q, want %q", cfg.Journal.Type, "none")
		}
		if cfg.LogDir != "" {
			t.Errorf("LogDir = %q, want empty", cfg.LogDir)
		}
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cleardir.toml")

		if _, err := LoadConfig(path, true); err == nil {
			t.Fatal("LoadConfig() expected error for missing explicit config")
		}
	})

	t.Run("reads existing file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "cleardir.toml")
		if err := config.Init(path, config.NewConfig(dir)); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		cfg, err := LoadConfig(path, false)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Journal.Type != "sqlite" {
			t.Errorf("Journal.Type = %q, want %q", cfg.Journal.Type, "sqlite")
		}
		if cfg.LogDir != filepath.Join(dir, "log") {
			t.Errorf("LogDir = %q, want %q", cfg.LogDir, filepath.Join(dir, "log"))
		}
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cleardir.toml")
		if err := os.WriteFile(path, []byte("journal = [unterminated"), 0644); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadConfig(path, false); err == nil {
			t.Fatal("LoadConfig() expected error for malformed config")
		}
	})
}
