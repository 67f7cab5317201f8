package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv("MYSQL_DSN", "")
	t.Setenv("CONSOLE_CONFIG", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when MYSQL_DSN is unset")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/console")
	t.Setenv("CONSOLE_CONFIG", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("WATCHDOG_ENABLED", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.HTTPAddr != ":3000" {
		t.Errorf("HTTPAddr = %q, want :3000", cfg.HTTPAddr)
	}
	if cfg.JWT.Enabled() {
		t.Error("auth should be disabled without a secret")
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if !cfg.Watchdog.Enabled {
		t.Error("watchdog should default to enabled")
	}
	if cfg.Watchdog.StaleAfterSec != 3600 {
		t.Errorf("StaleAfterSec = %d", cfg.Watchdog.StaleAfterSec)
	}
}

func TestLoadEnvBeatsINI(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "console.ini")
	content := "[http]\naddr = :9999\n\n[mysql]\ndsn = ini:ini@tcp(db:3306)/console\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("CONSOLE_CONFIG", path)
	t.Setenv("MYSQL_DSN", "env:env@tcp(localhost:3306)/console")
	t.Setenv("HTTP_ADDR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// ENV wins over INI for the DSN; INI wins over the default for addr.
	if cfg.MySQL.DSN != "env:env@tcp(localhost:3306)/console" {
		t.Errorf("DSN = %q", cfg.MySQL.DSN)
	}
	if cfg.HTTPAddr != ":9999" {
		t.Errorf("HTTPAddr = %q, want :9999", cfg.HTTPAddr)
	}
}
