package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAndServerURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "server:\n  host: localhost\n  port: 8080\nvault_store:\n  path: /home/user/.vaults\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Host != "localhost" || cfg.Server.Port != 8080 {
		t.Fatalf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.VaultStore.Path != "/home/user/.vaults" {
		t.Fatalf("unexpected vault store path: %q", cfg.VaultStore.Path)
	}
	if got, want := cfg.ServerURL(), "http://localhost:8080"; got != want {
		t.Fatalf("ServerURL() = %q, want %q", got, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path/config.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
