package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cm := NewConfigurationManager(t.TempDir())
	cfg, err := cm.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:3000/api" {
		t.Fatalf("unexpected base URL %q", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 10*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.APITimeout)
	}
	if _, ok := cfg.Permissions.AllCode(); !ok {
		t.Fatal("default permission map must carry the sentinel")
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	content := `api:
  base_url: https://tasks.example.com/api
  timeout_seconds: 3
permissions: "user_management:10,all:1000"
google:
  credentials_file: /etc/taskctl/credentials.json
`
	if err := os.WriteFile(filepath.Join(dir, ".taskctl.yaml"), []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := NewConfigurationManager(dir).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIBaseURL != "https://tasks.example.com/api" {
		t.Fatalf("unexpected base URL %q", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 3*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.APITimeout)
	}
	if code, ok := cfg.Permissions.CodeFor("user_management"); !ok || code != 10 {
		t.Fatalf("expected user_management=10, got %d (%v)", code, ok)
	}
	if cfg.GoogleCredentialsFile != "/etc/taskctl/credentials.json" {
		t.Fatalf("unexpected credentials file %q", cfg.GoogleCredentialsFile)
	}
}

func TestLoadConfig_BadPermissions(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".taskctl.yaml"), []byte("permissions: \"oops\"\n"), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := NewConfigurationManager(dir).Load(); err == nil {
		t.Fatal("expected error for malformed permission map")
	}
}
