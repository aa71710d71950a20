package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"todod/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{config.EnvHost, config.EnvPort, config.EnvFileVar, config.EnvAddr, config.EnvMirrorList} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestNew_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.ListenAddr() != "127.0.0.1:8080" {
		t.Errorf("expected 127.0.0.1:8080, got %s", cfg.ListenAddr())
	}
	if cfg.File != "tasks.txt" {
		t.Errorf("expected tasks.txt, got %s", cfg.File)
	}
	if cfg.ServerURL() != "http://127.0.0.1:8080" {
		t.Errorf("unexpected server url %s", cfg.ServerURL())
	}
	if cfg.MirrorList != "" {
		t.Errorf("mirror should be disabled by default, got %q", cfg.MirrorList)
	}
}

func TestNew_EnvFileAndOverride(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	content := "TODOD_PORT=9090\nTODOD_FILE=/var/lib/todod/tasks.txt\nTODOD_MIRROR_LIST=Todo\nTODOD_HOST=0.0.0.0\n"
	if err := os.WriteFile(filepath.Join(dir, config.EnvFile), []byte(content), 0600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv(config.EnvPort, "7070")

	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.Port != 7070 {
		t.Errorf("process environment should win, got port %d", cfg.Port)
	}
	if cfg.File != "/var/lib/todod/tasks.txt" {
		t.Errorf("unexpected file %s", cfg.File)
	}
	if cfg.MirrorList != "Todo" {
		t.Errorf("unexpected mirror list %q", cfg.MirrorList)
	}
	if cfg.ServerURL() != "http://127.0.0.1:7070" {
		t.Errorf("wildcard host should map to loopback, got %s", cfg.ServerURL())
	}
}

func TestNew_InvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvPort, "http")
	if _, err := config.New(t.TempDir()); err == nil {
		t.Error("expected error for invalid port")
	}
}

func TestParsePort(t *testing.T) {
	for _, s := range []string{"0", "65536", "-1", "abc", ""} {
		if _, err := config.ParsePort(s); err == nil {
			t.Errorf("ParsePort(%q): expected error", s)
		}
	}
	if p, err := config.ParsePort(" 8080 "); err != nil || p != 8080 {
		t.Errorf("ParsePort: got %d, %v", p, err)
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := config.DefaultConfigDir(); got != filepath.Join("/tmp/xdg", "todod") {
		t.Errorf("unexpected dir %s", got)
	}
}

func TestPaths(t *testing.T) {
	cfg := &config.Config{Dir: "/etc/todod"}
	if cfg.TokenPath() != "/etc/todod/token.json" {
		t.Errorf("unexpected token path %s", cfg.TokenPath())
	}
	if cfg.OAuthClientPath() != "/etc/todod/oauth_client.json" {
		t.Errorf("unexpected client path %s", cfg.OAuthClientPath())
	}
	if cfg.EnvPath() != "/etc/todod/todod.env" {
		t.Errorf("unexpected env path %s", cfg.EnvPath())
	}
}
