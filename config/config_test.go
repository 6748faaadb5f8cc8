package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.ServerURL != "ws://localhost:33507/ws" {
		t.Errorf("unexpected ServerURL %q", cfg.ServerURL)
	}
	if cfg.HeartbeatIntervalMS != 3000 {
		t.Errorf("expected HeartbeatIntervalMS=3000, got %d", cfg.HeartbeatIntervalMS)
	}
	if cfg.BridgePort != 8090 {
		t.Errorf("expected BridgePort=8090, got %d", cfg.BridgePort)
	}
	if cfg.FacelessImageURL != "/static/img/faceless.jpg" {
		t.Errorf("unexpected FacelessImageURL %q", cfg.FacelessImageURL)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("journal should be off by default, got %q", cfg.DatabaseURL)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_URL", "ws://example.test/ws")
	t.Setenv("ROOM_ID", "abc123")
	t.Setenv("HEARTBEAT_INTERVAL_MS", "500")
	t.Setenv("BRIDGE_PORT", "0")

	cfg := LoadFile(filepath.Join(t.TempDir(), "missing.json"))

	if cfg.ServerURL != "ws://example.test/ws" {
		t.Errorf("expected ServerURL override, got %q", cfg.ServerURL)
	}
	if cfg.RoomID != "abc123" {
		t.Errorf("expected RoomID=abc123, got %q", cfg.RoomID)
	}
	if cfg.HeartbeatInterval() != 500*time.Millisecond {
		t.Errorf("expected 500ms heartbeat, got %v", cfg.HeartbeatInterval())
	}
	if cfg.BridgePort != 0 {
		t.Errorf("expected BridgePort=0, got %d", cfg.BridgePort)
	}
	// Non-overridden fields should remain default
	if cfg.DialTimeoutMS != 10000 {
		t.Errorf("expected DialTimeoutMS=10000 (default), got %d", cfg.DialTimeoutMS)
	}
}

func TestLoadWithInvalidEnv(t *testing.T) {
	t.Setenv("HEARTBEAT_INTERVAL_MS", "invalid")

	cfg := LoadFile(filepath.Join(t.TempDir(), "missing.json"))

	if cfg.HeartbeatIntervalMS != 3000 {
		t.Errorf("expected HeartbeatIntervalMS=3000 (default) with invalid env, got %d", cfg.HeartbeatIntervalMS)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"room_id": "fromfile", "nickname": "Ada", "log_level": "debug"}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NICKNAME", "Grace")

	cfg := LoadFile(path)

	if cfg.RoomID != "fromfile" {
		t.Errorf("expected RoomID from file, got %q", cfg.RoomID)
	}
	if cfg.Nickname != "Grace" {
		t.Errorf("env should win over file, got %q", cfg.Nickname)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.Level())
	}
	if cfg.HeartbeatIntervalMS != 3000 {
		t.Errorf("fields missing from the file should keep defaults, got %d", cfg.HeartbeatIntervalMS)
	}
}

func TestHeartbeatDisabled(t *testing.T) {
	cfg := Defaults()
	cfg.HeartbeatIntervalMS = 0
	if cfg.HeartbeatInterval() != 0 {
		t.Errorf("expected disabled heartbeat, got %v", cfg.HeartbeatInterval())
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.in}
		if got := cfg.Level(); got != tt.want {
			t.Errorf("Level(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
