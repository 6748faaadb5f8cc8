package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all client settings.
type Config struct {
	// ServerURL is the game server's websocket endpoint.
	ServerURL string `json:"server_url"`
	RoomID    string `json:"room_id"`
	Nickname  string `json:"nickname"`

	// AuthToken is an optional JWT sent as a bearer token when dialing. When
	// AuthBaseURL is set the token is validated against its JWKS first.
	AuthToken   string `json:"auth_token"`
	AuthBaseURL string `json:"auth_base_url"`

	HeartbeatIntervalMS int `json:"heartbeat_interval_ms"`
	DialTimeoutMS       int `json:"dial_timeout_ms"`

	// BridgePort is where the presentation bridge listens; 0 disables it.
	BridgePort int `json:"bridge_port"`

	// DatabaseURL enables the snapshot journal when set.
	DatabaseURL string `json:"database_url"`

	FacelessImageURL string `json:"faceless_image_url"`
	LogLevel         string `json:"log_level"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		ServerURL:           "ws://localhost:33507/ws",
		HeartbeatIntervalMS: 3000,
		DialTimeoutMS:       10000,
		BridgePort:          8090,
		FacelessImageURL:    "/static/img/faceless.jpg",
		LogLevel:            "info",
	}
}

// Load reads configuration from an optional config.json file,
// then applies environment variable overrides. Fields not set
// in either source retain their default values.
func Load() *Config {
	return LoadFile("config.json")
}

// LoadFile is Load with an explicit config file path.
func LoadFile(path string) *Config {
	cfg := Defaults()

	if f, err := os.Open(path); err == nil {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			slog.Warn("failed to parse config file", "tag", "config", "path", path, "err", err)
		}
	}

	overrideString(&cfg.ServerURL, "SERVER_URL")
	overrideString(&cfg.RoomID, "ROOM_ID")
	overrideString(&cfg.Nickname, "NICKNAME")
	overrideString(&cfg.AuthToken, "AUTH_TOKEN")
	overrideString(&cfg.AuthBaseURL, "AUTH_BASE_URL")
	overrideInt(&cfg.HeartbeatIntervalMS, "HEARTBEAT_INTERVAL_MS")
	overrideInt(&cfg.DialTimeoutMS, "DIAL_TIMEOUT_MS")
	overrideInt(&cfg.BridgePort, "BRIDGE_PORT")
	overrideString(&cfg.DatabaseURL, "DATABASE_URL")
	overrideString(&cfg.FacelessImageURL, "FACELESS_IMAGE_URL")
	overrideString(&cfg.LogLevel, "LOG_LEVEL")

	return cfg
}

// HeartbeatInterval returns the heartbeat period; zero or negative disables it.
func (c *Config) HeartbeatInterval() time.Duration {
	if c.HeartbeatIntervalMS <= 0 {
		return 0
	}
	return time.Duration(c.HeartbeatIntervalMS) * time.Millisecond
}

// DialTimeout returns the connect timeout.
func (c *Config) DialTimeout() time.Duration {
	return time.Duration(c.DialTimeoutMS) * time.Millisecond
}

// Level maps LogLevel to a slog level, defaulting to info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func overrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*field = n
		} else {
			slog.Warn("invalid integer in environment", "tag", "config", "key", envKey, "value", val)
		}
	}
}

func overrideString(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
