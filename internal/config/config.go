package config

import (
	"os"
	"time"
)

// Config is the explicit environment the engine runs against. It is
// resolved once in main and handed to constructors; no package reads
// ambient globals.
type Config struct {
	// APIBaseURL is the REST endpoint root, e.g. https://rocketvote.com/api.
	APIBaseURL string
	// PushBaseURL is the websocket endpoint root, e.g. wss://rocketvote.com/ws.
	PushBaseURL string
	// AppBaseURL is the public site shareable poll links point at.
	AppBaseURL string
	// PollInterval is the fallback polling cadence used when the push
	// channel is unavailable.
	PollInterval time.Duration
	// IdentityPath is where the voter's local identity is persisted.
	IdentityPath string
}

func FromEnv() Config {
	cfg := Config{
		APIBaseURL:   envOr("ROCKETVOTE_API_URL", "http://localhost:8080"),
		PushBaseURL:  envOr("ROCKETVOTE_WS_URL", "ws://localhost:8080/ws"),
		AppBaseURL:   envOr("ROCKETVOTE_APP_URL", "http://localhost:8080"),
		PollInterval: 5 * time.Second,
		IdentityPath: envOr("ROCKETVOTE_IDENTITY_FILE", defaultIdentityPath()),
	}
	if raw := os.Getenv("ROCKETVOTE_POLL_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.PollInterval = d
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultIdentityPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".rocketvote.json"
	}
	return home + "/.rocketvote.json"
}
