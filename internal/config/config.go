package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	APIBaseURL      string
	RequestTimeout  time.Duration
	TokenStorePath  string
	CacheRetention  time.Duration
	StubHTTPAddr    string
	ShutdownTimeout time.Duration
}

// FromEnv builds Config with defaults, overridden by environment variables.
func FromEnv() Config {
	return Config{
		APIBaseURL:      envOrDefault("API_BASE_URL", "http://localhost:8080/api"),
		RequestTimeout:  envDuration("REQUEST_TIMEOUT_SECONDS", 30*time.Second),
		TokenStorePath:  envOrDefault("TOKEN_STORE_PATH", defaultTokenPath()),
		CacheRetention:  envDuration("CACHE_RETENTION_SECONDS", 60*time.Second),
		StubHTTPAddr:    envOrDefault("STUB_HTTP_ADDR", ":8080"),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
	}
}

func defaultTokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".admindash-tokens.json"
	}
	return dir + "/admindash/tokens.json"
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}
