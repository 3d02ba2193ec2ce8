package core

import (
	"os"
	"strconv"
	"time"
)

// Config carries the security tunables for the identity core.
type Config struct {
	LockoutThreshold int           // failed attempts before the account locks
	LockoutDuration  time.Duration // how long a triggered lock holds
	SessionTTL       time.Duration // fixed, non-sliding session lifetime
	ResetTokenTTL    time.Duration // password reset token lifetime
	TokenBytes       int           // entropy of generated opaque tokens
}

func DefaultConfig() Config {
	return Config{
		LockoutThreshold: 5,
		LockoutDuration:  15 * time.Minute,
		SessionTTL:       24 * time.Hour,
		ResetTokenTTL:    time.Hour,
		TokenBytes:       32,
	}
}

// ConfigFromEnv returns DefaultConfig overridden by environment variables.
// Unparseable values fall back to the default.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if n, ok := envInt("LOCKOUT_THRESHOLD"); ok {
		cfg.LockoutThreshold = n
	}
	if d, ok := envDuration("LOCKOUT_DURATION"); ok {
		cfg.LockoutDuration = d
	}
	if d, ok := envDuration("SESSION_TTL"); ok {
		cfg.SessionTTL = d
	}
	if d, ok := envDuration("RESET_TOKEN_TTL"); ok {
		cfg.ResetTokenTTL = d
	}
	if n, ok := envInt("TOKEN_BYTES"); ok {
		cfg.TokenBytes = n
	}
	return cfg
}

func envInt(key string) (int, bool) {
	s := os.Getenv(key)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func envDuration(key string) (time.Duration, bool) {
	s := os.Getenv(key)
	if s == "" {
		return 0, false
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}
