package auth

import (
	"fmt"
	"time"

	"team-task-backend/internal/config"
)

// SessionConfig holds the settings used to issue and read session tokens
type SessionConfig struct {
	Secret       string
	TTL          time.Duration
	CookieName   string
	CookieSecure bool
	Issuer       string
}

// NewSessionConfig derives the session settings from the application config
func NewSessionConfig(cfg *config.Config) *SessionConfig {
	return &SessionConfig{
		Secret:       cfg.JWTSecret,
		TTL:          cfg.SessionTTL,
		CookieName:   cfg.SessionCookieName,
		CookieSecure: cfg.CookieSecure,
		Issuer:       "team-task-backend",
	}
}

// Validate checks that the session config is usable
func (c *SessionConfig) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if c.TTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}
	if c.CookieName == "" {
		return fmt.Errorf("session cookie name is required")
	}
	return nil
}
