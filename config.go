package ihdrs

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config is the declarative configuration consumed by [Builder.Build]. Zero
// values fall back to the defaults in [DefaultConfig]; explicit values are
// validated and a bad one fails the build rather than being silently fixed.
type Config struct {
	API     APIConfig
	Routes  RouteConfig
	Session SessionConfig
	Notify  NotifyConfig
	Metrics MetricsConfig
}

// APIConfig locates the backend.
type APIConfig struct {
	// BaseURL is the backend origin, e.g. "https://api.ihdrs.example.com".
	// Required.
	BaseURL string
	// Timeout bounds each request. Defaults to 30s to match the backend's
	// recognition worst case.
	Timeout time.Duration
	// UserAgent is sent on every request when non-empty.
	UserAgent string
}

// RouteConfig names the navigation targets the session core emits. These are
// app route paths, not backend endpoints.
type RouteConfig struct {
	// Login is where forced logouts and denied navigations send the user.
	Login string
	// Register is where successful registration redirects.
	Register string
	// DefaultLanding is the fallback destination after login and the
	// safe harbor for role-denied navigations.
	DefaultLanding string
	// ResumeParam is the query parameter carrying the interrupted path,
	// e.g. "/login?redirect=%2Fhistory".
	ResumeParam string
	// AdminRole is the role string granted blanket access.
	AdminRole string
}

// SessionConfig tunes session lifecycle behavior.
type SessionConfig struct {
	// ExpiryLeeway widens the local token expiry check to absorb clock skew
	// between client and backend.
	ExpiryLeeway time.Duration
	// DisableLocalExpiryCheck turns off the pre-flight expiry peek so every
	// validation goes to the backend. Useful when the credential is opaque.
	DisableLocalExpiryCheck bool
}

// NotifyConfig tunes the asynchronous notice dispatcher.
type NotifyConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull sheds notices instead of blocking emitters when the
	// buffer is saturated.
	DropIfFull bool
}

// MetricsConfig tunes the in-process counters.
type MetricsConfig struct {
	Enabled bool
	// EnableLatencyHistograms additionally records validation round-trip
	// latency buckets.
	EnableLatencyHistograms bool
}

// DefaultConfig returns the configuration the IHDRS frontends ship with.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Timeout: 30 * time.Second,
		},
		Routes: RouteConfig{
			Login:          "/login",
			Register:       "/register",
			DefaultLanding: "/dashboard",
			ResumeParam:    "redirect",
			AdminRole:      "ADMIN",
		},
		Notify: NotifyConfig{
			Enabled:    true,
			BufferSize: 64,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// applyDefaults fills zero values from [DefaultConfig] without touching
// anything the caller set explicitly.
func applyDefaults(cfg Config) Config {
	def := DefaultConfig()

	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = def.API.Timeout
	}
	if cfg.Routes.Login == "" {
		cfg.Routes.Login = def.Routes.Login
	}
	if cfg.Routes.Register == "" {
		cfg.Routes.Register = def.Routes.Register
	}
	if cfg.Routes.DefaultLanding == "" {
		cfg.Routes.DefaultLanding = def.Routes.DefaultLanding
	}
	if cfg.Routes.ResumeParam == "" {
		cfg.Routes.ResumeParam = def.Routes.ResumeParam
	}
	if cfg.Routes.AdminRole == "" {
		cfg.Routes.AdminRole = def.Routes.AdminRole
	}
	if cfg.Notify.Enabled && cfg.Notify.BufferSize == 0 {
		cfg.Notify.BufferSize = def.Notify.BufferSize
	}
	return cfg
}

// Validate rejects configurations that cannot produce a working Manager.
func (c Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("config: API.BaseURL is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: API.BaseURL %q is not an absolute URL", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return errors.New("config: API.Timeout must not be negative")
	}
	if c.Session.ExpiryLeeway < 0 {
		return errors.New("config: Session.ExpiryLeeway must not be negative")
	}
	if c.Notify.BufferSize < 0 {
		return errors.New("config: Notify.BufferSize must not be negative")
	}
	for name, route := range map[string]string{
		"Routes.Login":          c.Routes.Login,
		"Routes.Register":       c.Routes.Register,
		"Routes.DefaultLanding": c.Routes.DefaultLanding,
	} {
		if route != "" && !strings.HasPrefix(route, "/") {
			return fmt.Errorf("config: %s %q must start with /", name, route)
		}
	}
	return nil
}
