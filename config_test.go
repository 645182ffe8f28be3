package ihdrs

import (
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://api.ihdrs.example.com"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	base := func() Config {
		cfg := DefaultConfig()
		cfg.API.BaseURL = "https://api.ihdrs.example.com"
		return cfg
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing base url", func(c *Config) { c.API.BaseURL = "" }},
		{"relative base url", func(c *Config) { c.API.BaseURL = "/api" }},
		{"negative timeout", func(c *Config) { c.API.Timeout = -time.Second }},
		{"negative leeway", func(c *Config) { c.Session.ExpiryLeeway = -time.Minute }},
		{"negative buffer", func(c *Config) { c.Notify.BufferSize = -1 }},
		{"relative login route", func(c *Config) { c.Routes.Login = "login" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("Validate accepted a bad config")
			}
		})
	}
}

func TestApplyDefaultsFillsZeroValuesOnly(t *testing.T) {
	cfg := Config{
		API:    APIConfig{BaseURL: "https://api.ihdrs.example.com"},
		Routes: RouteConfig{Login: "/signin"},
		Notify: NotifyConfig{Enabled: true},
	}

	got := applyDefaults(cfg)

	if got.API.Timeout != 30*time.Second {
		t.Fatalf("timeout = %v", got.API.Timeout)
	}
	if got.Routes.Login != "/signin" {
		t.Fatalf("explicit login route overwritten: %q", got.Routes.Login)
	}
	if got.Routes.DefaultLanding != "/dashboard" || got.Routes.ResumeParam != "redirect" {
		t.Fatalf("route defaults = %+v", got.Routes)
	}
	if got.Routes.AdminRole != "ADMIN" {
		t.Fatalf("admin role = %q", got.Routes.AdminRole)
	}
	if got.Notify.BufferSize == 0 {
		t.Fatal("notify buffer not defaulted")
	}
}
