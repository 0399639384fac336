//go:build !integration

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

const minimalConfig = `
database:
  url: postgres://localhost/talkpdf
redis:
  url: localhost:6379
auth:
  jwt_secret: secret
payment:
  flutterwave:
    secret_key: sk-test
`

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalConfig), false)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout != 15*time.Second {
		t.Errorf("request timeout = %s", cfg.Server.RequestTimeout)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("log defaults = %+v", cfg.Log)
	}
	if cfg.RateLimit.PerMinute != 10 {
		t.Errorf("rate limit = %d", cfg.RateLimit.PerMinute)
	}
	if cfg.Sweeper.Interval != time.Hour || cfg.Sweeper.PendingTTL != 24*time.Hour {
		t.Errorf("sweeper defaults = %+v", cfg.Sweeper)
	}
	if cfg.Payment.Flutterwave.BaseURL == "" {
		t.Error("flutterwave base url default missing")
	}
	if cfg.Runtime.Dev {
		t.Error("dev must be off")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalConfig+`
server:
  port: 9090
  request_timeout: 5s
sweeper:
  pending_ttl: 48h
`), true)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 9090 || cfg.Server.RequestTimeout != 5*time.Second {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Sweeper.PendingTTL != 48*time.Hour {
		t.Errorf("pending ttl = %s", cfg.Sweeper.PendingTTL)
	}
	if !cfg.Runtime.Dev {
		t.Error("dev flag not propagated")
	}
}

func TestLoadConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing database", `
redis: {url: localhost:6379}
auth: {jwt_secret: s}
payment: {flutterwave: {secret_key: k}}
`},
		{"missing redis", `
database: {url: postgres://x}
auth: {jwt_secret: s}
payment: {flutterwave: {secret_key: k}}
`},
		{"missing jwt secret", `
database: {url: postgres://x}
redis: {url: localhost:6379}
payment: {flutterwave: {secret_key: k}}
`},
		{"missing gateway key", `
database: {url: postgres://x}
redis: {url: localhost:6379}
auth: {jwt_secret: s}
`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, c.body), false); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), false); err == nil {
			t.Error("expected read error")
		}
	})
}
