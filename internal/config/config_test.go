package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "client-secret")
	t.Setenv("SECRET_KEY", "0123456789abcdef0123456789abcdef")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Addr() != "0.0.0.0:8000" {
		t.Fatalf("addr = %q", c.Addr())
	}
	if c.App.Env != "dev" || c.Prod() {
		t.Fatalf("env = %q", c.App.Env)
	}
	if c.Session.CookieName != "access_token" || c.Session.SameSite != "Lax" {
		t.Fatalf("session cookie defaults: %+v", c.Session)
	}
	if c.Session.TTL != 60*time.Minute {
		t.Fatalf("session ttl = %v", c.Session.TTL)
	}
	if c.State.CookieName != "login_state" || c.State.TTL != 10*time.Minute {
		t.Fatalf("state defaults: %+v", c.State)
	}
	if got := strings.Join(c.Google.Scopes, " "); got != "openid email profile" {
		t.Fatalf("scopes = %q", got)
	}
	if c.Google.RedirectURI != "http://localhost:8000/auth/callback" {
		t.Fatalf("redirect uri = %q", c.Google.RedirectURI)
	}
}

func TestLoadMissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "")
	t.Setenv("GOOGLE_CLIENT_SECRET", "")
	t.Setenv("SECRET_KEY", "")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error without credentials")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("APP_PORT", "9001")
	t.Setenv("SESSION_TTL", "15m")
	t.Setenv("SESSION_COOKIE_NAME", "sid")
	t.Setenv("GOOGLE_REDIRECT_URI", "https://rp.example.com/auth/callback")
	t.Setenv("GOOGLE_SCOPES", "openid, email")

	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Addr() != "127.0.0.1:9001" {
		t.Fatalf("addr = %q", c.Addr())
	}
	if c.Session.TTL != 15*time.Minute || c.Session.CookieName != "sid" {
		t.Fatalf("session overrides: %+v", c.Session)
	}
	if c.Google.RedirectURI != "https://rp.example.com/auth/callback" {
		t.Fatalf("redirect uri = %q", c.Google.RedirectURI)
	}
	if len(c.Google.Scopes) != 2 || c.Google.Scopes[1] != "email" {
		t.Fatalf("scopes = %v", c.Google.Scopes)
	}
}

func TestLoadYAMLWithEnvPrecedence(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_PORT", "9100")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  host: 10.0.0.1
  port: 8088
session:
  cookie_name: from_yaml
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	// el env pisa al YAML, el YAML pisa al default
	if c.Server.Port != 9100 {
		t.Fatalf("port = %d, env should win", c.Server.Port)
	}
	if c.Server.Host != "10.0.0.1" {
		t.Fatalf("host = %q, yaml should win", c.Server.Host)
	}
	if c.Session.CookieName != "from_yaml" {
		t.Fatalf("cookie name = %q", c.Session.CookieName)
	}
}

func TestProdHardening(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("SESSION_COOKIE_SECURE", "false")

	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !c.Prod() {
		t.Fatal("expected prod mode")
	}
	if !c.Session.Secure {
		t.Fatal("prod must force the Secure cookie flag")
	}

	t.Setenv("SECRET_KEY", "short")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for short secret in prod")
	}
}
