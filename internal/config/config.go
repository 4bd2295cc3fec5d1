package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes everything the relying party needs at start-up.
// Loaded once in main; read-only for the process lifetime.
type Config struct {
	App struct {
		// dev | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Google struct {
		ClientID     string   `yaml:"client_id"`
		ClientSecret string   `yaml:"client_secret"`
		RedirectURI  string   `yaml:"redirect_uri"`
		Scopes       []string `yaml:"scopes"`
		// Timeout acota todas las llamadas al IdP (discovery, token, userinfo).
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"google"`

	Session struct {
		CookieName string        `yaml:"cookie_name"`
		SameSite   string        `yaml:"samesite"`
		Secure     bool          `yaml:"secure"`
		TTL        time.Duration `yaml:"ttl"`
	} `yaml:"session"`

	State struct {
		CookieName string        `yaml:"cookie_name"`
		TTL        time.Duration `yaml:"ttl"`
	} `yaml:"state"`

	// SecretKey firma el session token y el state (HMAC-SHA256).
	SecretKey string `yaml:"secret_key"`
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Prod reports whether the app runs in production mode.
func (c *Config) Prod() bool {
	return strings.EqualFold(c.App.Env, "prod")
}

// Load reads the optional YAML file at path (skipped when path is empty or the
// file does not exist), applies defaults and env overrides, then validates.
// Missing provider credentials or signing secret are a start-up error.
func Load(path string) (*Config, error) {
	var c Config

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		if err == nil {
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, err
			}
		}
	}

	// sane defaults
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if len(c.Google.Scopes) == 0 {
		c.Google.Scopes = []string{"openid", "email", "profile"}
	}
	if c.Google.Timeout == 0 {
		c.Google.Timeout = 10 * time.Second
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "access_token"
	}
	if c.Session.SameSite == "" {
		c.Session.SameSite = "Lax"
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = 60 * time.Minute
	}
	if c.State.CookieName == "" {
		c.State.CookieName = "login_state"
	}
	if c.State.TTL == 0 {
		c.State.TTL = 10 * time.Minute
	}

	c.applyEnvOverrides()

	// En prod la cookie viaja solo por HTTPS, sin importar el YAML.
	if c.Prod() {
		c.Session.Secure = true
	}

	if c.Google.RedirectURI == "" {
		c.Google.RedirectURI = fmt.Sprintf("http://localhost:%d/auth/callback", c.Server.Port)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the values the process cannot run without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Google.ClientID) == "" {
		return errors.New("config: GOOGLE_CLIENT_ID is required")
	}
	if strings.TrimSpace(c.Google.ClientSecret) == "" {
		return errors.New("config: GOOGLE_CLIENT_SECRET is required")
	}
	if strings.TrimSpace(c.SecretKey) == "" {
		return errors.New("config: SECRET_KEY is required")
	}
	if c.Prod() && len(c.SecretKey) < 32 {
		return errors.New("config: SECRET_KEY must be at least 32 bytes in prod")
	}
	if c.Session.TTL <= 0 {
		return errors.New("config: session ttl must be positive")
	}
	return nil
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}

func getEnvDur(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d, true
		}
	}
	return 0, false
}

func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}

// applyEnvOverrides: pisa el YAML con variables de entorno.
func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("APP_HOST"); ok {
		c.Server.Host = v
	}
	if v, ok := getEnvInt("APP_PORT"); ok {
		c.Server.Port = v
	}

	// LOG
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}

	// GOOGLE
	if v, ok := getEnvStr("GOOGLE_CLIENT_ID"); ok {
		c.Google.ClientID = v
	}
	if v, ok := getEnvStr("GOOGLE_CLIENT_SECRET"); ok {
		c.Google.ClientSecret = v
	}
	if v, ok := getEnvStr("GOOGLE_REDIRECT_URI"); ok {
		c.Google.RedirectURI = v
	}
	if v, ok := getEnvCSV("GOOGLE_SCOPES"); ok && len(v) > 0 {
		c.Google.Scopes = v
	}
	if v, ok := getEnvDur("PROVIDER_TIMEOUT"); ok {
		c.Google.Timeout = v
	}

	// SESSION
	if v, ok := getEnvStr("SESSION_COOKIE_NAME"); ok {
		c.Session.CookieName = v
	}
	if v, ok := getEnvStr("SESSION_COOKIE_SAMESITE"); ok {
		c.Session.SameSite = v
	}
	if v, ok := getEnvBool("SESSION_COOKIE_SECURE"); ok {
		c.Session.Secure = v
	}
	if v, ok := getEnvDur("SESSION_TTL"); ok {
		c.Session.TTL = v
	}

	// STATE
	if v, ok := getEnvDur("STATE_TTL"); ok {
		c.State.TTL = v
	}

	// SECRET
	if v, ok := getEnvStr("SECRET_KEY"); ok {
		c.SecretKey = v
	}
}
