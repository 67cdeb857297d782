package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lborres/inventrack/core"
)

const (
	ProviderSupabase = "supabase"
	ProviderLocal    = "local"
)

var (
	ErrDatabaseURLRequired = errors.New("DATABASE_URL is required")
	ErrUnknownProvider     = errors.New("unknown AUTH_PROVIDER")
	ErrSupabaseRequired    = errors.New("SUPABASE_URL and SUPABASE_KEY are required for the supabase provider")
)

type Config struct {
	Env      core.Environment
	Port     string
	LogLevel string
	LogDir   string

	DatabaseURL   string
	DBMaxConns    int32
	RunMigrations bool

	AuthProvider       string
	SupabaseURL        string
	SupabaseKey        string
	SupabaseServiceKey string
	LocalAutoConfirm   bool

	JWTSecret     string
	SessionMaxAge time.Duration
	WebhookSecret string

	AllowedOrigins     []string
	CookieDomain       string
	CookieExtraDomains []string

	StoragePublicBaseURL string

	// Warnings are non-fatal findings to log once the logger exists.
	Warnings []string
}

// Load reads an optional .env file, then the process environment.
// Variables already set in the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return Parse(os.LookupEnv)
}

// Parse builds the configuration from lookup and fails on the first
// missing or invalid value.
func Parse(lookup func(string) (string, bool)) (*Config, error) {
	env := envReader{lookup: lookup}

	cfg := &Config{
		Env:                  core.ParseEnvironment(env.first("development", "APP_ENV", "NODE_ENV")),
		Port:                 env.get("PORT", "3000"),
		LogLevel:             env.get("LOG_LEVEL", "info"),
		LogDir:               env.get("LOG_DIR", "logs"),
		DatabaseURL:          env.get("DATABASE_URL", ""),
		SupabaseURL:          env.get("SUPABASE_URL", ""),
		SupabaseKey:          env.get("SUPABASE_KEY", ""),
		JWTSecret:            env.get("JWT_SECRET", ""),
		WebhookSecret:        env.first("", "WEBHOOK_SECRET", "MOXIE_WEBHOOK_SECRET_TOKEN"),
		AllowedOrigins:       splitList(env.get("ALLOWED_ORIGINS", "http://localhost:5173")),
		CookieDomain:         env.get("COOKIE_DOMAIN", ""),
		CookieExtraDomains:   splitList(env.get("COOKIE_EXTRA_DOMAINS", "")),
		StoragePublicBaseURL: env.get("STORAGE_PUBLIC_BASE_URL", ""),
	}
	cfg.SupabaseServiceKey = env.get("SUPABASE_SERVICE_ROLE_KEY", cfg.SupabaseKey)

	defaultProvider := ProviderLocal
	if cfg.SupabaseURL != "" {
		defaultProvider = ProviderSupabase
	}
	cfg.AuthProvider = strings.ToLower(env.get("AUTH_PROVIDER", defaultProvider))

	var err error
	if cfg.DBMaxConns, err = env.getInt32("DB_MAX_CONNS", 10); err != nil {
		return nil, err
	}
	if cfg.RunMigrations, err = env.getBool("RUN_MIGRATIONS", false); err != nil {
		return nil, err
	}
	if cfg.LocalAutoConfirm, err = env.getBool("LOCAL_AUTO_CONFIRM", !cfg.Env.IsProduction()); err != nil {
		return nil, err
	}
	if cfg.SessionMaxAge, err = env.getDuration("SESSION_MAX_AGE", core.DefaultSessionMaxAge); err != nil {
		return nil, err
	}

	if _, ok := lookup("SESSION_SECRET"); ok {
		cfg.Warnings = append(cfg.Warnings, "SESSION_SECRET is set but unused; sessions are signed with JWT_SECRET")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET: %w", core.ErrSecretRequired)
	}
	if len(c.JWTSecret) < core.MinSecretLength {
		return fmt.Errorf("JWT_SECRET: %w - minimum of %d characters", core.ErrSecretTooShort, core.MinSecretLength)
	}
	if c.WebhookSecret == "" {
		return fmt.Errorf("WEBHOOK_SECRET: %w", core.ErrWebhookSecretRequired)
	}
	if c.DatabaseURL == "" {
		return ErrDatabaseURLRequired
	}

	switch c.AuthProvider {
	case ProviderLocal:
	case ProviderSupabase:
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return ErrSupabaseRequired
		}
	default:
		return fmt.Errorf("%w %q: use %s or %s", ErrUnknownProvider, c.AuthProvider, ProviderSupabase, ProviderLocal)
	}
	return nil
}

// Cookie returns the session cookie configuration.
func (c *Config) Cookie() core.CookieConfig {
	return core.CookieConfig{
		Name:         core.DefaultCookieName,
		Environment:  c.Env,
		Domain:       c.CookieDomain,
		ExtraDomains: c.CookieExtraDomains,
		MaxAge:       c.SessionMaxAge,
	}
}

type envReader struct {
	lookup func(string) (string, bool)
}

func (e envReader) get(key, def string) string {
	if v, ok := e.lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

// first returns the first set variable among keys.
func (e envReader) first(def string, keys ...string) string {
	for _, key := range keys {
		if v := e.get(key, ""); v != "" {
			return v
		}
	}
	return def
}

func (e envReader) getInt32(key string, def int32) (int32, error) {
	raw := e.get(key, "")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", key, raw)
	}
	return int32(n), nil
}

func (e envReader) getBool(key string, def bool) (bool, error) {
	raw := e.get(key, "")
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid boolean for %s: %q", key, raw)
	}
	return b, nil
}

func (e envReader) getDuration(key string, def time.Duration) (time.Duration, error) {
	raw := e.get(key, "")
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive duration like 24h", key, raw)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
