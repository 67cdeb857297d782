package inventrack

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lborres/inventrack/core"
	"github.com/lborres/inventrack/services"
)

const testSecret = "01234567890123456789012345678901"

// recording HTTP Adapter
type recordingHTTP struct {
	app *App
	err error
}

func (r *recordingHTTP) RegisterRoutes(app *App) error {
	r.app = app
	return r.err
}

func validConfig() Config {
	store := services.NewFakeStore()
	return Config{
		Secret:        testSecret,
		Storage:       store,
		Accounts:      services.NewFakeAccounts(),
		Bucket:        services.NewFakeBucket(),
		HTTP:          &recordingHTTP{},
		WebhookSecret: "hook-secret",
	}
}

// Requirement: New refuses incomplete configuration with the matching sentinel.
func TestNew_ValidatesConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "missing secret", mutate: func(c *Config) { c.Secret = "" }, wantErr: ErrSecretRequired},
		{name: "short secret", mutate: func(c *Config) { c.Secret = "short-secret" }, wantErr: ErrSecretTooShort},
		{name: "missing storage", mutate: func(c *Config) { c.Storage = nil }, wantErr: ErrStorageRequired},
		{name: "missing accounts", mutate: func(c *Config) { c.Accounts = nil }, wantErr: ErrAccountsRequired},
		{name: "missing bucket", mutate: func(c *Config) { c.Bucket = nil }, wantErr: ErrBucketRequired},
		{name: "missing http adapter", mutate: func(c *Config) { c.HTTP = nil }, wantErr: ErrHTTPAdapterRequired},
		{name: "missing webhook secret", mutate: func(c *Config) { c.WebhookSecret = "" }, wantErr: ErrWebhookSecretRequired},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			cfg := validConfig()
			test.mutate(&cfg)

			// Act
			_, err := New(cfg)

			// Assert
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("New() error = %v, want %v", err, test.wantErr)
			}
		})
	}
}

func TestNewShouldReturnErrSecretTooShort(t *testing.T) {
	cfg := validConfig()
	cfg.Secret = "short-secret"

	_, err := New(cfg)
	if !errors.Is(err, ErrSecretTooShort) {
		t.Fatalf("expected ErrSecretTooShort sentinel (errors.Is), got %v", err)
	}
	// Message should include the minimum length
	if !strings.Contains(err.Error(), "32") {
		t.Fatalf("expected error message to include minimum length, got %v", err)
	}
}

// Requirement: New applies defaults and hands the wired app to the HTTP adapter.
func TestNew_Defaults(t *testing.T) {
	// Arrange
	cfg := validConfig()
	adapter := cfg.HTTP.(*recordingHTTP)

	// Act
	app, err := New(cfg)

	// Assert
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if adapter.app != app {
		t.Fatal("RegisterRoutes should receive the app returned by New")
	}
	if app.Environment != core.EnvDevelopment {
		t.Errorf("Environment = %q, want development", app.Environment)
	}
	if app.Cookie.Name != core.DefaultCookieName {
		t.Errorf("Cookie.Name = %q, want %q", app.Cookie.Name, core.DefaultCookieName)
	}
	if app.Cookie.MaxAge != 24*time.Hour {
		t.Errorf("Cookie.MaxAge = %v, want 24h", app.Cookie.MaxAge)
	}
	if app.Sessions.MaxAge() != 24*time.Hour {
		t.Errorf("Sessions.MaxAge() = %v, want 24h", app.Sessions.MaxAge())
	}
	if len(app.Endpoints.Endpoints()) != len(services.BaseEndpoints()) {
		t.Errorf("Endpoints = %d, want %d", len(app.Endpoints.Endpoints()), len(services.BaseEndpoints()))
	}
}

// Requirement: the cookie lifetime follows a custom session lifetime and the
// cookie environment follows the app environment.
func TestNew_SessionConfigOverride(t *testing.T) {
	// Arrange
	cfg := validConfig()
	cfg.SessionConfig = &SessionConfig{MaxAge: time.Hour}
	cfg.Environment = core.EnvProduction

	// Act
	app, err := New(cfg)

	// Assert
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if app.Cookie.MaxAge != time.Hour {
		t.Errorf("Cookie.MaxAge = %v, want 1h", app.Cookie.MaxAge)
	}
	if !app.Cookie.Secure() {
		t.Error("production cookie should be Secure")
	}
	issued, err := app.Sessions.Issue("account")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := app.Sessions.Verify(issued.Token); err != nil {
		t.Errorf("Verify() error = %v; the config secret should sign tokens", err)
	}
}

// Requirement: an HTTP adapter registration failure fails New.
func TestNew_PropagatesRegisterError(t *testing.T) {
	// Arrange
	cfg := validConfig()
	want := errors.New("no handler for operation")
	cfg.HTTP = &recordingHTTP{err: want}

	// Act
	_, err := New(cfg)

	// Assert
	if !errors.Is(err, want) {
		t.Fatalf("New() error = %v, want %v", err, want)
	}
}

// Requirement: the webhook secret is compared exactly.
func TestApp_VerifyWebhookToken(t *testing.T) {
	app, err := New(validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		token string
		want  bool
	}{
		{"hook-secret", true},
		{"hook-secret ", false},
		{"HOOK-SECRET", false},
		{"", false},
	}
	for _, test := range tests {
		if got := app.VerifyWebhookToken(test.token); got != test.want {
			t.Errorf("VerifyWebhookToken(%q) = %v, want %v", test.token, got, test.want)
		}
	}
}
