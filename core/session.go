package core

import (
	"strings"
	"time"
)

type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
	EnvTest        Environment = "test"
)

func ParseEnvironment(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "production", "prod":
		return EnvProduction
	case "test":
		return EnvTest
	default:
		return EnvDevelopment
	}
}

func (e Environment) IsProduction() bool  { return e == EnvProduction }
func (e Environment) IsDevelopment() bool { return e == EnvDevelopment }

const (
	DefaultSessionMaxAge = 24 * time.Hour
	DefaultIssuer        = "inventrack"
	DefaultCookieName    = "authToken"
	MinSecretLength      = 32
)

type SessionConfig struct {
	Secret string
	MaxAge time.Duration
	Issuer string
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		MaxAge: DefaultSessionMaxAge,
		Issuer: DefaultIssuer,
	}
}

// IssuedSession is a freshly signed session token
type IssuedSession struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Identity is what a verified session token proves
type Identity struct {
	AccountID string    `json:"user_id"`
	TokenID   string    `json:"-"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CookieConfig decides the attributes of the session cookie. The same value
// is used to set and to clear it, so both always agree on name, path and domain.
type CookieConfig struct {
	Name         string
	Environment  Environment
	Domain       string   // shared parent domain, production only
	ExtraDomains []string // other domains the cookie may have been set on
	MaxAge       time.Duration
}

func (c CookieConfig) Secure() bool { return c.Environment.IsProduction() }

// SameSiteNone reports whether the cookie must be sent cross-site.
// Production splits frontend and API across subdomains.
func (c CookieConfig) SameSiteNone() bool { return c.Environment.IsProduction() }

// IssueDomain is the Domain attribute used when setting the cookie.
// Empty means host-only.
func (c CookieConfig) IssueDomain() string {
	if c.Environment.IsProduction() {
		return c.Domain
	}
	return ""
}

// ClearDomains lists every Domain attribute the cookie could have been set
// with, host-only first. Duplicates are removed.
func (c CookieConfig) ClearDomains() []string {
	domains := []string{""}
	seen := map[string]bool{"": true}
	add := func(d string) {
		d = strings.TrimSpace(d)
		if seen[d] {
			return
		}
		seen[d] = true
		domains = append(domains, d)
	}
	add(c.Domain)
	for _, d := range c.ExtraDomains {
		add(d)
	}
	return domains
}
