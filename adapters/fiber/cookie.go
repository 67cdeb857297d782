package fiber

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/lborres/inventrack/core"
	"github.com/valyala/fasthttp"
)

// attachSession sets the session cookie. Attributes follow the environment
// in cfg so the frontend can send it back on cross-site requests in production.
func attachSession(c fiber.Ctx, cfg core.CookieConfig, token string, expires time.Time) {
	sameSite := fiber.CookieSameSiteLaxMode
	if cfg.SameSiteNone() {
		sameSite = fiber.CookieSameSiteNoneMode
	}

	c.Cookie(&fiber.Cookie{
		Name:     cfg.Name,
		Value:    token,
		Path:     "/",
		Domain:   cfg.IssueDomain(),
		MaxAge:   int(cfg.MaxAge.Seconds()),
		Expires:  expires,
		Secure:   cfg.Secure(),
		HTTPOnly: true,
		SameSite: sameSite,
	})
}

// clearSession expires the session cookie on every domain it may have been
// set on. c.Cookie keeps a single Set-Cookie per name, so the variants are
// appended to the header directly.
func clearSession(c fiber.Ctx, cfg core.CookieConfig) {
	sameSite := fasthttp.CookieSameSiteLaxMode
	if cfg.SameSiteNone() {
		sameSite = fasthttp.CookieSameSiteNoneMode
	}

	for _, domain := range cfg.ClearDomains() {
		cookie := fasthttp.AcquireCookie()
		cookie.SetKey(cfg.Name)
		cookie.SetValue("")
		cookie.SetPath("/")
		if domain != "" {
			cookie.SetDomain(domain)
		}
		cookie.SetHTTPOnly(true)
		cookie.SetSecure(cfg.Secure())
		cookie.SetSameSite(sameSite)
		cookie.SetExpire(fasthttp.CookieExpireDelete)

		c.Response().Header.Add(fiber.HeaderSetCookie, cookie.String())
		fasthttp.ReleaseCookie(cookie)
	}

	c.Set(fiber.HeaderCacheControl, "no-store, no-cache, must-revalidate, private")
	c.Set(fiber.HeaderPragma, "no-cache")
	c.Set(fiber.HeaderExpires, "0")
}
