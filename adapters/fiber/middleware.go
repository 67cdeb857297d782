package fiber

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/lborres/inventrack/core"
	"go.uber.org/zap"
)

const webhookTokenHeader = "x-webhook-token"

type localsKey int

const identityKey localsKey = iota

// requireSession validates the session token and stores the identity in
// the context for downstream handlers.
func (a *Adapter) requireSession(c fiber.Ctx) error {
	identity, err := a.api.Auth.ValidateToken(a.extractToken(c))
	if err != nil {
		return err
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// requireWebhookToken checks the shared webhook secret. Rejections use the
// webhook's own response shape.
func (a *Adapter) requireWebhookToken(c fiber.Ctx) error {
	if !a.api.VerifyWebhookToken(c.Get(webhookTokenHeader)) {
		a.log.Warn("rejected webhook request",
			zap.String("ip", c.IP()),
			zap.String("request_id", requestid.FromContext(c)),
		)
		return c.Status(core.ErrWebhookForbidden.Status()).JSON(fiber.Map{
			"error": core.ErrWebhookForbidden.Message,
		})
	}
	return c.Next()
}

func (a *Adapter) rateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        a.rateLimitMax,
		Expiration: a.rateLimitSpan,
		LimitReached: func(c fiber.Ctx) error {
			return core.ErrRateLimited
		},
	})
}

// extractToken extracts the session token from the request.
// Checks Authorization header (Bearer token) first, then falls back to cookie.
func (a *Adapter) extractToken(c fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	return c.Cookies(a.api.Cookie.Name)
}

func identityFrom(c fiber.Ctx) *core.Identity {
	identity, _ := c.Locals(identityKey).(*core.Identity)
	return identity
}

// accessLog writes one structured line per request.
func accessLog(log *zap.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			_, status = normalize(err)
		}
		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("request_id", requestid.FromContext(c)),
		}
		if identity := identityFrom(c); identity != nil {
			fields = append(fields, zap.String("account_id", identity.AccountID))
		}
		log.Info("request", fields...)
		return err
	}
}
