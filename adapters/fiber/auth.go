package fiber

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/lborres/inventrack/core"
)

// bind decodes the request body into out and runs the struct validator.
// Decoding failures are reported as an invalid body.
func bind(c fiber.Ctx, out any) error {
	if err := c.Bind().Body(out); err != nil {
		var e *core.Error
		if errors.As(err, &e) {
			return e
		}
		return core.Validation(core.ErrInvalidBody.Message, err)
	}
	return nil
}

func (a *Adapter) signUp(c fiber.Ctx) error {
	var input core.SignUpInput
	if err := bind(c, &input); err != nil {
		return err
	}

	result, err := a.api.Auth.SignUp(c.Context(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (a *Adapter) login(c fiber.Ctx) error {
	var input core.LoginInput
	if err := bind(c, &input); err != nil {
		return err
	}

	result, err := a.api.Auth.Login(c.Context(), input)
	if err != nil {
		return err
	}

	// the token travels only in the HttpOnly cookie
	attachSession(c, a.api.Cookie, result.Token, result.ExpiresAt)
	return c.JSON(fiber.Map{
		"user":       result.User,
		"profile":    result.Profile,
		"expires_at": result.ExpiresAt,
	})
}

// logout is public: it clears whatever cookie the client still holds.
func (a *Adapter) logout(c fiber.Ctx) error {
	clearSession(c, a.api.Cookie)
	return c.JSON(fiber.Map{"message": "User logged out successfully"})
}

func (a *Adapter) validateToken(c fiber.Ctx) error {
	identity := identityFrom(c)
	if identity == nil {
		var err error
		identity, err = a.api.Auth.ValidateToken(a.extractToken(c))
		if err != nil {
			return err
		}
	}

	return c.JSON(fiber.Map{
		"valid":      true,
		"user_id":    identity.AccountID,
		"expires_at": identity.ExpiresAt,
	})
}
