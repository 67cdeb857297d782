package fiber

import (
	"errors"
	"runtime/debug"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/lborres/inventrack/core"
	"go.uber.org/zap"
)

const (
	internalMessage = "Internal Server Error"
	maxEchoedBody   = 4 << 10
)

// normalize maps any error returned by a handler onto the taxonomy and the
// status code to answer with. fiber's own errors keep their status (e.g. 405).
func normalize(err error) (*core.Error, int) {
	var e *core.Error
	if errors.As(err, &e) {
		return e, e.Status()
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return &core.Error{Kind: kindForStatus(fe.Code), Message: fe.Message, Err: err}, fe.Code
	}

	return &core.Error{Kind: core.KindInternal, Message: internalMessage, Err: err}, fiber.StatusInternalServerError
}

func kindForStatus(status int) core.Kind {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity, fiber.StatusRequestEntityTooLarge:
		return core.KindValidation
	case fiber.StatusUnauthorized:
		return core.KindUnauthenticated
	case fiber.StatusForbidden:
		return core.KindAuthorization
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return core.KindNotFound
	case fiber.StatusConflict:
		return core.KindConflict
	case fiber.StatusTooManyRequests:
		return core.KindRateLimited
	default:
		return core.KindInternal
	}
}

// NewErrorHandler returns the centralized fiber error handler. It logs every
// error and writes the normalized body. Debug details are only included in
// development.
func NewErrorHandler(env core.Environment, log *zap.Logger) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		e, status := normalize(err)

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("request_id", requestid.FromContext(c)),
			zap.Int("status", status),
			zap.Error(err),
		}
		if identity := identityFrom(c); identity != nil {
			fields = append(fields, zap.String("account_id", identity.AccountID))
		}
		if status >= fiber.StatusInternalServerError {
			log.Error(e.Message, fields...)
		} else {
			log.Warn(e.Message, fields...)
		}

		detail := core.ErrorDetail{
			Message: e.Message,
			Status:  status,
			Kind:    e.Kind.String(),
		}
		if env.IsDevelopment() {
			detail.Cause = err.Error()
			detail.Stack = string(debug.Stack())
			detail.Body = echoBody(c.Body())
			detail.Query = c.Queries()
		} else if status >= fiber.StatusInternalServerError {
			detail.Message = internalMessage
		}

		return c.Status(status).JSON(core.ErrorBody{Error: detail})
	}
}

func echoBody(body []byte) string {
	if len(body) > maxEchoedBody {
		body = body[:maxEchoedBody]
	}
	return string(body)
}
