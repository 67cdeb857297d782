package fiber

import (
	"github.com/gofiber/fiber/v3"
	"github.com/lborres/inventrack/core"
	"go.uber.org/zap"
)

// receiveWebhook records a sale notification. Responses use the webhook's
// {success, message} shape instead of the error body.
func (a *Adapter) receiveWebhook(c fiber.Ctx) error {
	var input core.SaleInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": core.ErrInvalidBody.Message,
		})
	}

	if _, err := a.api.Sales.Record(c.Context(), input); err != nil {
		if core.KindOf(err) == core.KindValidation {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": core.MessageOf(err),
			})
		}
		a.log.Error("webhook processing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Error processing webhook",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Webhook processed successfully",
	})
}
