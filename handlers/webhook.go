// handlers/webhook.go
package handlers

import (
	"errors"
	"log"

	"instantnums-wallet/services"

	"github.com/gofiber/fiber/v2"
)

// SetupWebhookRoutes registers the public provider callbacks. They sit
// outside the gateway group; the signature is the authentication.
func SetupWebhookRoutes(app *fiber.App, payments *services.PaymentService) {
	app.Post("/webhooks/paymentpoint", func(c *fiber.Ctx) error {
		// fasthttp reuses the body buffer after the handler returns
		raw := append([]byte(nil), c.Body()...)
		signature := c.Get(services.SignatureHeader)

		out, err := payments.HandleWebhook(c.UserContext(), raw, signature)
		if err != nil {
			status := statusFor(err)
			if status == fiber.StatusInternalServerError {
				log.Printf("❌ [WEBHOOK] Processing failed: %v", err)
				return c.Status(status).JSON(fiber.Map{
					"status":  "error",
					"message": "internal error",
				})
			}
			log.Printf("🚫 [WEBHOOK] Rejected with %d: %v", status, err)
			return c.Status(status).JSON(fiber.Map{
				"status":  "error",
				"message": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"status":  "success",
			"message": messageFor(out.Status),
			"result":  out,
		})
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrInvalidPayload):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrAccountNotFound), errors.Is(err, services.ErrUserNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func messageFor(status string) string {
	switch status {
	case services.OutcomeCredited:
		return "Wallet credited"
	case services.OutcomeDuplicate:
		return "Transaction already processed"
	default:
		return "Notification received"
	}
}
