// handlers/admin.go
package handlers

import (
	"log"
	"strconv"
	"time"

	"instantnums-wallet/middleware"
	"instantnums-wallet/models"
	"instantnums-wallet/services"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes registers operator endpoints for webhook reconciliation.
func SetupAdminRoutes(secured fiber.Router, reconciler *services.ReconcileService) {
	admin := secured.Group("/admin", middleware.RequireRole("admin"))

	admin.Get("/webhooks", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		if limit < 1 || limit > 200 {
			limit = 50
		}

		var (
			events []models.WebhookEvent
			err    error
		)
		if c.QueryBool("pending", false) {
			events, err = reconciler.PendingEvents(c.UserContext(), time.Now(), limit)
		} else {
			err = reconciler.DB.WithContext(c.UserContext()).
				Order("created_at DESC").
				Limit(limit).
				Find(&events).Error
		}
		if err != nil {
			log.Printf("❌ [ADMIN] Failed to list webhook events: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list webhook events",
			})
		}
		return c.JSON(fiber.Map{"events": events, "count": len(events)})
	})

	admin.Post("/reconcile", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "100"))
		report, err := reconciler.RetryPending(c.UserContext(), limit)
		if err != nil {
			log.Printf("❌ [ADMIN] Reconcile failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":  "reconcile failed",
				"report": report,
			})
		}
		log.Printf("✅ [ADMIN] Manual reconcile by %s: %+v", middleware.UserID(c), report)
		return c.JSON(report)
	})
}
