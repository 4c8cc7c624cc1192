// handlers/wallet.go
package handlers

import (
	"log"
	"strconv"

	"instantnums-wallet/middleware"
	"instantnums-wallet/services"
	"instantnums-wallet/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupWalletRoutes registers the user-facing wallet reads on the secured
// gateway group.
func SetupWalletRoutes(secured fiber.Router, ledger *services.LedgerService) {
	secured.Get("/user/wallet", func(c *fiber.Ctx) error {
		userID := middleware.UserID(c)
		u, err := ledger.GetUser(c.UserContext(), userID)
		if err != nil {
			status := statusFor(err)
			if status == fiber.StatusInternalServerError {
				log.Printf("❌ [WALLET] Failed to load wallet for %s: %v", userID, err)
			}
			return c.Status(status).JSON(fiber.Map{"error": "failed to load wallet"})
		}

		return c.JSON(fiber.Map{
			"user_id":                     u.ID,
			"wallet_balance_ngn":          u.WalletBalanceNGN,
			"wallet_balance_display":      utils.FormatNaira(u.WalletBalanceNGN),
			"loyalty_points":              u.LoyaltyPoints,
			"total_loyalty_points":        u.TotalLoyaltyPoints,
			"referral_code":               u.ReferralCode,
			"referral_earnings_available": u.ReferralEarningsAvailable,
			"referral_earnings_total":     u.ReferralEarningsTotal,
		})
	})

	secured.Get("/user/transactions", func(c *fiber.Ctx) error {
		userID := middleware.UserID(c)
		page, _ := strconv.Atoi(c.Query("page", "1"))
		size, _ := strconv.Atoi(c.Query("size", "20"))

		txs, total, err := ledger.ListTransactions(c.UserContext(), userID, page, size)
		if err != nil {
			log.Printf("❌ [WALLET] Failed to list transactions for %s: %v", userID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list transactions",
			})
		}

		return c.JSON(fiber.Map{
			"transactions": txs,
			"page":         page,
			"size":         size,
			"total_items":  total,
		})
	})
}
