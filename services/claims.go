package services

import (
	"fmt"

	"instantnums-wallet/models"

	"gorm.io/gorm"
)

// claimEventStep flips a best-effort flag on the webhook event from false to
// true. It returns false if another run already claimed it. An empty
// eventID means the caller is not tied to a webhook and always wins.
func claimEventStep(tx *gorm.DB, eventID, column string) (bool, error) {
	if eventID == "" {
		return true, nil
	}
	res := tx.Model(&models.WebhookEvent{}).
		Where("id = ? AND "+column+" = ?", eventID, false).
		Update(column, true)
	if res.Error != nil {
		return false, fmt.Errorf("claim %s on event %s: %w", column, eventID, res.Error)
	}
	return res.RowsAffected == 1, nil
}
