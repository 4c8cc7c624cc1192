// services/loyalty_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"instantnums-wallet/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LoyaltyService struct {
	DB     *gorm.DB
	Policy Policy
}

func NewLoyaltyService(db *gorm.DB, policy Policy) *LoyaltyService {
	return &LoyaltyService{DB: db, Policy: policy}
}

// Accrue awards floor(net / NairaPerPoint) points for a credited deposit and
// returns the number awarded.
func (s *LoyaltyService) Accrue(ctx context.Context, userID string, net decimal.Decimal, reference, eventID string) (int64, error) {
	points := s.Policy.PointsFor(net)

	var awarded int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		won, err := claimEventStep(tx, eventID, "loyalty_awarded")
		if err != nil || !won || points == 0 {
			return err
		}

		upd := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{
				"loyalty_points":       gorm.Expr("loyalty_points + ?", points),
				"total_loyalty_points": gorm.Expr("total_loyalty_points + ?", points),
				"updated_at":           time.Now(),
			})
		if upd.Error != nil {
			return fmt.Errorf("increment loyalty points for %s: %w", userID, upd.Error)
		}
		if upd.RowsAffected == 0 {
			return fmt.Errorf("increment loyalty points: %w", ErrUserNotFound)
		}

		lt := models.LoyaltyTransaction{
			ID:        uuid.NewString(),
			UserID:    userID,
			Action:    models.LoyaltyActionDeposit,
			Points:    points,
			Amount:    net,
			Reference: reference,
		}
		if err := tx.Create(&lt).Error; err != nil {
			return fmt.Errorf("record loyalty transaction: %w", err)
		}
		awarded = points
		return nil
	})
	return awarded, err
}
