// services/referral_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"instantnums-wallet/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReferralService struct {
	DB     *gorm.DB
	Policy Policy
}

func NewReferralService(db *gorm.DB, policy Policy) *ReferralService {
	return &ReferralService{DB: db, Policy: policy}
}

// Settle pays the referrer of userID once, the first time a deposit of at
// least the threshold is credited. It returns the earning when a bonus was
// paid and nil when there was nothing to do.
//
// The paid flag is flipped with a conditional update inside the same
// transaction as the referrer increment, so concurrent deposits by the same
// user cannot both pay out.
func (s *ReferralService) Settle(ctx context.Context, userID string, gross decimal.Decimal, reference, eventID string) (*models.ReferralEarning, error) {
	if !s.Policy.QualifiesForReferral(gross) {
		return nil, nil
	}

	var earning *models.ReferralEarning
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		won, err := claimEventStep(tx, eventID, "referral_checked")
		if err != nil || !won {
			return err
		}

		var user models.User
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("load user %s: %w", userID, err)
		}
		if user.ReferredBy == "" || user.ReferralEarningsPaid {
			return nil
		}

		var referrer models.User
		if err := tx.Where("referral_code = ?", user.ReferredBy).First(&referrer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("⚠️ [REFERRAL] Referral code %s for user %s has no owner", user.ReferredBy, userID)
				return nil
			}
			return fmt.Errorf("load referrer %s: %w", user.ReferredBy, err)
		}
		if referrer.ID == user.ID {
			return nil
		}

		flip := tx.Model(&models.User{}).
			Where("id = ? AND referral_earnings_paid = ?", userID, false).
			Update("referral_earnings_paid", true)
		if flip.Error != nil {
			return fmt.Errorf("mark referral paid for %s: %w", userID, flip.Error)
		}
		if flip.RowsAffected == 0 {
			return nil // another deposit settled it first
		}

		bonus := s.Policy.ReferralBonus
		if err := tx.Model(&models.User{}).
			Where("id = ?", referrer.ID).
			Updates(map[string]interface{}{
				"referral_earnings_available": gorm.Expr("referral_earnings_available + ?", bonus),
				"referral_earnings_total":     gorm.Expr("referral_earnings_total + ?", bonus),
				"updated_at":                  time.Now(),
			}).Error; err != nil {
			return fmt.Errorf("credit referrer %s: %w", referrer.ID, err)
		}

		e := models.ReferralEarning{
			ID:             uuid.NewString(),
			ReferrerID:     referrer.ID,
			ReferredUserID: user.ID,
			Amount:         bonus,
			DepositAmount:  gross,
			Reference:      reference,
		}
		if err := tx.Create(&e).Error; err != nil {
			return fmt.Errorf("record referral earning: %w", err)
		}
		earning = &e
		return nil
	})
	if err != nil {
		return nil, err
	}
	if earning != nil {
		log.Printf("🎁 [REFERRAL] Paid %s to referrer %s for user %s (deposit %s)",
			earning.Amount, earning.ReferrerID, earning.ReferredUserID, gross)
	}
	return earning, nil
}
