// services/ledger.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"instantnums-wallet/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LedgerService struct {
	DB     *gorm.DB
	Policy Policy
}

func NewLedgerService(db *gorm.DB, policy Policy) *LedgerService {
	return &LedgerService{DB: db, Policy: policy}
}

// CreditInput describes one provider deposit to post.
type CreditInput struct {
	UserID      string
	Gross       decimal.Decimal
	Provider    string
	Reference   string // provider transaction id
	Description string
	Payload     []byte
}

// CreditResult is what was posted.
type CreditResult struct {
	Event       models.WebhookEvent
	Transaction models.Transaction
}

// Credit posts a deposit: the dedup claim, the atomic balance increment and
// the transaction record commit together or not at all. A reference already
// recorded for the provider returns ErrDuplicateDelivery.
func (s *LedgerService) Credit(ctx context.Context, in CreditInput) (*CreditResult, error) {
	if in.UserID == "" || in.Reference == "" {
		return nil, fmt.Errorf("%w: user and reference are required", ErrInvalidPayload)
	}
	if !in.Gross.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidPayload)
	}

	fee, net := s.Policy.SplitFee(in.Gross)
	description := in.Description
	if description == "" {
		description = fmt.Sprintf("Wallet funding via %s (fee %s%%)", in.Provider, s.Policy.FeePercent.String())
	}

	res := &CreditResult{
		Event: models.WebhookEvent{
			ID:            uuid.NewString(),
			Provider:      in.Provider,
			TransactionID: in.Reference,
			UserID:        in.UserID,
			GrossAmount:   in.Gross,
			Fee:           fee,
			NetAmount:     net,
		},
		Transaction: models.Transaction{
			ID:            uuid.NewString(),
			UserID:        in.UserID,
			Type:          models.TransactionTypeDeposit,
			Amount:        net,
			GrossAmount:   in.Gross,
			Fee:           fee,
			FeePercentage: s.Policy.FeePercent,
			Provider:      in.Provider,
			Status:        models.TransactionStatusCompleted,
			Description:   description,
			Reference:     in.Reference,
			Payload:       string(in.Payload),
		},
	}

	// below the threshold there is no referral step to run
	res.Event.ReferralChecked = !s.Policy.QualifiesForReferral(in.Gross)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		claim := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&res.Event)
		if claim.Error != nil {
			return fmt.Errorf("claim webhook event: %w", claim.Error)
		}
		if claim.RowsAffected == 0 {
			return ErrDuplicateDelivery
		}

		if err := ensureUser(tx, in.UserID); err != nil {
			return err
		}

		upd := tx.Model(&models.User{}).
			Where("id = ?", in.UserID).
			UpdateColumn("wallet_balance_ngn", gorm.Expr("wallet_balance_ngn + ?", net))
		if upd.Error != nil {
			return fmt.Errorf("increment wallet: %w", upd.Error)
		}
		if upd.RowsAffected != 1 {
			return fmt.Errorf("increment wallet: user %s not updated", in.UserID)
		}

		if err := tx.Create(&res.Transaction).Error; err != nil {
			return fmt.Errorf("append transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ensureUser creates a zero-balance user row if the account points at a user
// this service has never seen.
func ensureUser(tx *gorm.DB, userID string) error {
	u := models.User{
		ID:           userID,
		ReferralCode: newReferralCode(),
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&u).Error; err != nil {
		return fmt.Errorf("ensure user %s: %w", userID, err)
	}
	return nil
}

func newReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

// GetUser loads a wallet owner.
func (s *LedgerService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).Where("id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ListTransactions returns a page of a user's transactions, newest first,
// and the total count.
func (s *LedgerService) ListTransactions(ctx context.Context, userID string, page, size int) ([]models.Transaction, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	scoped := func() *gorm.DB {
		return s.DB.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", userID)
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txs []models.Transaction
	err := scoped().Omit("payload").
		Order("created_at DESC").
		Limit(size).Offset((page - 1) * size).
		Find(&txs).Error
	return txs, total, err
}
