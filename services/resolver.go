// services/resolver.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"instantnums-wallet/models"

	"gorm.io/gorm"
)

// AccountResolver maps an inbound transfer to a user. It only reads: a
// webhook must never be able to create a wallet.
type AccountResolver struct {
	DB *gorm.DB
}

func NewAccountResolver(db *gorm.DB) *AccountResolver {
	return &AccountResolver{DB: db}
}

// Resolution says which lookup matched.
type Resolution struct {
	UserID    string
	MatchedBy string // "account_number" or "email"
}

// Resolve tries the receiving account number first, then the payer email.
func (r *AccountResolver) Resolve(ctx context.Context, accountNumber, email string) (*Resolution, error) {
	db := r.DB.WithContext(ctx)

	if accountNumber = strings.TrimSpace(accountNumber); accountNumber != "" {
		var acct models.Account
		err := db.Where("account_number = ?", accountNumber).First(&acct).Error
		switch {
		case err == nil:
			return &Resolution{UserID: acct.UserID, MatchedBy: "account_number"}, nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("lookup account %s: %w", accountNumber, err)
		}
	}

	if email = strings.TrimSpace(email); email != "" {
		var user models.User
		err := db.Select("id").Where("email = ?", email).First(&user).Error
		switch {
		case err == nil:
			return &Resolution{UserID: user.ID, MatchedBy: "email"}, nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("lookup user by email: %w", err)
		}
	}

	return nil, fmt.Errorf("%w: account=%q email=%q", ErrAccountNotFound, accountNumber, email)
}
