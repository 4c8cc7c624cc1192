// models/user.go
package models

import "github.com/shopspring/decimal"

// User is the wallet-owning platform user. Identity and signup live in the
// auth service; this service only reads the referral fields and mutates
// balances and counters through atomic SQL increments.
type User struct {
	ID    string `gorm:"primaryKey;type:varchar(64);not null" json:"id"`
	Email string `gorm:"type:varchar(255);index" json:"email"`
	Name  string `gorm:"type:varchar(255)" json:"name"`

	WalletBalanceNGN decimal.Decimal `gorm:"column:wallet_balance_ngn;type:numeric;not null;default:0" json:"walletBalanceNGN"`

	ReferralCode              string          `gorm:"type:varchar(32);uniqueIndex;not null" json:"referralCode"`
	ReferredBy                string          `gorm:"type:varchar(32);index" json:"referredBy"` // referral code of the referrer, set at signup
	ReferralEarningsAvailable decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"referralEarningsAvailable"`
	ReferralEarningsTotal     decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"referralEarningsTotal"`
	ReferralEarningsPaid      bool            `gorm:"not null;default:false" json:"referralEarningsPaid"`

	LoyaltyPoints      int64 `gorm:"not null;default:0" json:"loyaltyPoints"`
	TotalLoyaltyPoints int64 `gorm:"not null;default:0" json:"totalLoyaltyPoints"`

	IsAdmin   bool `gorm:"not null;default:false" json:"isAdmin"`
	IsBlocked bool `gorm:"not null;default:false" json:"isBlocked"`

	Timestamps
}
