package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferralEarning records a one-time bonus paid to ReferrerID when
// ReferredUserID made a qualifying deposit.
type ReferralEarning struct {
	ID             string          `gorm:"primaryKey;type:varchar(64);not null" json:"id"`
	ReferrerID     string          `gorm:"type:varchar(64);index;not null" json:"referrerId"`
	ReferredUserID string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"referredUserId"`
	Amount         decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
	DepositAmount  decimal.Decimal `gorm:"type:numeric;not null" json:"depositAmount"`
	Reference      string          `gorm:"type:varchar(128)" json:"reference"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"createdAt"`
}
