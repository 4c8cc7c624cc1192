package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoyaltyAction string

const LoyaltyActionDeposit LoyaltyAction = "deposit"

// LoyaltyTransaction records points awarded for a balance-affecting action.
type LoyaltyTransaction struct {
	ID        string          `gorm:"primaryKey;type:varchar(64);not null" json:"id"`
	UserID    string          `gorm:"type:varchar(64);index;not null" json:"userId"`
	Action    LoyaltyAction   `gorm:"type:varchar(32);not null" json:"action"`
	Points    int64           `gorm:"not null" json:"points"`
	Amount    decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
	Reference string          `gorm:"type:varchar(128)" json:"reference"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"createdAt"`
}
