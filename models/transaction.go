package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "deposit"
	TransactionTypePurchase TransactionType = "purchase"
	TransactionTypeRefund   TransactionType = "refund"
)

type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Transaction is the append-only record of a balance change. Amount is the
// net value applied to the wallet; GrossAmount and Fee keep the fee
// reconstructible.
type Transaction struct {
	ID            string            `gorm:"primaryKey;type:varchar(64);not null" json:"id"`
	UserID        string            `gorm:"type:varchar(64);index;not null" json:"userId"`
	Type          TransactionType   `gorm:"type:varchar(16);not null;index" json:"type"`
	Amount        decimal.Decimal   `gorm:"type:numeric;not null" json:"amount"`
	GrossAmount   decimal.Decimal   `gorm:"type:numeric;not null" json:"grossAmount"`
	Fee           decimal.Decimal   `gorm:"type:numeric;not null;default:0" json:"fee"`
	FeePercentage decimal.Decimal   `gorm:"type:numeric;not null;default:0" json:"feePercentage"`
	Provider      string            `gorm:"type:varchar(32);not null" json:"provider"`
	Status        TransactionStatus `gorm:"type:varchar(16);not null" json:"status"`
	Description   string            `gorm:"type:text" json:"description"`
	Reference     string            `gorm:"type:varchar(128);index" json:"reference"` // upstream transaction id
	Payload       string            `gorm:"type:text" json:"payload,omitempty"`        // raw webhook body
	CreatedAt     time.Time         `gorm:"autoCreateTime;index" json:"createdAt"`
}
