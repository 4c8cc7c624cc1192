package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WebhookEvent is the processed-delivery record for a credited provider
// transaction. The (provider, transaction_id) unique index is the dedup
// guard: it is inserted in the same DB transaction as the wallet credit.
//
// ReferralChecked and LoyaltyAwarded are claimed by the best-effort steps;
// rows left false are picked up by the reconciler.
type WebhookEvent struct {
	ID            string          `gorm:"primaryKey;type:varchar(64);not null" json:"id"`
	Provider      string          `gorm:"type:varchar(32);not null;uniqueIndex:ux_webhook_events_provider_tx,priority:1" json:"provider"`
	TransactionID string          `gorm:"type:varchar(128);not null;uniqueIndex:ux_webhook_events_provider_tx,priority:2" json:"transactionId"`
	UserID        string          `gorm:"type:varchar(64);index;not null" json:"userId"`
	GrossAmount   decimal.Decimal `gorm:"type:numeric;not null" json:"grossAmount"`
	Fee           decimal.Decimal `gorm:"type:numeric;not null" json:"fee"`
	NetAmount     decimal.Decimal `gorm:"type:numeric;not null" json:"netAmount"`

	ReferralChecked bool   `gorm:"not null;default:false;index" json:"referralChecked"`
	LoyaltyAwarded  bool   `gorm:"not null;default:false;index" json:"loyaltyAwarded"`
	Attempts        int    `gorm:"not null;default:0" json:"attempts"`
	LastError       string `gorm:"type:text" json:"lastError,omitempty"`
	ArchiveKey      string `gorm:"type:varchar(255)" json:"archiveKey,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Pending reports whether a best-effort step still has to run.
func (e WebhookEvent) Pending() bool {
	return !e.ReferralChecked || !e.LoyaltyAwarded
}
