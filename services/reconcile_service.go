// services/reconcile_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"instantnums-wallet/models"

	"gorm.io/gorm"
)

// ReconcileService retries best-effort steps that did not complete for
// credited deposits. Both steps are guarded by claims on the event row, so
// running it repeatedly or alongside live webhooks never pays twice.
type ReconcileService struct {
	DB       *gorm.DB
	Payments *PaymentService

	// Grace keeps the reconciler away from events a live request is still
	// working on.
	Grace       time.Duration
	MaxAttempts int
	now         func() time.Time
}

func NewReconcileService(db *gorm.DB, payments *PaymentService) *ReconcileService {
	return &ReconcileService{
		DB:          db,
		Payments:    payments,
		Grace:       2 * time.Minute,
		MaxAttempts: 10,
		now:         time.Now,
	}
}

// ReconcileReport counts what one pass did.
type ReconcileReport struct {
	Scanned      int `json:"scanned"`
	Completed    int `json:"completed"`
	StillPending int `json:"still_pending"`
}

// PendingEvents lists credited events with a best-effort step outstanding.
func (s *ReconcileService) PendingEvents(ctx context.Context, olderThan time.Time, limit int) ([]models.WebhookEvent, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	var events []models.WebhookEvent
	err := s.DB.WithContext(ctx).
		Where("(referral_checked = ? OR loyalty_awarded = ?)", false, false).
		Where("created_at <= ? AND attempts < ?", olderThan, s.MaxAttempts).
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

// RetryPending runs one reconciliation pass over at most limit events.
func (s *ReconcileService) RetryPending(ctx context.Context, limit int) (ReconcileReport, error) {
	var report ReconcileReport

	events, err := s.PendingEvents(ctx, s.now().Add(-s.Grace), limit)
	if err != nil {
		return report, fmt.Errorf("list pending events: %w", err)
	}
	report.Scanned = len(events)

	for _, ev := range events {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		s.Payments.runSideEffects(ctx, ev)

		var fresh models.WebhookEvent
		if err := s.DB.WithContext(ctx).Where("id = ?", ev.ID).First(&fresh).Error; err != nil {
			return report, fmt.Errorf("reload event %s: %w", ev.ID, err)
		}
		if fresh.Pending() {
			report.StillPending++
		} else {
			report.Completed++
		}
	}

	if report.Scanned > 0 {
		log.Printf("🧾 [RECONCILE] scanned=%d completed=%d still_pending=%d",
			report.Scanned, report.Completed, report.StillPending)
	}
	return report, nil
}
