// services/payment_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"instantnums-wallet/models"
	"instantnums-wallet/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PayloadArchiver keeps a copy of raw webhook bodies outside the database.
type PayloadArchiver interface {
	PutWebhook(ctx context.Context, provider, transactionID string, body []byte) (string, error)
}

// Outcome statuses returned by HandleWebhook.
const (
	OutcomeCredited  = "credited"
	OutcomeDuplicate = "duplicate"
	OutcomeIgnored   = "ignored"
)

// WebhookOutcome summarises what one delivery did.
type WebhookOutcome struct {
	Status        string           `json:"status"`
	TransactionID string           `json:"transaction_id,omitempty"`
	UserID        string           `json:"user_id,omitempty"`
	Gross         *decimal.Decimal `json:"gross_amount,omitempty"`
	Fee           *decimal.Decimal `json:"fee,omitempty"`
	Net           *decimal.Decimal `json:"net_amount,omitempty"`
	LoyaltyPoints int64            `json:"loyalty_points,omitempty"`
	ReferralPaid  bool             `json:"referral_paid,omitempty"`
}

// PaymentService runs the PaymentPoint deposit pipeline:
// verify → classify → resolve → credit → referral → loyalty → archive → notify.
type PaymentService struct {
	DB       *gorm.DB
	Verifier *SignatureVerifier
	Resolver *AccountResolver
	Ledger   *LedgerService
	Referral *ReferralService
	Loyalty  *LoyaltyService
	Notifier Notifier
	Archive  PayloadArchiver // optional

	NotifyTimeout time.Duration
}

func NewPaymentService(db *gorm.DB, verifier *SignatureVerifier, policy Policy, notifier Notifier, archive PayloadArchiver) *PaymentService {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &PaymentService{
		DB:            db,
		Verifier:      verifier,
		Resolver:      NewAccountResolver(db),
		Ledger:        NewLedgerService(db, policy),
		Referral:      NewReferralService(db, policy),
		Loyalty:       NewLoyaltyService(db, policy),
		Notifier:      notifier,
		Archive:       archive,
		NotifyTimeout: 10 * time.Second,
	}
}

// HandleWebhook processes one delivery. Errors returned are only from the
// core path (signature, payload, resolution, credit); best-effort steps are
// logged and never change the outcome.
func (s *PaymentService) HandleWebhook(ctx context.Context, raw []byte, signature string) (*WebhookOutcome, error) {
	if err := s.Verifier.Verify(raw, signature); err != nil {
		return nil, err
	}

	hook, err := ParsePaymentPointWebhook(raw)
	if err != nil {
		return nil, err
	}

	if !hook.IsCreditable() {
		log.Printf("➡️ [WEBHOOK] Ignoring %s: notification_status=%q transaction_status=%q",
			hook.TransactionID, hook.NotificationStatus, hook.TransactionStatus)
		return &WebhookOutcome{Status: OutcomeIgnored, TransactionID: hook.TransactionID}, nil
	}
	if err := hook.Validate(); err != nil {
		return nil, err
	}

	who, err := s.Resolver.Resolve(ctx, hook.Receiver.AccountNumber, hook.Customer.Email)
	if err != nil {
		return nil, err
	}

	credit, err := s.Ledger.Credit(ctx, CreditInput{
		UserID:      who.UserID,
		Gross:       hook.AmountPaid,
		Provider:    ProviderPaymentPoint,
		Reference:   hook.TransactionID,
		Description: depositDescription(hook),
		Payload:     raw,
	})
	if errors.Is(err, ErrDuplicateDelivery) {
		log.Printf("🔁 [WEBHOOK] Duplicate delivery of %s for user %s, acknowledged", hook.TransactionID, who.UserID)
		return &WebhookOutcome{Status: OutcomeDuplicate, TransactionID: hook.TransactionID, UserID: who.UserID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("credit %s: %w", hook.TransactionID, err)
	}

	ev := credit.Event
	out := &WebhookOutcome{
		Status:        OutcomeCredited,
		TransactionID: hook.TransactionID,
		UserID:        who.UserID,
		Gross:         &ev.GrossAmount,
		Fee:           &ev.Fee,
		Net:           &ev.NetAmount,
	}
	log.Printf("✅ [WEBHOOK] Credited %s to %s (gross %s, fee %s, matched by %s, ref %s)",
		utils.FormatNaira(ev.NetAmount), who.UserID, ev.GrossAmount, ev.Fee, who.MatchedBy, hook.TransactionID)

	out.ReferralPaid, out.LoyaltyPoints = s.runSideEffects(ctx, ev)

	s.archive(ctx, &ev, raw)
	s.notify(ev, hook)

	return out, nil
}

// runSideEffects runs referral settlement and loyalty accrual for a credited
// event. Failures are logged and recorded on the event for the reconciler.
func (s *PaymentService) runSideEffects(ctx context.Context, ev models.WebhookEvent) (referralPaid bool, points int64) {
	var failures []error

	earning, err := s.Referral.Settle(ctx, ev.UserID, ev.GrossAmount, ev.TransactionID, ev.ID)
	if err != nil {
		log.Printf("❌ [REFERRAL] Settlement failed for user %s (ref %s): %v", ev.UserID, ev.TransactionID, err)
		failures = append(failures, fmt.Errorf("referral: %w", err))
	}
	referralPaid = earning != nil

	points, err = s.Loyalty.Accrue(ctx, ev.UserID, ev.NetAmount, ev.TransactionID, ev.ID)
	if err != nil {
		log.Printf("❌ [LOYALTY] Accrual failed for user %s (ref %s): %v", ev.UserID, ev.TransactionID, err)
		failures = append(failures, fmt.Errorf("loyalty: %w", err))
	}

	s.recordAttempt(ctx, ev.ID, errors.Join(failures...))
	return referralPaid, points
}

func (s *PaymentService) recordAttempt(ctx context.Context, eventID string, failure error) {
	lastError := ""
	if failure != nil {
		lastError = failure.Error()
	}
	if err := s.DB.WithContext(ctx).Model(&models.WebhookEvent{}).
		Where("id = ?", eventID).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": lastError,
		}).Error; err != nil {
		log.Printf("⚠️ [WEBHOOK] Could not record attempt on event %s: %v", eventID, err)
	}
}

func (s *PaymentService) archive(ctx context.Context, ev *models.WebhookEvent, raw []byte) {
	if s.Archive == nil {
		return
	}
	key, err := s.Archive.PutWebhook(ctx, ev.Provider, ev.TransactionID, raw)
	if err != nil {
		log.Printf("⚠️ [ARCHIVE] Failed to archive %s: %v", ev.TransactionID, err)
		return
	}
	ev.ArchiveKey = key
	if err := s.DB.WithContext(ctx).Model(&models.WebhookEvent{}).
		Where("id = ?", ev.ID).
		Update("archive_key", key).Error; err != nil {
		log.Printf("⚠️ [ARCHIVE] Stored %s but could not save key: %v", key, err)
	}
}

// notify is fire-and-forget: it outlives the request and never reports back.
func (s *PaymentService) notify(ev models.WebhookEvent, hook *PaymentPointWebhook) {
	notice := DepositNotice{
		UserID:     ev.UserID,
		Email:      hook.Customer.Email,
		Name:       hook.Customer.Name,
		Gross:      ev.GrossAmount,
		Fee:        ev.Fee,
		Net:        ev.NetAmount,
		Display:    utils.FormatNaira(ev.NetAmount),
		Reference:  ev.TransactionID,
		Provider:   ev.Provider,
		CreditedAt: time.Now().UTC(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.NotifyTimeout)
		defer cancel()
		if u, err := s.Ledger.GetUser(ctx, notice.UserID); err == nil && u.Email != "" {
			notice.Email = u.Email
			if u.Name != "" {
				notice.Name = u.Name
			}
		}
		if err := s.Notifier.DepositCredited(ctx, notice); err != nil {
			log.Printf("⚠️ [NOTIFY] Deposit email for %s (ref %s) failed: %v", notice.UserID, notice.Reference, err)
		}
	}()
}

func depositDescription(hook *PaymentPointWebhook) string {
	from := hook.Sender.Name
	if from == "" {
		from = hook.Customer.Name
	}
	if from == "" {
		return "Wallet funding via PaymentPoint"
	}
	return fmt.Sprintf("Wallet funding via PaymentPoint from %s", from)
}
