package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"instantnums-wallet/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "pp-test-secret"

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Per-test in-memory database; a single connection serialises writers
	// the way row locks would in PostgreSQL.
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	require.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

func seedUser(t *testing.T, db *gorm.DB, u models.User) models.User {
	t.Helper()
	if u.ReferralCode == "" {
		u.ReferralCode = "REF-" + u.ID
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedAccount(t *testing.T, db *gorm.DB, userID, number string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Account{
		UserID:        userID,
		AccountNumber: number,
		AccountName:   "InstantNums-" + userID,
		BankName:      "PalmPay",
		IsActive:      true,
	}).Error)
}

func loadUser(t *testing.T, db *gorm.DB, id string) models.User {
	t.Helper()
	var u models.User
	require.NoError(t, db.Where("id = ?", id).First(&u).Error)
	return u
}

// rowCounts snapshots every table so tests can assert nothing was written.
func rowCounts(t *testing.T, db *gorm.DB) map[string]int64 {
	t.Helper()
	out := map[string]int64{}
	for _, m := range models.All() {
		var n int64
		require.NoError(t, db.Model(m).Count(&n).Error)
		out[fmt.Sprintf("%T", m)] = n
	}
	return out
}

func webhookJSON(t *testing.T, overrides map[string]any) []byte {
	t.Helper()
	body := map[string]any{
		"notification_status": "payment_successful",
		"transaction_id":      "TRX-0001",
		"amount_paid":         1000,
		"transaction_status":  "success",
		"sender":              map[string]any{"name": "A", "account_number": "0011223344", "bank": "GTBank"},
		"receiver":            map[string]any{"name": "InstantNums-A", "account_number": "1234567890", "bank": "PalmPay"},
		"customer":            map[string]any{"name": "A", "email": "a@b.com"},
		"description":         "Transfer",
		"timestamp":           "2026-10-14T10:00:00Z",
	}
	for k, v := range overrides {
		body[k] = v
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return raw
}

func newTestVerifier(t *testing.T) *SignatureVerifier {
	t.Helper()
	v, err := NewSignatureVerifier(testSecret)
	require.NoError(t, err)
	return v
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []DepositNotice
	sent    chan DepositNotice
	err     error
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{sent: make(chan DepositNotice, 16)}
}

func (n *recordingNotifier) DepositCredited(_ context.Context, d DepositNotice) error {
	n.mu.Lock()
	n.notices = append(n.notices, d)
	n.mu.Unlock()
	n.sent <- d
	return n.err
}

type memoryArchive struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func (a *memoryArchive) PutWebhook(_ context.Context, provider, transactionID string, body []byte) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.objects == nil {
		a.objects = map[string][]byte{}
	}
	key := provider + "/" + transactionID
	a.objects[key] = body
	return key, nil
}
