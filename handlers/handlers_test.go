package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"instantnums-wallet/middleware"
	"instantnums-wallet/models"
	"instantnums-wallet/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const gatewayToken = "gw-token"

type testEnv struct {
	app      *fiber.App
	db       *gorm.DB
	payments *services.PaymentService
}

func setupApp(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	verifier, err := services.NewSignatureVerifier("pp-secret")
	require.NoError(t, err)
	payments := services.NewPaymentService(db, verifier, services.DefaultPolicy, nil, nil)
	reconciler := services.NewReconcileService(db, payments)

	app := fiber.New()
	SetupWebhookRoutes(app, payments)
	secured := app.Group("/s", middleware.GatewayAuthMiddleware(gatewayToken), middleware.UserContextMiddleware())
	SetupWalletRoutes(secured, payments.Ledger)
	SetupAdminRoutes(secured, reconciler)

	return &testEnv{app: app, db: db, payments: payments}
}

func (e *testEnv) postWebhook(t *testing.T, body []byte, signature string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/paymentpoint", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(services.SignatureHeader, signature)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp, decodeBody(t, resp)
}

func (e *testEnv) getSecured(t *testing.T, method, path, userID, roles string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+gatewayToken)
	req.Header.Set("X-User-ID", userID)
	if roles != "" {
		req.Header.Set("X-User-Roles", roles)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return out
}

func webhookBody(t *testing.T, status string) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"notification_status": "payment_successful",
		"transaction_status":  status,
		"transaction_id":      "TRX-100",
		"amount_paid":         1000,
		"receiver":            map[string]any{"account_number": "1234567890"},
		"customer":            map[string]any{"email": "a@b.com", "name": "A"},
	})
	require.NoError(t, err)
	return raw
}

func seed(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&models.User{ID: "u1", Email: "a@b.com", ReferralCode: "U1CODE"}).Error)
	require.NoError(t, db.Create(&models.Account{UserID: "u1", AccountNumber: "1234567890", IsActive: true}).Error)
}

func balance(t *testing.T, db *gorm.DB) decimal.Decimal {
	t.Helper()
	var u models.User
	require.NoError(t, db.Where("id = ?", "u1").First(&u).Error)
	return u.WalletBalanceNGN
}

func TestWebhookCreditsWallet(t *testing.T) {
	env := setupApp(t)
	seed(t, env.db)
	body := webhookBody(t, "success")

	resp, out := env.postWebhook(t, body, env.payments.Verifier.Sign(body))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "success", out["status"])
	require.Equal(t, "Wallet credited", out["message"])
	require.True(t, decimal.NewFromInt(980).Equal(balance(t, env.db)))

	resp, out = env.postWebhook(t, body, env.payments.Verifier.Sign(body))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Transaction already processed", out["message"])
	require.True(t, decimal.NewFromInt(980).Equal(balance(t, env.db)))
}

func TestWebhookStatusCodes(t *testing.T) {
	env := setupApp(t)
	seed(t, env.db)
	good := webhookBody(t, "success")

	resp, _ := env.postWebhook(t, good, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.postWebhook(t, good, "00ff")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	pending := webhookBody(t, "pending")
	resp, out := env.postWebhook(t, pending, env.payments.Verifier.Sign(pending))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Notification received", out["message"])

	malformed := []byte(`{"transaction_id":`)
	resp, _ = env.postWebhook(t, malformed, env.payments.Verifier.Sign(malformed))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	require.True(t, balance(t, env.db).IsZero())
}

func TestWebhookUnknownAccountIs404(t *testing.T) {
	env := setupApp(t)
	body := webhookBody(t, "success")

	resp, out := env.postWebhook(t, body, env.payments.Verifier.Sign(body))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "error", out["status"])

	var n int64
	require.NoError(t, env.db.Model(&models.WebhookEvent{}).Count(&n).Error)
	require.Zero(t, n)
}

func TestWalletRoutes(t *testing.T) {
	env := setupApp(t)
	seed(t, env.db)
	body := webhookBody(t, "success")
	resp, _ := env.postWebhook(t, body, env.payments.Verifier.Sign(body))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, out := env.getSecured(t, http.MethodGet, "/s/user/wallet", "u1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "980", out["wallet_balance_ngn"])
	require.Contains(t, out["wallet_balance_display"], "980.00")
	require.EqualValues(t, 98, out["loyalty_points"])

	resp, out = env.getSecured(t, http.MethodGet, "/s/user/transactions?page=1&size=10", "u1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 1, out["total_items"])
	require.Len(t, out["transactions"], 1)

	resp, _ = env.getSecured(t, http.MethodGet, "/s/user/wallet", "nobody", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminRoutes(t *testing.T) {
	env := setupApp(t)
	seed(t, env.db)
	body := webhookBody(t, "success")
	resp, _ := env.postWebhook(t, body, env.payments.Verifier.Sign(body))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.getSecured(t, http.MethodGet, "/s/admin/webhooks", "u1", "user")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, out := env.getSecured(t, http.MethodGet, "/s/admin/webhooks", "admin1", "admin")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 1, out["count"])

	resp, out = env.getSecured(t, http.MethodGet, "/s/admin/webhooks?pending=true", "admin1", "admin")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 0, out["count"])

	resp, out = env.getSecured(t, http.MethodPost, "/s/admin/reconcile", "admin1", "admin")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 0, out["scanned"])
}
