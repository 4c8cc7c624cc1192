// services/notifier.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"instantnums-wallet/utils"

	"github.com/shopspring/decimal"
)

// DepositNotice is what the notification service needs to email a user
// about a credited deposit.
type DepositNotice struct {
	UserID     string          `json:"user_id"`
	Email      string          `json:"email"`
	Name       string          `json:"name"`
	Gross      decimal.Decimal `json:"gross_amount"`
	Fee        decimal.Decimal `json:"fee"`
	Net        decimal.Decimal `json:"net_amount"`
	Display    string          `json:"display_amount"`
	Reference  string          `json:"reference"`
	Provider   string          `json:"provider"`
	CreditedAt time.Time       `json:"credited_at"`
}

// Notifier delivers deposit notifications. Callers treat it as
// fire-and-forget.
type Notifier interface {
	DepositCredited(ctx context.Context, n DepositNotice) error
}

// HTTPNotifier posts notices to the platform notification service.
type HTTPNotifier struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func NewHTTPNotifier(baseURL, token string) *HTTPNotifier {
	return &HTTPNotifier{
		BaseURL: baseURL,
		Token:   token,
		Client:  utils.NewHTTPClient(10 * time.Second),
	}
}

func (c *HTTPNotifier) DepositCredited(ctx context.Context, n DepositNotice) error {
	url := fmt.Sprintf("%s/notifications/deposit", c.BaseURL)

	jsonData, err := json.Marshal(n)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("notification service returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// LogNotifier only logs; used when no notification service is configured.
type LogNotifier struct{}

func (LogNotifier) DepositCredited(_ context.Context, n DepositNotice) error {
	log.Printf("📧 [NOTIFY] (log only) deposit of %s credited to %s <%s>, ref %s", n.Display, n.UserID, n.Email, n.Reference)
	return nil
}
