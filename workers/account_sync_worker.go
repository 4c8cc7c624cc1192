// workers/account_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"instantnums-wallet/models"
	"instantnums-wallet/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RemoteAccount is a virtual account as the platform account service
// reports it.
type RemoteAccount struct {
	UserID        string    `json:"user_id"`
	AccountNumber string    `json:"account_number"`
	AccountName   string    `json:"account_name"`
	BankName      string    `json:"bank_name"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// AccountSyncClient mirrors PaymentPoint virtual accounts from the platform
// account service into the local accounts table.
type AccountSyncClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	DB         *gorm.DB
}

func NewAccountSyncClient(db *gorm.DB, baseURL, token string) *AccountSyncClient {
	return &AccountSyncClient{
		BaseURL:    baseURL,
		Token:      token,
		DB:         db,
		HTTPClient: utils.NewHTTPClient(30 * time.Second),
	}
}

func (c *AccountSyncClient) GetNewAccounts(ctx context.Context, since time.Time) ([]RemoteAccount, error) {
	u, err := url.Parse(fmt.Sprintf("%s/api/v1/public/accounts", c.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	q := u.Query()
	q.Set("since", since.UTC().Format(time.RFC3339))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Service-Token", c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call account service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("account service returned status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Accounts []RemoteAccount `json:"accounts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode account service response: %w", err)
	}
	return response.Accounts, nil
}

// Store inserts accounts not seen before. Existing rows are never updated:
// an account belongs to its user permanently. Returns the number inserted.
func (c *AccountSyncClient) Store(ctx context.Context, remote []RemoteAccount) (int64, error) {
	accounts := make([]models.Account, 0, len(remote))
	for _, r := range remote {
		if r.UserID == "" || r.AccountNumber == "" {
			log.Printf("⚠️ [ACCOUNT_SYNC] Skipping incomplete account record %+v", r)
			continue
		}
		accounts = append(accounts, models.Account{
			UserID:        r.UserID,
			AccountNumber: r.AccountNumber,
			AccountName:   r.AccountName,
			BankName:      r.BankName,
			IsActive:      r.IsActive,
		})
	}
	if len(accounts) == 0 {
		return 0, nil
	}

	res := c.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&accounts)
	return res.RowsAffected, res.Error
}

// SyncOnce fetches and stores one batch.
func (c *AccountSyncClient) SyncOnce(ctx context.Context, since time.Time) (int64, error) {
	remote, err := c.GetNewAccounts(ctx, since)
	if err != nil {
		return 0, err
	}
	return c.Store(ctx, remote)
}

// PollAccounts syncs every pollInterval until ctx is done.
func PollAccounts(ctx context.Context, client *AccountSyncClient, pollInterval time.Duration) {
	log.Println("Starting account polling (DB-backed)...")
	lastSyncTime := time.Time{} // first pass backfills everything

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		pollStart := time.Now().UTC()
		inserted, err := client.SyncOnce(ctx, lastSyncTime)
		if err != nil {
			// keep the watermark so the same window is retried
			log.Printf("❌ Error polling accounts: %v", err)
		} else {
			lastSyncTime = pollStart
			if inserted > 0 {
				log.Printf("✅ Inserted %d new account(s).", inserted)
			}
		}

		select {
		case <-ctx.Done():
			log.Println("Account polling stopped.")
			return
		case <-ticker.C:
		}
	}
}
