// config/config.go
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// R2Config holds Cloudflare R2 credentials for the payload archive.
// The archive is disabled when any field is empty.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
}

func (c R2Config) Enabled() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.AccessKeySecret != "" && c.Bucket != ""
}

// Config is everything the service needs at startup. It is built once in
// main and handed to constructors; nothing else reads the environment.
type Config struct {
	DatabaseURL    string
	Port           string
	AllowedOrigins []string

	WebhookSecret string
	GatewayToken  string

	NotifyURL   string
	NotifyToken string

	AccountSyncURL      string
	AccountSyncToken    string
	AccountSyncInterval time.Duration

	ReconcileInterval time.Duration

	R2 R2Config
}

// Load reads .env (if present) and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function so tests don't have to
// touch the real environment.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }

	var errs []error
	required := func(key string) string {
		v := get(key)
		if v == "" {
			errs = append(errs, fmt.Errorf("%s environment variable not set", key))
		}
		return v
	}
	duration := func(key string, def time.Duration) time.Duration {
		raw := get(key)
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("%s: invalid duration %q", key, raw))
			return def
		}
		return d
	}

	cfg := Config{
		DatabaseURL:   required("DATABASE_URL"),
		WebhookSecret: required("PAYMENTPOINT_SECRET_KEY"),
		GatewayToken:  required("GATEWAY_SERVICE_TOKEN"),

		Port: get("PORT"),

		NotifyURL:   strings.TrimRight(get("NOTIFY_SERVICE_URL"), "/"),
		NotifyToken: get("NOTIFY_SERVICE_TOKEN"),

		AccountSyncURL:      strings.TrimRight(get("ACCOUNT_SYNC_URL"), "/"),
		AccountSyncToken:    get("ACCOUNT_SYNC_TOKEN"),
		AccountSyncInterval: duration("ACCOUNT_SYNC_INTERVAL", 30*time.Second),

		ReconcileInterval: duration("RECONCILE_INTERVAL", 5*time.Minute),

		R2: R2Config{
			AccountID:       get("CLOUDFLARE_ACCOUNT_ID"),
			AccessKeyID:     get("R2_ACCESS_KEY_ID"),
			AccessKeySecret: get("R2_ACCESS_KEY_SECRET"),
			Bucket:          get("R2_BUCKET_NAME"),
		},
	}
	if cfg.Port == "" {
		cfg.Port = "5300"
	}

	origins := get("ALLOWED_ORIGINS")
	if origins == "" {
		origins = "http://localhost:3000"
	}
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	if cfg.AccountSyncURL != "" && cfg.AccountSyncToken == "" {
		errs = append(errs, errors.New("ACCOUNT_SYNC_TOKEN is required when ACCOUNT_SYNC_URL is set"))
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}
