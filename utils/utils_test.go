package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestWebhookKey(t *testing.T) {
	at := time.Date(2026, 10, 14, 23, 30, 0, 0, time.FixedZone("WAT", 3600))
	require.Equal(t, "webhooks/paymentpoint/2026/10/14/trx-123.json", WebhookKey("PaymentPoint", "TRX-123", at))

	// the key stays a flat path whatever the provider sends
	key := WebhookKey("paymentpoint", "../etc/passwd", at)
	require.NotContains(t, key, "..")
	require.Regexp(t, `^webhooks/paymentpoint/2026/10/14/[a-z0-9-]+\.json$`, key)
}

func TestFormatNaira(t *testing.T) {
	require.Contains(t, FormatNaira(decimal.NewFromInt(980)), "980.00")
	require.Contains(t, FormatNaira(decimal.RequireFromString("9.995")), "10.00")
	require.Contains(t, FormatNaira(decimal.RequireFromString("0.5")), "0.50")
}
