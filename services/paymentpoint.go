// services/paymentpoint.go
package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ProviderPaymentPoint tags transactions and webhook events from PaymentPoint.
const ProviderPaymentPoint = "paymentpoint"

const (
	NotificationPaymentSuccessful = "payment_successful"
	TransactionStatusSuccess      = "success"
)

type PaymentPointParty struct {
	Name          string `json:"name"`
	AccountNumber string `json:"account_number"`
	Bank          string `json:"bank"`
}

type PaymentPointCustomer struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	CustomerID string `json:"customer_id"`
}

// PaymentPointWebhook is the notification body PaymentPoint posts when a
// transfer lands in one of the virtual accounts.
type PaymentPointWebhook struct {
	NotificationStatus string               `json:"notification_status"`
	TransactionID      string               `json:"transaction_id"`
	AmountPaid         decimal.Decimal      `json:"amount_paid"`
	SettlementAmount   decimal.NullDecimal  `json:"settlement_amount"`
	SettlementFee      decimal.NullDecimal  `json:"settlement_fee"`
	TransactionStatus  string               `json:"transaction_status"`
	Sender             PaymentPointParty    `json:"sender"`
	Receiver           PaymentPointParty    `json:"receiver"`
	Customer           PaymentPointCustomer `json:"customer"`
	Description        string               `json:"description"`
	Timestamp          string               `json:"timestamp"`
}

// ParsePaymentPointWebhook decodes a raw webhook body.
func ParsePaymentPointWebhook(raw []byte) (*PaymentPointWebhook, error) {
	var w PaymentPointWebhook
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return &w, nil
}

// IsCreditable is true only for a completed, successful payment. Every other
// combination is acknowledged and ignored.
func (w *PaymentPointWebhook) IsCreditable() bool {
	return w.NotificationStatus == NotificationPaymentSuccessful &&
		w.TransactionStatus == TransactionStatusSuccess
}

// Validate checks the fields the credit path depends on.
func (w *PaymentPointWebhook) Validate() error {
	if strings.TrimSpace(w.TransactionID) == "" {
		return fmt.Errorf("%w: transaction_id is required", ErrInvalidPayload)
	}
	if !w.AmountPaid.IsPositive() {
		return fmt.Errorf("%w: amount_paid must be positive", ErrInvalidPayload)
	}
	if strings.TrimSpace(w.Receiver.AccountNumber) == "" && strings.TrimSpace(w.Customer.Email) == "" {
		return fmt.Errorf("%w: receiver.account_number or customer.email is required", ErrInvalidPayload)
	}
	return nil
}
