package services

import "errors"

var (
	// ErrInvalidPayload means the webhook body could not be used (HTTP 400).
	ErrInvalidPayload = errors.New("invalid webhook payload")
	// ErrUnauthorized means the signature header is missing or wrong (HTTP 401).
	ErrUnauthorized = errors.New("invalid webhook signature")
	// ErrAccountNotFound means neither the receiving account nor the payer
	// email maps to a user (HTTP 404, provider may retry).
	ErrAccountNotFound = errors.New("account not found")
	// ErrDuplicateDelivery means the provider transaction was already
	// credited. The webhook is acknowledged without side effects.
	ErrDuplicateDelivery = errors.New("webhook already processed")
	// ErrUserNotFound is returned by wallet reads for unknown users.
	ErrUserNotFound = errors.New("user not found")
)
