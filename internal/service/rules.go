package service

import "strings"

const (
	msgMissingSecretKey     = "Missing Stripe secret key"
	msgMissingSigningSecret = "Missing webhook signing secret"
	msgMissingProvider      = "payment provider client is required"

	msgRedirectsRequired = "successUrl and cancelUrl are required"
	msgAmountInvalid     = "Amount must be a positive number for one-time payments"
	msgCurrencyRequired  = "Currency is required for one-time payments"
	msgPriceIDRequired   = "priceId required for subscription mode"
	msgUnsupportedMode   = "Unsupported session mode"
	msgSessionFailed     = "Failed to create session"

	msgPaymentIntentRequired = "paymentIntentId is required to refund"
	msgLimitInvalid          = "limit must be greater than 0"
	msgEventRequired         = "event is required"
)

// The rules below are pure and run before any remote call.

func validateSecret(secret, message string) error {
	if strings.TrimSpace(secret) == "" {
		return newConfigurationError(message)
	}

	return nil
}

func validateRedirects(successURL, cancelURL string) error {
	if successURL == "" || cancelURL == "" {
		return newValidationError(msgRedirectsRequired)
	}

	return nil
}

func validatePaymentMode(amount int64, currency string) error {
	if amount <= 0 {
		return newValidationError(msgAmountInvalid)
	}

	if currency == "" {
		return newValidationError(msgCurrencyRequired)
	}

	return nil
}

func validateSubscriptionMode(priceID string) error {
	if priceID == "" {
		return newValidationError(msgPriceIDRequired)
	}

	return nil
}

func validateRefundTarget(paymentIntentID string) error {
	if paymentIntentID == "" {
		return newValidationError(msgPaymentIntentRequired)
	}

	return nil
}

func validateListLimit(limit int64) error {
	if limit <= 0 {
		return newValidationError(msgLimitInvalid)
	}

	return nil
}
