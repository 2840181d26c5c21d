package validator

import (
	"errors"
	"regexp"
	"strings"
)

// Card format errors. Messages are shown to the customer as-is.
var (
	ErrPaymentFieldsRequired = errors.New("All payment fields are required")
	ErrCardNumberLength      = errors.New("Card number must be 16 digits")
	ErrExpiryFormat          = errors.New("Expiry date must be in MM/YY format")
	ErrCVVFormat             = errors.New("CVV must be 3 digits")
)

var (
	cardNumberRegex = regexp.MustCompile(`^\d{16}$`)
	expiryRegex     = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvvRegex        = regexp.MustCompile(`^\d{3}$`)
)

// CardInput is the raw card data submitted with a payment form
type CardInput struct {
	Number     string
	Expiry     string
	CVV        string
	HolderName string
}

// CardValidator checks payment card format. No authorization is performed.
type CardValidator struct{}

// NewCardValidator creates a new card validator
func NewCardValidator() *CardValidator {
	return &CardValidator{}
}

// Validate checks the card fields in order: presence, number, expiry, CVV.
// The first failing rule is returned.
func (v *CardValidator) Validate(card CardInput) error {
	if strings.TrimSpace(card.Number) == "" ||
		strings.TrimSpace(card.Expiry) == "" ||
		strings.TrimSpace(card.CVV) == "" ||
		strings.TrimSpace(card.HolderName) == "" {
		return ErrPaymentFieldsRequired
	}

	if !cardNumberRegex.MatchString(v.SanitizeNumber(card.Number)) {
		return ErrCardNumberLength
	}

	if !expiryRegex.MatchString(strings.TrimSpace(card.Expiry)) {
		return ErrExpiryFormat
	}

	if !cvvRegex.MatchString(strings.TrimSpace(card.CVV)) {
		return ErrCVVFormat
	}

	return nil
}

// SanitizeNumber strips spaces from a card number
func (v *CardValidator) SanitizeNumber(number string) string {
	return strings.ReplaceAll(number, " ", "")
}

// Mask returns the card number with all but the last four digits hidden
func (v *CardValidator) Mask(number string) string {
	n := v.SanitizeNumber(number)
	if len(n) <= 4 {
		return n
	}
	return strings.Repeat("*", len(n)-4) + n[len(n)-4:]
}
