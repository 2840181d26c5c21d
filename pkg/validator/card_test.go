package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validCard() CardInput {
	return CardInput{
		Number:     "4111111111111111",
		Expiry:     "09/27",
		CVV:        "123",
		HolderName: "Jane Doe",
	}
}

func TestCardValidator_Valid(t *testing.T) {
	v := NewCardValidator()

	assert.NoError(t, v.Validate(validCard()))

	spaced := validCard()
	spaced.Number = "4111 1111 1111 1111"
	assert.NoError(t, v.Validate(spaced))
}

func TestCardValidator_Invalid(t *testing.T) {
	v := NewCardValidator()

	tests := []struct {
		name        string
		mutate      func(c *CardInput)
		expectedErr error
	}{
		{"Missing number", func(c *CardInput) { c.Number = "" }, ErrPaymentFieldsRequired},
		{"Missing holder", func(c *CardInput) { c.HolderName = " " }, ErrPaymentFieldsRequired},
		{"Missing CVV", func(c *CardInput) { c.CVV = "" }, ErrPaymentFieldsRequired},
		{"Short number", func(c *CardInput) { c.Number = "411111111111111" }, ErrCardNumberLength},
		{"Long number", func(c *CardInput) { c.Number = "41111111111111111" }, ErrCardNumberLength},
		{"Dashed number", func(c *CardInput) { c.Number = "4111-1111-1111-1111" }, ErrCardNumberLength},
		{"Letters in number", func(c *CardInput) { c.Number = "411111111111111a" }, ErrCardNumberLength},
		{"Expiry without slash", func(c *CardInput) { c.Expiry = "0927" }, ErrExpiryFormat},
		{"Expiry four digit year", func(c *CardInput) { c.Expiry = "09/2027" }, ErrExpiryFormat},
		{"CVV too long", func(c *CardInput) { c.CVV = "1234" }, ErrCVVFormat},
		{"CVV letters", func(c *CardInput) { c.CVV = "12a" }, ErrCVVFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := validCard()
			tt.mutate(&card)
			assert.ErrorIs(t, v.Validate(card), tt.expectedErr)
		})
	}
}

func TestCardValidator_RuleOrder(t *testing.T) {
	v := NewCardValidator()

	// number is checked before expiry and CVV
	card := CardInput{Number: "123", Expiry: "bad", CVV: "bad", HolderName: "X"}
	assert.ErrorIs(t, v.Validate(card), ErrCardNumberLength)
}

func TestCardValidator_Mask(t *testing.T) {
	v := NewCardValidator()
	assert.Equal(t, "************1111", v.Mask("4111 1111 1111 1111"))
	assert.Equal(t, "12", v.Mask("12"))
}
