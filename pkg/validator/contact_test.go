package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testMember struct {
	Name  string `validate:"required,max=10"`
	Email string `validate:"required,email"`
	Phone string `validate:"required,contact_phone"`
}

func TestStructValidator(t *testing.T) {
	v := NewStructValidator()

	t.Run("Valid", func(t *testing.T) {
		err := v.Struct(testMember{Name: "Jane", Email: "jane@example.com", Phone: "+1 555 123 4567"})
		assert.NoError(t, err)
	})

	t.Run("All fields invalid", func(t *testing.T) {
		err := v.Struct(testMember{Name: "", Email: "not-an-email", Phone: "12"})
		require.Error(t, err)

		var fieldErrs FieldErrors
		require.ErrorAs(t, err, &fieldErrs)
		assert.Len(t, fieldErrs, 3)
		assert.Equal(t, "name", fieldErrs[0].Field)
		assert.Equal(t, "is required", fieldErrs[0].Message)
		assert.Equal(t, "must be a valid email address", fieldErrs[1].Message)
		assert.Equal(t, "must be a valid phone number", fieldErrs[2].Message)
	})

	t.Run("Too long", func(t *testing.T) {
		err := v.Struct(testMember{Name: "Bartholomew Q", Email: "b@example.com", Phone: "5551234567"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at most 10 characters")
	})
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("user@example.com"))
	assert.False(t, ValidEmail("user@example"))
	assert.False(t, ValidEmail("user @example.com"))
	assert.False(t, ValidEmail(""))
}
