package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-session-secret-key-for-testing-purposes"

func TestNewService(t *testing.T) {
	service := NewService(testSecret, time.Hour)

	assert.NotNil(t, service)
	assert.Equal(t, testSecret, service.secret)
	assert.Equal(t, time.Hour, service.SessionTTL())
}

func TestGenerateCustomerToken(t *testing.T) {
	service := NewService(testSecret, time.Hour)

	token, err := service.GenerateCustomerToken(42, "jane@example.com", "Jane Doe")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "Jane Doe", claims.Name)
	assert.True(t, claims.HasRole(RoleCustomer))
	assert.False(t, claims.HasRole(RoleAdmin))
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "airplanned-booking", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestGenerateAdminToken(t *testing.T) {
	service := NewService(testSecret, time.Hour)

	token, err := service.GenerateAdminToken("ops")
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, claims.HasRole(RoleAdmin))
	assert.Equal(t, int64(0), claims.UserID)
	assert.Equal(t, "admin:ops", claims.Subject)
}

func TestValidateToken(t *testing.T) {
	service := NewService(testSecret, time.Hour)

	token, err := service.GenerateCustomerToken(7, "a@b.co", "A")
	require.NoError(t, err)

	t.Run("Garbage", func(t *testing.T) {
		_, err := service.ValidateToken("invalid.token.here")
		assert.Error(t, err)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		wrongService := NewService("another-secret-key-for-testing-purposes", time.Hour)
		_, err := wrongService.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("Wrong issuer", func(t *testing.T) {
		claims := Claims{
			UserID: 7,
			Roles:  []string{RoleCustomer},
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "someone-else",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = service.ValidateToken(forged)
		assert.Error(t, err)
	})

	t.Run("No roles", func(t *testing.T) {
		claims := Claims{
			UserID: 7,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    issuer,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = service.ValidateToken(forged)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no roles")
	})
}

func TestExpiredToken(t *testing.T) {
	service := NewService(testSecret, -time.Hour)

	token, err := service.GenerateCustomerToken(1, "a@b.co", "A")
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.Error(t, err)
	assert.True(t, service.IsTokenExpired(token))
}

func TestIsTokenExpired(t *testing.T) {
	service := NewService(testSecret, time.Hour)

	token, err := service.GenerateCustomerToken(1, "a@b.co", "A")
	require.NoError(t, err)

	assert.False(t, service.IsTokenExpired(token))
	assert.True(t, service.IsTokenExpired("invalid.token.here"))
}

func TestTokenSigningMethod(t *testing.T) {
	service := NewService(testSecret, time.Hour)

	token, err := service.GenerateCustomerToken(1, "a@b.co", "A")
	require.NoError(t, err)

	parsedToken, err := jwt.ParseWithClaims(token, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)

	_, ok := parsedToken.Method.(*jwt.SigningMethodHMAC)
	assert.True(t, ok, "Token should use HMAC signing method")
}

func TestConcurrentTokenGeneration(t *testing.T) {
	service := NewService(testSecret, time.Hour)

	done := make(chan bool)
	errors := make(chan error, 50)

	for i := 0; i < 50; i++ {
		go func(id int64) {
			defer func() { done <- true }()

			token, err := service.GenerateCustomerToken(id, "a@b.co", "A")
			if err != nil {
				errors <- err
				return
			}
			if _, err := service.ValidateToken(token); err != nil {
				errors <- err
			}
		}(int64(i + 1))
	}

	for i := 0; i < 50; i++ {
		<-done
	}

	close(errors)
	assert.Empty(t, errors)
}
