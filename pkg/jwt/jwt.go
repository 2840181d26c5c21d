package jwt

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "airplanned-booking"

// Roles carried in session tokens
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Claims represents the session token claims
type Claims struct {
	UserID int64    `json:"user_id,omitempty"`
	Email  string   `json:"email,omitempty"`
	Name   string   `json:"name,omitempty"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// HasRole reports whether the claims carry role
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Service issues and validates session tokens
type Service struct {
	secret     string
	sessionTTL time.Duration
}

// NewService creates a new JWT service
func NewService(secret string, sessionTTL time.Duration) *Service {
	return &Service{
		secret:     secret,
		sessionTTL: sessionTTL,
	}
}

// SessionTTL returns how long issued tokens stay valid
func (s *Service) SessionTTL() time.Duration {
	return s.sessionTTL
}

// GenerateCustomerToken issues a session token for a signed-in customer
func (s *Service) GenerateCustomerToken(userID int64, email, name string) (string, error) {
	return s.sign(Claims{
		UserID: userID,
		Email:  email,
		Name:   name,
		Roles:  []string{RoleCustomer},
	}, strconv.FormatInt(userID, 10))
}

// GenerateAdminToken issues a session token for the back-office operator
func (s *Service) GenerateAdminToken(username string) (string, error) {
	return s.sign(Claims{
		Name:  username,
		Roles: []string{RoleAdmin},
	}, "admin:"+username)
}

func (s *Service) sign(claims Claims, subject string) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    issuer,
		Subject:   subject,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates and parses a session token
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	if len(claims.Roles) == 0 {
		return nil, fmt.Errorf("token carries no roles")
	}

	return claims, nil
}

// ExtractClaims extracts claims from a token without validation (for debugging)
func (s *Service) ExtractClaims(tokenString string) (*Claims, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, &Claims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}

// IsTokenExpired checks if a token is expired
func (s *Service) IsTokenExpired(tokenString string) bool {
	claims, err := s.ExtractClaims(tokenString)
	if err != nil {
		return true
	}

	if claims.ExpiresAt == nil {
		return true
	}

	return claims.ExpiresAt.Time.Before(time.Now())
}
