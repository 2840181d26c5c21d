package services

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/airplanned/booking-backend/internal/config"
	"github.com/airplanned/booking-backend/internal/utils"
	"github.com/airplanned/booking-backend/pkg/jwt"
)

// ErrAdminDisabled is returned when no admin password hash is configured
var ErrAdminDisabled = fmt.Errorf("admin login is not configured")

// AdminAuthService checks back-office credentials against the configured bcrypt hash
type AdminAuthService struct {
	username     string
	passwordHash string
	jwtService   *jwt.Service
}

// NewAdminAuthService creates a new admin auth service
func NewAdminAuthService(cfg config.AdminConfig, jwtService *jwt.Service) *AdminAuthService {
	return &AdminAuthService{
		username:     cfg.Username,
		passwordHash: cfg.PasswordHash,
		jwtService:   jwtService,
	}
}

// Enabled reports whether admin login is possible
func (s *AdminAuthService) Enabled() bool {
	return s.username != "" && s.passwordHash != ""
}

// Login authenticates the admin and returns a session token
func (s *AdminAuthService) Login(username, password string) (string, error) {
	if !s.Enabled() {
		return "", ErrAdminDisabled
	}

	username = strings.TrimSpace(username)
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	// bcrypt runs even when the username is wrong
	passOK := utils.CheckPassword(s.passwordHash, password)
	if !userOK || !passOK {
		return "", ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateAdminToken(s.username)
	if err != nil {
		return "", fmt.Errorf("failed to generate admin token: %w", err)
	}
	return token, nil
}
