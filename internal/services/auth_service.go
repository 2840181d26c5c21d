package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/airplanned/booking-backend/internal/database"
	"github.com/airplanned/booking-backend/internal/models"
	"github.com/airplanned/booking-backend/internal/utils"
	"github.com/airplanned/booking-backend/pkg/jwt"
	"github.com/airplanned/booking-backend/pkg/validator"
	"github.com/sirupsen/logrus"
)

const minPasswordLength = 6

// ErrInvalidCredentials is returned for a wrong email/username or password
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService handles customer signup and login
type AuthService struct {
	users      *database.UserRepository
	jwtService *jwt.Service
	bcryptCost int
	logger     *logrus.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users *database.UserRepository, jwtService *jwt.Service, bcryptCost int, logger *logrus.Logger) *AuthService {
	return &AuthService{
		users:      users,
		jwtService: jwtService,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Signup validates the form and creates a customer account
func (s *AuthService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.TrimSpace(req.Email)

	if fullName == "" || email == "" || req.Password == "" || req.ConfirmPassword == "" {
		return nil, validationf("All fields are required")
	}
	if !validator.ValidEmail(email) {
		return nil, validationf("Please enter a valid email address")
	}
	if req.Password != req.ConfirmPassword {
		return nil, validationf("Passwords do not match")
	}
	if len(req.Password) < minPasswordLength {
		return nil, validationf("Password must be at least %d characters long", minPasswordLength)
	}

	hash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	first, last := models.SplitFullName(fullName)
	user := &models.User{
		FirstName:    first,
		LastName:     last,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			return nil, validationf("Email already registered. Please use a different email.")
		}
		return nil, classify(err, "")
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User registered")

	return user, nil
}

// Login checks the password and issues a session token
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, "", validationf("Email and password are required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", classify(err, "")
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateCustomerToken(user.ID, user.Email, user.FullName())
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate session token: %w", err)
	}

	return user, token, nil
}
