package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/airplanned/booking-backend/internal/database"
	"github.com/airplanned/booking-backend/internal/models"
	"github.com/airplanned/booking-backend/internal/utils"
	"github.com/sirupsen/logrus"
)

// AuditService records security and booking events in audit_logs
type AuditService struct {
	repo    *database.AuditRepository
	enabled bool
	logger  *logrus.Logger
}

// NewAuditService creates a new audit service. A disabled service writes nothing.
func NewAuditService(repo *database.AuditRepository, enabled bool, logger *logrus.Logger) *AuditService {
	return &AuditService{
		repo:    repo,
		enabled: enabled,
		logger:  logger,
	}
}

// AuditEvent represents an event to be logged
type AuditEvent struct {
	UserID     *int64                 // nil before authentication and for the admin
	Action     string                 // e.g. "login", "reservation", "payment"
	EntityType string                 // e.g. "user", "flight_booking"
	EntityID   *int64                 // ID of the affected entity (can be nil)
	IPAddress  string                 // Client IP address
	UserAgent  string                 // Client user agent
	Details    map[string]interface{} // Additional details as JSONB
}

// RequestMeta identifies the client behind an audited request
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// LogLogin logs a customer login attempt
func (s *AuditService) LogLogin(ctx context.Context, userID *int64, email string, success bool, meta RequestMeta) error {
	action := "login_failed"
	if success {
		action = "login"
	}
	return s.logEvent(ctx, AuditEvent{
		UserID:     userID,
		Action:     action,
		EntityType: "user",
		EntityID:   userID,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		Details: map[string]interface{}{
			"email":       email,
			"device_info": utils.ParseUserAgent(meta.UserAgent),
		},
	})
}

// LogAdminLogin logs a back-office login attempt
func (s *AuditService) LogAdminLogin(ctx context.Context, username string, success bool, meta RequestMeta) error {
	action := "admin_login_failed"
	if success {
		action = "admin_login"
	}
	return s.logEvent(ctx, AuditEvent{
		Action:     action,
		EntityType: "admin",
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		Details: map[string]interface{}{
			"username":    username,
			"device_info": utils.ParseUserAgent(meta.UserAgent),
		},
	})
}

// LogReservation logs the rows written by a reservation
func (s *AuditService) LogReservation(ctx context.Context, userID int64, result *models.ReservationResult, meta RequestMeta) error {
	primary := result.PrimaryID()
	return s.logEvent(ctx, AuditEvent{
		UserID:     &userID,
		Action:     "reservation",
		EntityType: string(result.Category) + "_booking",
		EntityID:   &primary,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		Details: map[string]interface{}{
			"booking_ids":     result.BookingIDs,
			"reservation_ref": result.ReservationRef.String(),
			"total_amount":    result.TotalAmount,
		},
	})
}

// LogPayment logs a completed payment transition
func (s *AuditService) LogPayment(ctx context.Context, userID int64, category models.Category, payment *PaymentResult, meta RequestMeta) error {
	return s.logEvent(ctx, AuditEvent{
		UserID:     &userID,
		Action:     "payment",
		EntityType: string(category) + "_booking",
		EntityID:   &payment.BookingID,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		Details: map[string]interface{}{
			"rows_paid": payment.RowsPaid,
			"card":      payment.MaskedCard,
		},
	})
}

// LogCancellation logs a cancellation transition
func (s *AuditService) LogCancellation(ctx context.Context, userID int64, category models.Category, outcome *models.CancelOutcome, meta RequestMeta) error {
	return s.logEvent(ctx, AuditEvent{
		UserID:     &userID,
		Action:     "cancellation",
		EntityType: string(category) + "_booking",
		EntityID:   &outcome.BookingID,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		Details: map[string]interface{}{
			"already_cancelled":  outcome.AlreadyCancelled,
			"inventory_restored": outcome.InventoryRestored,
		},
	})
}

// LogAdminChange logs an inventory change made in the back office
func (s *AuditService) LogAdminChange(ctx context.Context, action, entityType string, entityID int64, meta RequestMeta) error {
	return s.logEvent(ctx, AuditEvent{
		Action:     "admin_" + action,
		EntityType: entityType,
		EntityID:   &entityID,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	})
}

// logEvent writes the event to the database
func (s *AuditService) logEvent(ctx context.Context, event AuditEvent) error {
	if !s.enabled {
		return nil
	}

	var details []byte
	if len(event.Details) > 0 {
		var err error
		details, err = json.Marshal(event.Details)
		if err != nil {
			return fmt.Errorf("failed to marshal audit details: %w", err)
		}
	}

	err := s.repo.Insert(ctx, &database.AuditEntry{
		UserID:     event.UserID,
		Action:     event.Action,
		EntityType: event.EntityType,
		EntityID:   event.EntityID,
		IPAddress:  event.IPAddress,
		UserAgent:  event.UserAgent,
		Details:    details,
	})
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"action":      event.Action,
		"entity_type": event.EntityType,
	}).Debug("Audit event recorded")
	return nil
}
