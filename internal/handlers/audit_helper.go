package handlers

import (
	"context"

	"github.com/airplanned/booking-backend/internal/models"
	"github.com/airplanned/booking-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// auditor writes audit events without failing the request
type auditor struct {
	audit  *services.AuditService
	logger *logrus.Logger
}

// logAuditError is a helper to log audit service errors without failing the request
func (a auditor) logAuditError(operation string, err error) {
	if err != nil {
		a.logger.WithFields(logrus.Fields{
			"operation": operation,
			"error":     err.Error(),
		}).Error("Audit write failed")
	}
}

func (a auditor) safeLogLogin(ctx context.Context, userID *int64, email string, success bool, meta services.RequestMeta) {
	a.logAuditError("LogLogin", a.audit.LogLogin(ctx, userID, email, success, meta))
}

func (a auditor) safeLogAdminLogin(ctx context.Context, username string, success bool, meta services.RequestMeta) {
	a.logAuditError("LogAdminLogin", a.audit.LogAdminLogin(ctx, username, success, meta))
}

func (a auditor) safeLogReservation(ctx context.Context, userID int64, result *models.ReservationResult, meta services.RequestMeta) {
	a.logAuditError("LogReservation", a.audit.LogReservation(ctx, userID, result, meta))
}

func (a auditor) safeLogPayment(ctx context.Context, userID int64, category models.Category, payment *services.PaymentResult, meta services.RequestMeta) {
	a.logAuditError("LogPayment", a.audit.LogPayment(ctx, userID, category, payment, meta))
}

func (a auditor) safeLogCancellation(ctx context.Context, userID int64, category models.Category, outcome *models.CancelOutcome, meta services.RequestMeta) {
	a.logAuditError("LogCancellation", a.audit.LogCancellation(ctx, userID, category, outcome, meta))
}

func (a auditor) safeLogAdminChange(ctx context.Context, action, entityType string, id int64, meta services.RequestMeta) {
	a.logAuditError("LogAdminChange", a.audit.LogAdminChange(ctx, action, entityType, id, meta))
}
