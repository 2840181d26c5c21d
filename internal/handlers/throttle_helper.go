package handlers

import (
	"errors"

	"github.com/airplanned/booking-backend/internal/services"
	"github.com/airplanned/booking-backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// loginGuard wraps the login throttle. Storage failures are logged and the
// attempt goes ahead.
type loginGuard struct {
	throttle *services.LoginThrottleService
	logger   *logrus.Logger
}

// blocked returns the lockout message when the account or client is throttled
func (g loginGuard) blocked(c *gin.Context, account string) (string, bool) {
	err := g.throttle.Check(c.Request.Context(), account, utils.GetRealIP(c))
	if err == nil {
		return "", false
	}

	var throttled *services.ThrottledError
	if errors.As(err, &throttled) {
		return throttled.Message, true
	}
	g.logger.WithError(err).Warn("Login throttle check failed")
	return "", false
}

func (g loginGuard) failed(c *gin.Context, account string) {
	if err := g.throttle.RecordFailure(c.Request.Context(), account, utils.GetRealIP(c)); err != nil {
		g.logger.WithError(err).Warn("Failed to record login failure")
	}
}

func (g loginGuard) succeeded(c *gin.Context, account string) {
	if err := g.throttle.Reset(c.Request.Context(), account); err != nil {
		g.logger.WithError(err).Warn("Failed to reset login failures")
	}
}
