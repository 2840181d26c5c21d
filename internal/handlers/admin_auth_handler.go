package handlers

import (
	"errors"
	"net/http"

	"github.com/airplanned/booking-backend/internal/middleware"
	"github.com/airplanned/booking-backend/internal/models"
	"github.com/airplanned/booking-backend/internal/services"
	"github.com/airplanned/booking-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AdminAuthHandler handles back-office login and logout
type AdminAuthHandler struct {
	auditor
	loginGuard
	adminAuthService *services.AdminAuthService
	jwtService       *jwt.Service
	secureCookies    bool
	logger           *logrus.Logger
}

// NewAdminAuthHandler creates a new admin auth handler
func NewAdminAuthHandler(
	adminAuthService *services.AdminAuthService,
	auditService *services.AuditService,
	throttle *services.LoginThrottleService,
	jwtService *jwt.Service,
	secureCookies bool,
	logger *logrus.Logger,
) *AdminAuthHandler {
	return &AdminAuthHandler{
		auditor:          auditor{audit: auditService, logger: logger},
		loginGuard:       loginGuard{throttle: throttle, logger: logger},
		adminAuthService: adminAuthService,
		jwtService:       jwtService,
		secureCookies:    secureCookies,
		logger:           logger,
	}
}

// LoginPage handles GET /admin
func (h *AdminAuthHandler) LoginPage(c *gin.Context) {
	if middleware.GetSession(c).IsAdmin() {
		c.Redirect(http.StatusFound, "/admin/dashboard")
		return
	}
	render(c, http.StatusOK, "admin_login.html", gin.H{
		"Title":   "Admin",
		"Enabled": h.adminAuthService.Enabled(),
	})
}

// Login handles POST /admin/login
func (h *AdminAuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	meta := requestMeta(c)

	var req models.AdminLoginRequest
	if err := c.ShouldBind(&req); err != nil {
		redirectWithFlash(c, middleware.FlashError, "Invalid credentials", "/admin")
		return
	}

	if message, blocked := h.blocked(c, "admin:"+req.Username); blocked {
		redirectWithFlash(c, middleware.FlashError, message, "/admin")
		return
	}

	token, err := h.adminAuthService.Login(req.Username, req.Password)
	if err != nil {
		h.failed(c, "admin:"+req.Username)
		h.safeLogAdminLogin(ctx, req.Username, false, meta)
		h.logger.WithFields(logrus.Fields{
			"username": req.Username,
			"ip":       meta.IPAddress,
		}).Warn("Admin login failed")

		message := "Invalid credentials"
		if errors.Is(err, services.ErrAdminDisabled) {
			message = "Admin login is not configured"
		}
		redirectWithFlash(c, middleware.FlashError, message, "/admin")
		return
	}

	h.succeeded(c, "admin:"+req.Username)
	middleware.SetSessionCookie(c, middleware.AdminCookie, token, h.jwtService.SessionTTL(), h.secureCookies)
	h.safeLogAdminLogin(ctx, req.Username, true, meta)
	h.logger.WithField("username", req.Username).Info("Admin login successful")

	redirectWithFlash(c, middleware.FlashSuccess, "Logged in as admin", "/admin/dashboard")
}

// Logout handles POST /admin/logout
func (h *AdminAuthHandler) Logout(c *gin.Context) {
	middleware.ClearCookie(c, middleware.AdminCookie, h.secureCookies)
	redirectWithFlash(c, middleware.FlashInfo, "Logged out", "/admin")
}
