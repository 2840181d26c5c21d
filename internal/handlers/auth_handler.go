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

// AuthHandler handles customer signup, login and logout
type AuthHandler struct {
	auditor
	loginGuard
	authService   *services.AuthService
	jwtService    *jwt.Service
	secureCookies bool
	logger        *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	authService *services.AuthService,
	auditService *services.AuditService,
	throttle *services.LoginThrottleService,
	jwtService *jwt.Service,
	secureCookies bool,
	logger *logrus.Logger,
) *AuthHandler {
	return &AuthHandler{
		auditor:       auditor{audit: auditService, logger: logger},
		loginGuard:    loginGuard{throttle: throttle, logger: logger},
		authService:   authService,
		jwtService:    jwtService,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// SignupPage handles GET /signup
func (h *AuthHandler) SignupPage(c *gin.Context) {
	render(c, http.StatusOK, "signup.html", gin.H{"Title": "Sign up"})
}

// Signup handles POST /signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.FlashNow(c, middleware.FlashError, bindingMessage(err))
		render(c, http.StatusBadRequest, "signup.html", gin.H{"Title": "Sign up"})
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), &req)
	if err != nil {
		if status := errorStatus(err); status >= http.StatusInternalServerError {
			h.logger.WithError(err).Error("Signup failed")
		}
		middleware.FlashNow(c, middleware.FlashError, inlineMessage(err))
		render(c, errorStatus(err), "signup.html", gin.H{
			"Title":    "Sign up",
			"FullName": req.FullName,
			"Email":    req.Email,
		})
		return
	}

	h.logger.WithField("user_id", user.ID).Info("Signup completed")
	redirectWithFlash(c, middleware.FlashSuccess, "Registration successful! Please log in.", "/login")
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if middleware.GetSession(c).SignedIn() {
		c.Redirect(http.StatusFound, "/")
		return
	}
	render(c, http.StatusOK, "login.html", gin.H{"Title": "Log in"})
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	meta := requestMeta(c)

	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.FlashNow(c, middleware.FlashError, bindingMessage(err))
		render(c, http.StatusBadRequest, "login.html", gin.H{"Title": "Log in"})
		return
	}

	if message, blocked := h.blocked(c, req.Email); blocked {
		middleware.FlashNow(c, middleware.FlashError, message)
		render(c, http.StatusTooManyRequests, "login.html", gin.H{"Title": "Log in", "Email": req.Email})
		return
	}

	user, token, err := h.authService.Login(ctx, &req)
	if err != nil {
		status := errorStatus(err)
		message := inlineMessage(err)
		if errors.Is(err, services.ErrInvalidCredentials) {
			status = http.StatusUnauthorized
			message = "Invalid email or password"
			h.failed(c, req.Email)
			h.safeLogLogin(ctx, nil, req.Email, false, meta)
		} else if status >= http.StatusInternalServerError {
			h.logger.WithError(err).Error("Login failed")
		}

		middleware.FlashNow(c, middleware.FlashError, message)
		render(c, status, "login.html", gin.H{"Title": "Log in", "Email": req.Email})
		return
	}

	h.succeeded(c, req.Email)
	middleware.SetSessionCookie(c, middleware.CustomerCookie, token, h.jwtService.SessionTTL(), h.secureCookies)
	h.safeLogLogin(ctx, &user.ID, user.Email, true, meta)

	h.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User logged in")

	redirectWithFlash(c, middleware.FlashSuccess, "Welcome back, "+user.FirstName+"!", "/")
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearCookie(c, middleware.CustomerCookie, h.secureCookies)
	redirectWithFlash(c, middleware.FlashInfo, "You have been logged out", "/")
}
