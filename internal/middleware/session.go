package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/airplanned/booking-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// SessionContextKey is the key used to store the session in the Gin context
const SessionContextKey = "session"

// Cookie names. Customer and admin sessions are independent.
const (
	CustomerCookie = "session"
	AdminCookie    = "admin_session"
)

// SessionContext describes who is signed in on this request
type SessionContext struct {
	UserID    int64  `json:"user_id,omitempty"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	AdminName string `json:"admin_name,omitempty"`
}

// SignedIn reports whether a customer is signed in
func (s *SessionContext) SignedIn() bool {
	return s != nil && s.UserID != 0
}

// IsAdmin reports whether the back-office session is active
func (s *SessionContext) IsAdmin() bool {
	return s != nil && s.AdminName != ""
}

// Session reads the session cookies and stores a SessionContext.
// Invalid or expired cookies are cleared; the request continues anonymously.
func Session(jwtService *jwt.Service, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := &SessionContext{}

		if token, err := c.Cookie(CustomerCookie); err == nil && token != "" {
			claims, err := jwtService.ValidateToken(token)
			if err == nil && claims.HasRole(jwt.RoleCustomer) {
				session.UserID = claims.UserID
				session.Email = claims.Email
				session.Name = claims.Name
			} else {
				if sessionExpired(jwtService, token) {
					FlashNow(c, FlashInfo, "Your session has expired. Please log in again.")
				}
				ClearCookie(c, CustomerCookie, secure)
			}
		}

		if token, err := c.Cookie(AdminCookie); err == nil && token != "" {
			claims, err := jwtService.ValidateToken(token)
			if err == nil && claims.HasRole(jwt.RoleAdmin) {
				session.AdminName = strings.TrimPrefix(claims.Subject, "admin:")
			} else {
				ClearCookie(c, AdminCookie, secure)
			}
		}

		c.Set(SessionContextKey, session)
		if session.SignedIn() {
			c.Set("user_id", session.UserID)
		}
		c.Next()
	}
}

// sessionExpired distinguishes a well-formed but expired token from a forged one
func sessionExpired(jwtService *jwt.Service, token string) bool {
	if _, err := jwtService.ExtractClaims(token); err != nil {
		return false
	}
	return jwtService.IsTokenExpired(token)
}

// GetSession returns the request session. It is never nil once Session has run.
func GetSession(c *gin.Context) *SessionContext {
	if v, ok := c.Get(SessionContextKey); ok {
		if s, ok := v.(*SessionContext); ok {
			return s
		}
	}
	return &SessionContext{}
}

// RequireUser redirects anonymous visitors to the login page
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetSession(c).SignedIn() {
			SetFlash(c, FlashError, "Please log in to continue")
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin redirects to the admin login page without an admin session
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetSession(c).IsAdmin() {
			SetFlash(c, FlashError, "Please log in as admin")
			c.Redirect(http.StatusFound, "/admin")
			c.Abort()
			return
		}
		c.Next()
	}
}

// SetSessionCookie stores a session token in an HttpOnly cookie
func SetSessionCookie(c *gin.Context, name, token string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, token, int(ttl.Seconds()), "/", "", secure, true)
}

// ClearCookie expires a cookie
func ClearCookie(c *gin.Context, name string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, "/", "", secure, true)
}
