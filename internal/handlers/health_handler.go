package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/airplanned/booking-backend/internal/database"
	"github.com/gin-gonic/gin"
)

// HealthHandler reports process and datastore health
type HealthHandler struct {
	db      database.DB
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db database.DB, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version}
}

// Check handles GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "down",
			"version":  h.version,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "up",
		"version":  h.version,
	})
}
