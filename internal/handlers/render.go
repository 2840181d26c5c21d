package handlers

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/airplanned/booking-backend/internal/middleware"
	"github.com/airplanned/booking-backend/internal/models"
	"github.com/airplanned/booking-backend/internal/services"
	"github.com/airplanned/booking-backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	msgConnection = "Database connection error. Please try again later."
	msgGeneric    = "Something went wrong. Please try again."
)

var templateFuncs = template.FuncMap{
	"money": formatMoney,
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(services.DateLayout)
	},
	"nulldate": func(t models.NullTime) string {
		if !t.Valid {
			return ""
		}
		return t.Time.Format(services.DateLayout)
	},
	"nullstr": func(s models.NullString) string { return s.String },
	"join":    strings.Join,
	"inc":     func(i int) int { return i + 1 },
	"stars":   func() []int { return []int{1, 2, 3, 4, 5} },
}

func formatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// LoadTemplates parses the embedded page templates
func LoadTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
}

// render executes a page template with the session and flash message
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Session"] = middleware.GetSession(c)
	data["Flash"] = middleware.GetFlash(c)
	c.HTML(status, name, data)
}

func redirectWithFlash(c *gin.Context, category, message, location string) {
	middleware.SetFlash(c, category, message)
	c.Redirect(http.StatusFound, location)
}

// handleError turns a service error into a flash message and a redirect.
// Connection errors always land on the home page.
func handleError(c *gin.Context, logger *logrus.Logger, err error, fallback string) {
	var (
		validation *services.ValidationError
		missing    *services.NotFoundError
		conflict   *services.ConflictError
		processed  *services.AlreadyProcessedError
		connErr    *services.ConnectionError
	)

	switch {
	case errors.As(err, &connErr):
		logger.WithFields(logrus.Fields{
			"path":  c.Request.URL.Path,
			"error": connErr.Err,
		}).Error("Database connection error")
		redirectWithFlash(c, middleware.FlashError, msgConnection, "/")
	case errors.As(err, &validation):
		redirectWithFlash(c, middleware.FlashError, validation.Error(), fallback)
	case errors.As(err, &missing):
		redirectWithFlash(c, middleware.FlashError, missing.Message, fallback)
	case errors.As(err, &conflict):
		redirectWithFlash(c, middleware.FlashError, conflict.Message, fallback)
	case errors.As(err, &processed):
		redirectWithFlash(c, middleware.FlashInfo, processed.Message, fallback)
	default:
		_ = c.Error(err)
		logger.WithFields(logrus.Fields{
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		}).Error("Request failed")
		redirectWithFlash(c, middleware.FlashError, msgGeneric, fallback)
	}
}

// errorStatus picks the status for a page re-rendered with an inline error
func errorStatus(err error) int {
	var connErr *services.ConnectionError
	var validation *services.ValidationError
	switch {
	case errors.As(err, &connErr):
		return http.StatusServiceUnavailable
	case errors.As(err, &validation):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// inlineMessage is the text shown when a page is re-rendered after err
func inlineMessage(err error) string {
	var connErr *services.ConnectionError
	var validation *services.ValidationError
	switch {
	case errors.As(err, &connErr):
		return msgConnection
	case errors.As(err, &validation):
		return validation.Error()
	}
	return msgGeneric
}

// bindingMessage summarizes form binding failures
func bindingMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return "Invalid form data"
	}
	fields := make([]string, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return "Please check these fields: " + strings.Join(fields, ", ")
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func pathCategory(c *gin.Context) (models.Category, bool) {
	category, err := models.ParseCategory(c.Param("category"))
	return category, err == nil
}

func requestMeta(c *gin.Context) services.RequestMeta {
	return services.RequestMeta{
		IPAddress: utils.GetRealIP(c),
		UserAgent: utils.GetUserAgent(c),
	}
}
