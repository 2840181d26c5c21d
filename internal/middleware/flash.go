package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	flashCookie     = "flash"
	flashContextKey = "flash"
)

// Flash categories, used as CSS classes by the templates
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// FlashMessage is a one-shot message shown on the next rendered page
type FlashMessage struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}

// SetFlash queues a message for the page after the next redirect
func SetFlash(c *gin.Context, category, message string) {
	msg := FlashMessage{Category: category, Message: message}

	raw, err := json.Marshal(msg)
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, base64.RawURLEncoding.EncodeToString(raw), 60, "/", "", false, true)
}

// FlashNow shows a message on the page rendered by this request
func FlashNow(c *gin.Context, category, message string) {
	c.Set(flashContextKey, &FlashMessage{Category: category, Message: message})
}

// Flash moves a queued flash cookie into the request context and clears it
func Flash() gin.HandlerFunc {
	return func(c *gin.Context) {
		if value, err := c.Cookie(flashCookie); err == nil && value != "" {
			c.SetCookie(flashCookie, "", -1, "/", "", false, true)
			if raw, err := base64.RawURLEncoding.DecodeString(value); err == nil {
				var msg FlashMessage
				if json.Unmarshal(raw, &msg) == nil && msg.Message != "" {
					c.Set(flashContextKey, &msg)
				}
			}
		}
		c.Next()
	}
}

// GetFlash returns the message to render, if any
func GetFlash(c *gin.Context) *FlashMessage {
	if v, ok := c.Get(flashContextKey); ok {
		if msg, ok := v.(*FlashMessage); ok {
			return msg
		}
	}
	return nil
}
