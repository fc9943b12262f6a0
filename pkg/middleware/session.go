package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	SessionCookieName = "sessionId"
	SessionKey        = "session_id"
	SessionMaxAge     = 7 * 24 * time.Hour
)

// UnauthorizedBody is the fixed error body for 401 responses.
var UnauthorizedBody = gin.H{"error": "Unauthorized!"}

// SessionRequired rejects requests without a sessionId cookie. The token is
// only checked for presence; its value is passed on as-is.
func SessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := GetSessionCookie(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, UnauthorizedBody)
			return
		}

		c.Set(SessionKey, token)
		c.Next()
	}
}

// GetSessionID returns the token accepted by SessionRequired.
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionKey)
}

// GetSessionCookie returns the raw sessionId cookie, or "" when absent.
func GetSessionCookie(c *gin.Context) string {
	token, err := c.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return token
}

// SetSessionCookie issues the session cookie on the response.
func SetSessionCookie(c *gin.Context, token string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		SessionCookieName,
		token,
		int(SessionMaxAge.Seconds()),
		"/",
		"",
		secure,
		true,
	)
}
