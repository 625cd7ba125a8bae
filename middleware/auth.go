// File: /middleware/auth.go
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"globe-travel-api/models"
	"globe-travel-api/services"
)

const (
	ContextUserKey  = "user"
	ContextTokenKey = "token"
)

// SessionAuth requires a valid bearer token backed by a live session row.
func SessionAuth(sessions *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization token required"})
			return
		}

		user, _, err := sessions.Validate(token)
		if err != nil {
			if errors.Is(err, services.ErrInvalidSession) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired token"})
				return
			}
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextTokenKey, token)
		c.Next()
	}
}

// OptionalSession attaches the user when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalSession(sessions *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if user, _, err := sessions.Validate(token); err == nil {
				c.Set(ContextUserKey, user)
				c.Set(ContextTokenKey, token)
			}
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

// CurrentUserID is nil for anonymous requests.
func CurrentUserID(c *gin.Context) *uint {
	if user, ok := CurrentUser(c); ok {
		id := user.ID
		return &id
	}
	return nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
