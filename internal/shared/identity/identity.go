// Package identity propagates the gateway-asserted user identity.
//
// Authentication itself happens in the fronting identity provider; this
// service only consumes the opaque identity it forwards via headers.
package identity

import (
	"strings"

	"github.com/gin-gonic/gin"

	sharederrors "github.com/nexashop/storefront/internal/shared/errors"
)

// Header names set by the gateway after it has authenticated the caller.
const (
	HeaderUserID    = "X-User-Id"
	HeaderUserName  = "X-User-Name"
	HeaderUserEmail = "X-User-Email"
	HeaderUserAdmin = "X-User-Admin"
)

const contextKey = "storefront.identity"

// User is the opaque authenticated identity attached to each request.
type User struct {
	ID          string
	DisplayName string
	Email       string
	Admin       bool
}

// Middleware extracts the forwarded identity and rejects anonymous requests.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if id == "" {
			sharederrors.Respond(c, sharederrors.ErrUnauthorized.WithDetail("missing user identity"))
			c.Abort()
			return
		}
		c.Set(contextKey, User{
			ID:          id,
			DisplayName: strings.TrimSpace(c.GetHeader(HeaderUserName)),
			Email:       strings.TrimSpace(c.GetHeader(HeaderUserEmail)),
			Admin:       isTruthy(c.GetHeader(HeaderUserAdmin)),
		})
		c.Next()
	}
}

// RequireAdmin guards admin-only routes. Must run after Middleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := FromContext(c)
		if !ok || !user.Admin {
			sharederrors.Respond(c, sharederrors.ErrForbidden.WithDetail("admin privileges required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// FromContext returns the identity attached by Middleware.
func FromContext(c *gin.Context) (User, bool) {
	value, ok := c.Get(contextKey)
	if !ok {
		return User{}, false
	}
	user, ok := value.(User)
	return user, ok
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
