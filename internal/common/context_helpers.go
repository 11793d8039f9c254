// File: internal/common/context_helpers.go
package common

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// GetTokenFromContext retrieves the bearer token string from the Authorization header.
// Returns an empty string if not found.
func GetTokenFromContext(c *gin.Context) string {
	authHeader := c.GetHeader(AuthorizationHeader)
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], AuthorizationTypeBearer) {
		return ""
	}
	return parts[1]
}

// GetStableIDFromContext retrieves the provider-stable user id from the Gin context.
// Returns an empty string if not set.
func GetStableIDFromContext(c *gin.Context) string {
	val, exists := c.Get(StableIDKey)
	if !exists {
		return ""
	}
	id, ok := val.(string)
	if !ok {
		return ""
	}
	return id
}

// GetProviderFromContext retrieves the identity provider name from the Gin context.
func GetProviderFromContext(c *gin.Context) string {
	val, exists := c.Get(ProviderKey)
	if !exists {
		return ""
	}
	provider, ok := val.(string)
	if !ok {
		return ""
	}
	return provider
}

// GetUserRoleFromContext retrieves the user role from the Gin context.
func GetUserRoleFromContext(c *gin.Context) string {
	val, exists := c.Get(UserRoleKey)
	if !exists {
		return ""
	}
	role, ok := val.(string)
	if !ok {
		return ""
	}
	return role
}
