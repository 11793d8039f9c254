// File: internal/common/context_keys.go
package common

const (
	// AuthorizationHeader is the header name for the authorization token.
	AuthorizationHeader = "Authorization"
	// AuthorizationTypeBearer is the prefix for Bearer tokens.
	AuthorizationTypeBearer = "Bearer"
	// StableIDKey is the context key for the provider-stable id of the authenticated user.
	StableIDKey = "stableID"
	// ProviderKey is the context key for the identity provider that authenticated the request.
	ProviderKey = "identityProvider"
	// UserEmailKey is the context key for the authenticated user's email.
	UserEmailKey = "userEmail"
	// UserRoleKey is the context key for the authenticated user's role.
	UserRoleKey = "userRole"
	// SessionIDHeader carries the device session id issued at the first session event.
	SessionIDHeader = "X-Session-ID"
)
