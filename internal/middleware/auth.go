// File: internal/middleware/auth.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dentalscope_backend/internal/clerk"
	"dentalscope_backend/internal/common"
	"dentalscope_backend/internal/firebase"
	"dentalscope_backend/internal/shared"
)

// AuthMiddleware creates a Gin middleware that accepts a bearer token from
// either identity provider. A Firebase ID token is tried first, then a Clerk
// session JWT. The verified stable id, provider, and role are set in the
// context for downstream handlers.
func AuthMiddleware(
	firebaseService *firebase.FirebaseService,
	clerkService *clerk.ClerkService,
	profiles shared.Service,
	logger *zap.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := common.GetTokenFromContext(c)
		if tokenString == "" {
			logger.Debug("Authorization header missing or malformed")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header format must be 'Bearer <token>'."))
			return
		}

		claims, err := verifyWithEitherProvider(c, firebaseService, clerkService, tokenString)
		if err != nil {
			logger.Warn("Bearer token rejected by both providers", zap.Error(err))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Token could not be verified."))
			return
		}

		c.Set(common.StableIDKey, claims.StableID)
		c.Set(common.ProviderKey, claims.Provider)
		c.Set(common.UserEmailKey, claims.Email)

		role := common.RoleUser
		if profile, err := profiles.GetProfileByStableID(c.Request.Context(), claims.StableID); err == nil {
			role = profile.Role
		}
		c.Set(common.UserRoleKey, role)

		logger.Debug("Request authenticated",
			zap.String("stable_id", claims.StableID),
			zap.String("provider", claims.Provider),
			zap.String("role", role),
		)

		c.Next()
	}
}

func verifyWithEitherProvider(
	c *gin.Context,
	firebaseService *firebase.FirebaseService,
	clerkService *clerk.ClerkService,
	tokenString string,
) (shared.ProviderClaims, error) {
	ctx := c.Request.Context()

	fbToken, fbErr := firebaseService.VerifyIDToken(ctx, tokenString)
	if fbErr == nil {
		return firebase.ClaimsFromToken(fbToken), nil
	}

	sessionClaims, clerkErr := clerkService.VerifySessionToken(ctx, tokenString)
	if clerkErr == nil {
		return clerk.ClaimsFromSession(sessionClaims), nil
	}

	return shared.ProviderClaims{}, clerkErr
}

// RoleAuthMiddleware creates a middleware to check that the authenticated user
// has one of the required roles.
func RoleAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := common.GetUserRoleFromContext(c)
		if userRole == "" {
			common.RespondWithError(c, common.ErrForbidden.WithDetails("User role not found in context."))
			return
		}

		isAllowed := false
		for _, role := range allowedRoles {
			if userRole == role {
				isAllowed = true
				break
			}
		}

		if !isAllowed {
			common.RespondWithError(c, common.ErrForbidden.WithDetails("You do not have sufficient permissions for this resource."))
			return
		}
		c.Next()
	}
}
