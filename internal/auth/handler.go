// File: internal/auth/handler.go
package auth

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"dentalscope_backend/internal/clerk"
	"dentalscope_backend/internal/common"
	"dentalscope_backend/internal/firebase"
	"dentalscope_backend/internal/identity"
	"dentalscope_backend/internal/shared"
)

// Handler wires provider session events into the identity session registry.
type Handler struct {
	firebaseService FirebaseVerifier
	clerkService    ClerkVerifier
	profiles        shared.Service
	manager         *identity.Manager
	logger          *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(
	firebaseService FirebaseVerifier,
	clerkService ClerkVerifier,
	profiles shared.Service,
	manager *identity.Manager,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		firebaseService: firebaseService,
		clerkService:    clerkService,
		profiles:        profiles,
		manager:         manager,
		logger:          logger,
	}
}

// RegisterRoutes sets up the session event routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/sessions", h.postSessionEvent)
		authGroup.DELETE("/sessions", h.deleteSession)
		authGroup.GET("/me", h.getMe)
	}
}

// postSessionEvent verifies a provider token, upserts the profile, and feeds
// the signed-in event into the session's resolver. A session id is issued on
// the first event and returned to the client for the X-Session-ID header.
func (h *Handler) postSessionEvent(c *gin.Context) {
	var req SessionEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(validationErrs)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	claims, activeUser, err := h.verifyProviderToken(c, &req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	_, wasCreated, err := h.profiles.UpsertFromClaims(c.Request.Context(), claims)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	sessionID := c.GetHeader(common.SessionIDHeader)
	var resolver *identity.Resolver
	var found bool
	if sessionID != "" {
		resolver, found = h.manager.Get(sessionID)
	}
	if !found {
		sessionID, resolver, err = h.manager.CreateSession()
		if err != nil {
			common.RespondWithError(c, err)
			return
		}
	}

	resolver.Dispatch(identity.Event{Provider: req.Provider, User: activeUser})

	h.logger.Info("Provider session event accepted",
		zap.String("provider", req.Provider),
		zap.String("stable_id", claims.StableID),
		zap.Bool("profile_created", wasCreated),
	)

	common.RespondCreated(c, "Session event accepted.", SessionResponse{
		SessionID:  sessionID,
		View:       ToViewResponse(resolver.Snapshot()),
		WasCreated: wasCreated,
	})
}

func (h *Handler) verifyProviderToken(c *gin.Context, req *SessionEventRequest) (shared.ProviderClaims, identity.ActiveUser, error) {
	ctx := c.Request.Context()

	switch req.Provider {
	case shared.ProviderFirebase:
		token, err := h.firebaseService.VerifyIDToken(ctx, req.Token)
		if err != nil {
			return shared.ProviderClaims{}, nil, common.ErrUnauthorized.WithDetails("Firebase ID token could not be verified.")
		}
		claims := firebase.ClaimsFromToken(token)
		user := identity.FirebaseUser{UID: claims.StableID}
		if claims.Email != "" {
			email := claims.Email
			user.Email = &email
		}
		if claims.Name != "" {
			name := claims.Name
			user.DisplayName = &name
		}
		return claims, user, nil

	case shared.ProviderClerk:
		sessionClaims, err := h.clerkService.VerifySessionToken(ctx, req.Token)
		if err != nil {
			return shared.ProviderClaims{}, nil, common.ErrUnauthorized.WithDetails("Clerk session token could not be verified.")
		}
		claims := clerk.ClaimsFromSession(sessionClaims)
		user := identity.ClerkUser{ID: claims.StableID}
		if claims.Email != "" {
			email := claims.Email
			user.Email = &email
		}
		if claims.Name != "" {
			name := claims.Name
			user.DisplayName = &name
		}
		return claims, user, nil
	}

	return shared.ProviderClaims{}, nil, common.ErrBadRequest.WithDetails("Unknown identity provider.")
}

// deleteSession feeds a signed-out event for the given provider into the
// session's resolver. Events from a non-current provider are ignored by the
// resolver itself.
func (h *Handler) deleteSession(c *gin.Context) {
	sessionID := c.GetHeader(common.SessionIDHeader)
	if sessionID == "" {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("X-Session-ID header is required."))
		return
	}

	var req SignOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(validationErrs)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	resolver, found := h.manager.Get(sessionID)
	if !found {
		common.RespondWithError(c, common.ErrNotFound.WithDetails("Unknown session."))
		return
	}

	view := resolver.Snapshot()
	resolver.Dispatch(identity.Event{Provider: req.Provider, User: nil})

	// Signing out of Firebase also revokes its refresh tokens so other devices
	// holding them must re-authenticate. Best effort; the session event above
	// already took effect.
	if req.Provider == shared.ProviderFirebase &&
		view.ActiveUser != nil && view.ActiveUser.Provider() == shared.ProviderFirebase {
		if err := h.firebaseService.RevokeRefreshTokens(c.Request.Context(), view.ActiveUser.StableID()); err != nil {
			h.logger.Warn("Failed to revoke Firebase refresh tokens",
				zap.String("uid", view.ActiveUser.StableID()),
				zap.Error(err),
			)
		}
	}

	common.RespondNoContent(c)
}

// getMe returns the resolver view for the session.
func (h *Handler) getMe(c *gin.Context) {
	sessionID := c.GetHeader(common.SessionIDHeader)
	if sessionID == "" {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("X-Session-ID header is required."))
		return
	}

	resolver, found := h.manager.Get(sessionID)
	if !found {
		common.RespondWithError(c, common.ErrNotFound.WithDetails("Unknown session."))
		return
	}

	common.RespondOK(c, "Identity view retrieved.", ToViewResponse(resolver.Snapshot()))
}
