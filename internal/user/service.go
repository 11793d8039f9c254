// File: internal/user/service.go
package user

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"dentalscope_backend/internal/common"
	"dentalscope_backend/internal/shared"
)

// service implements shared.Service on top of the GORM repository.
type service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new profile service.
func NewService(repo Repository, logger *zap.Logger) shared.Service {
	return &service{
		repo:   repo,
		logger: logger.Named("user_service"),
	}
}

func (s *service) GetProfileByStableID(ctx context.Context, stableID string) (*shared.Profile, error) {
	profile, err := s.repo.FindByStableID(ctx, stableID)
	if err != nil {
		return nil, err
	}
	return DBToShared(profile), nil
}

// normalizeEmail canonicalizes addresses before they are stored or compared.
// It is applied at the service boundary so every repository sees the same
// form.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UpsertFromClaims merge-writes a profile from verified provider claims. A new
// row is created on first login; afterwards LastLoginAt and any changed claims
// are updated in place. Role is never taken from provider claims.
func (s *service) UpsertFromClaims(ctx context.Context, claims shared.ProviderClaims) (*shared.Profile, bool, error) {
	now := time.Now().UTC()

	existing, err := s.repo.FindByStableID(ctx, claims.StableID)
	if err != nil {
		if apiErr, ok := common.IsAPIError(err); !ok || apiErr.Code != common.ErrNotFound.Code {
			return nil, false, err
		}

		profile := &Profile{
			StableID:        claims.StableID,
			Provider:        claims.Provider,
			Role:            common.RoleUser,
			IsEmailVerified: claims.EmailVerified,
			LastLoginAt:     &now,
		}
		if claims.Email != "" {
			email := normalizeEmail(claims.Email)
			profile.Email = &email
		}
		if claims.Name != "" {
			name := claims.Name
			profile.Name = &name
		}

		if err := s.repo.Create(ctx, profile); err != nil {
			return nil, false, err
		}
		s.logger.Info("Created profile on first login",
			zap.String("stable_id", claims.StableID),
			zap.String("provider", claims.Provider),
		)
		return DBToShared(profile), true, nil
	}

	existing.LastLoginAt = &now
	existing.Provider = claims.Provider
	existing.IsEmailVerified = claims.EmailVerified
	if claims.Email != "" {
		email := normalizeEmail(claims.Email)
		existing.Email = &email
	}
	if claims.Name != "" {
		name := claims.Name
		existing.Name = &name
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, false, err
	}
	s.logger.Debug("Updated profile on login", zap.String("stable_id", claims.StableID))
	return DBToShared(existing), false, nil
}
