package shared

import (
	"context"
	"time"
)

// Identity providers recognized by the service.
const (
	ProviderFirebase = "firebase"
	ProviderClerk    = "clerk"
)

// Profile represents a user profile as seen by other modules.
type Profile struct {
	StableID    string
	Provider    string
	Email       *string
	Name        *string
	Role        string
	JoinedAt    time.Time
	LastLoginAt *time.Time
}

// ProviderClaims carries the identity claims extracted from a verified
// provider token, normalized across providers.
type ProviderClaims struct {
	Provider      string
	StableID      string
	Email         string
	Name          string
	EmailVerified bool
}

// Service defines the profile operations consumed by the identity
// resolver and the auth middleware.
type Service interface {
	GetProfileByStableID(ctx context.Context, stableID string) (*Profile, error)
	UpsertFromClaims(ctx context.Context, claims ProviderClaims) (profile *Profile, wasCreated bool, err error)
}
