// File: internal/user/adapter.go
package user

import (
	"dentalscope_backend/internal/shared"
)

// DBToShared converts a database Profile into the shared view other modules
// consume.
func DBToShared(p *Profile) *shared.Profile {
	if p == nil {
		return nil
	}
	return &shared.Profile{
		StableID:    p.StableID,
		Provider:    p.Provider,
		Email:       p.Email,
		Name:        p.Name,
		Role:        p.Role,
		JoinedAt:    p.CreatedAt,
		LastLoginAt: p.LastLoginAt,
	}
}
