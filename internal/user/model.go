// File: internal/user/model.go
package user

import (
	"time"

	"dentalscope_backend/internal/common"
)

// Profile represents the user profile row in the database. StableID is the
// provider-stable identifier (Firebase UID or Clerk user id); JoinedAt maps to
// the row creation time.
type Profile struct {
	common.BaseModel         // Embeds ID, CreatedAt, UpdatedAt
	StableID         string  `gorm:"type:varchar(255);not null;uniqueIndex"`
	Provider         string  `gorm:"type:varchar(50);not null"`
	Email            *string `gorm:"type:varchar(255)"`
	Name             *string `gorm:"type:varchar(255)"`
	IsEmailVerified  bool    `gorm:"not null;default:false"`
	Role             string  `gorm:"type:varchar(50);not null;default:'user'"`
	LastLoginAt      *time.Time
}

// TableName specifies the table name for the Profile model.
func (Profile) TableName() string {
	return "users"
}

// --- DTOs for API responses ---

// ProfileResponse defines the structure for profile data sent in API responses.
type ProfileResponse struct {
	StableID    string     `json:"stable_id"`
	Provider    string     `json:"provider"`
	Email       *string    `json:"email,omitempty"`
	Name        *string    `json:"name,omitempty"`
	Role        string     `json:"role"`
	JoinedAt    time.Time  `json:"joined_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// ToProfileResponse converts a Profile model to a ProfileResponse DTO.
func ToProfileResponse(p *Profile) ProfileResponse {
	return ProfileResponse{
		StableID:    p.StableID,
		Provider:    p.Provider,
		Email:       p.Email,
		Name:        p.Name,
		Role:        p.Role,
		JoinedAt:    p.CreatedAt,
		LastLoginAt: p.LastLoginAt,
	}
}
