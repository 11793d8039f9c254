// File: internal/auth/model.go
package auth

import (
	"time"

	"dentalscope_backend/internal/identity"
)

// SessionEventRequest is the payload for posting a provider session event.
type SessionEventRequest struct {
	Provider string `json:"provider" binding:"required,oneof=firebase clerk"`
	Token    string `json:"token" binding:"required"`
}

// SignOutRequest is the payload for a signed-out event.
type SignOutRequest struct {
	Provider string `json:"provider" binding:"required,oneof=firebase clerk"`
}

// SessionResponse is returned after a session event is accepted.
type SessionResponse struct {
	SessionID  string       `json:"session_id"`
	View       ViewResponse `json:"view"`
	WasCreated bool         `json:"profile_was_created"`
}

// ViewResponse is the API representation of a resolver view.
type ViewResponse struct {
	State           string              `json:"state"`
	IsAuthenticated bool                `json:"is_authenticated"`
	IsLoading       bool                `json:"is_loading"`
	ActiveUser      *ActiveUserResponse `json:"active_user,omitempty"`
	Profile         *ProfileResponse    `json:"profile,omitempty"`
}

// ActiveUserResponse describes the native provider user behind the session.
type ActiveUserResponse struct {
	Provider string `json:"provider"`
	StableID string `json:"stable_id"`
}

// ProfileResponse mirrors the stored profile for the view payload.
type ProfileResponse struct {
	StableID    string     `json:"stable_id"`
	Email       *string    `json:"email,omitempty"`
	Name        *string    `json:"name,omitempty"`
	Role        string     `json:"role"`
	JoinedAt    time.Time  `json:"joined_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// ToViewResponse converts a resolver view into the API shape.
func ToViewResponse(view identity.View) ViewResponse {
	resp := ViewResponse{
		State:           view.State.String(),
		IsAuthenticated: view.IsAuthenticated,
		IsLoading:       view.IsLoading,
	}
	if view.ActiveUser != nil {
		resp.ActiveUser = &ActiveUserResponse{
			Provider: view.ActiveUser.Provider(),
			StableID: view.ActiveUser.StableID(),
		}
	}
	if view.Profile != nil {
		resp.Profile = &ProfileResponse{
			StableID:    view.Profile.StableID,
			Email:       view.Profile.Email,
			Name:        view.Profile.Name,
			Role:        view.Profile.Role,
			JoinedAt:    view.Profile.JoinedAt,
			LastLoginAt: view.Profile.LastLoginAt,
		}
	}
	return resp
}
