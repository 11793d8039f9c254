// File: internal/identity/model.go
package identity

import (
	"dentalscope_backend/internal/shared"
)

// ActiveUser is the closed two-variant union of native provider users. Only
// FirebaseUser and ClerkUser implement it; the unexported method keeps the set
// closed.
type ActiveUser interface {
	// StableID is the provider-stable identifier used to key profiles and
	// history records.
	StableID() string
	// Provider names the identity provider this user came from.
	Provider() string

	sealedActiveUser()
}

// FirebaseUser is the native user of the Firebase provider.
type FirebaseUser struct {
	UID         string  `json:"uid"`
	Email       *string `json:"email,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
}

func (u FirebaseUser) StableID() string  { return u.UID }
func (u FirebaseUser) Provider() string  { return shared.ProviderFirebase }
func (u FirebaseUser) sealedActiveUser() {}

// ClerkUser is the native user of the Clerk provider, held in memory for the
// lifetime of the session.
type ClerkUser struct {
	ID          string  `json:"id"`
	Email       *string `json:"email,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
}

func (u ClerkUser) StableID() string  { return u.ID }
func (u ClerkUser) Provider() string  { return shared.ProviderClerk }
func (u ClerkUser) sealedActiveUser() {}

// State is the resolver's position in its lifecycle.
type State int

const (
	// StateInitializing holds until the first provider event arrives.
	StateInitializing State = iota
	// StateResolvingProfile means a user is active and the profile fetch is
	// in flight.
	StateResolvingProfile
	// StateReady means the view is settled; Profile may still be nil when the
	// fetch failed.
	StateReady
	// StateUnauthenticated means no provider session is active.
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateResolvingProfile:
		return "resolving_profile"
	case StateReady:
		return "ready"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Event is one provider session change. A nil User means the provider
// reported signed-out.
type Event struct {
	Provider string
	User     ActiveUser
}

// View is the consistent pair observers read. ActiveUser nil means
// unauthenticated; Profile is non-nil only while ActiveUser is non-nil.
type View struct {
	State           State
	ActiveUser      ActiveUser
	Profile         *shared.Profile
	IsAuthenticated bool
	IsLoading       bool
}
