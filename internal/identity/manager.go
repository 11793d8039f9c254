// File: internal/identity/manager.go
package identity

import (
	"fmt"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"dentalscope_backend/internal/config"
	"dentalscope_backend/internal/platform/crypto"
	"dentalscope_backend/internal/shared"
)

// Manager holds one resolver per device session. Session ids are issued at the
// first session event; idle sessions are reaped and their resolvers closed.
type Manager struct {
	profiles shared.Service
	logger   *zap.Logger
	sessions *gocache.Cache
}

// NewManager creates a session registry with the configured idle TTL.
func NewManager(cfg *config.Config, profiles shared.Service, logger *zap.Logger) *Manager {
	sessions := gocache.New(cfg.SessionIdleTTL, cfg.SessionIdleTTL/2)
	sessions.OnEvicted(func(sessionID string, value interface{}) {
		if resolver, ok := value.(*Resolver); ok {
			resolver.Close()
			logger.Debug("Reaped idle identity session", zap.String("session_id", sessionID))
		}
	})
	return &Manager{
		profiles: profiles,
		logger:   logger.Named("identity_manager"),
		sessions: sessions,
	}
}

// CreateSession issues a new session id with a fresh resolver.
func (m *Manager) CreateSession() (string, *Resolver, error) {
	sessionID, err := crypto.GenerateSecureRandomString(32)
	if err != nil {
		return "", nil, fmt.Errorf("generating session id: %w", err)
	}

	resolver := NewResolver(m.profiles, m.logger)
	m.sessions.Set(sessionID, resolver, gocache.DefaultExpiration)
	m.logger.Debug("Created identity session", zap.String("session_id", sessionID))
	return sessionID, resolver, nil
}

// Get returns the resolver for a session id and refreshes its idle timer.
func (m *Manager) Get(sessionID string) (*Resolver, bool) {
	value, found := m.sessions.Get(sessionID)
	if !found {
		return nil, false
	}
	resolver, ok := value.(*Resolver)
	if !ok {
		return nil, false
	}
	// Touch the entry so active sessions are not reaped.
	m.sessions.Set(sessionID, resolver, gocache.DefaultExpiration)
	return resolver, true
}

// Teardown removes a session and closes its resolver.
func (m *Manager) Teardown(sessionID string) {
	m.sessions.Delete(sessionID)
}
