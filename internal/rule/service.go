// File: internal/rule/service.go
package rule

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"dentalscope_backend/internal/common"
)

// Service provides cached access to the rule catalog.
type Service interface {
	// GetRules returns the cached catalog, fetching it on first use. When a
	// refresh fails and a previous catalog is available, the stale catalog is
	// served instead of an error.
	GetRules(ctx context.Context) ([]Rule, error)
	// Refresh forces a reload from the store.
	Refresh(ctx context.Context) error
}

type service struct {
	repo   Repository
	logger *zap.Logger

	mu     sync.RWMutex
	rules  []Rule
	loaded bool
}

// NewService creates a new rule catalog service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.Named("rule_service"),
	}
}

func (s *service) GetRules(ctx context.Context) ([]Rule, error) {
	s.mu.RLock()
	if s.loaded {
		rules := s.rules
		s.mu.RUnlock()
		return rules, nil
	}
	s.mu.RUnlock()

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rules, nil
}

func (s *service) Refresh(ctx context.Context) error {
	rules, err := s.repo.FetchAll(ctx)
	if err != nil {
		s.mu.RLock()
		warm := s.loaded
		s.mu.RUnlock()
		if warm {
			// Keep serving the last good catalog.
			s.logger.Warn("Rule catalog refresh failed, serving stale catalog", zap.Error(err))
			return nil
		}
		s.logger.Error("Rule catalog fetch failed with cold cache", zap.Error(err))
		return common.ErrServiceUnavailable.WithDetails("rule catalog is unavailable")
	}

	s.mu.Lock()
	s.rules = rules
	s.loaded = true
	s.mu.Unlock()

	s.logger.Info("Rule catalog refreshed", zap.Int("rule_count", len(rules)))
	return nil
}
