// File: internal/diagnosis/service.go
package diagnosis

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"dentalscope_backend/internal/history"
	"dentalscope_backend/internal/rule"
)

// Service runs a diagnosis for a user and appends the outcome to their
// history.
type Service interface {
	Diagnose(ctx context.Context, userID string, selectedIDs []string) (*Outcome, error)
}

type service struct {
	rules      rule.Service
	historySvc history.Service
	logger     *zap.Logger
	now        func() time.Time
}

// NewService creates a new diagnosis service.
func NewService(rules rule.Service, historySvc history.Service, logger *zap.Logger) Service {
	return &service{
		rules:      rules,
		historySvc: historySvc,
		logger:     logger.Named("diagnosis_service"),
		now:        time.Now,
	}
}

// Diagnose matches the selection against the cached rule catalog and appends
// the result to the user's history. A failed history append does not fail the
// diagnosis; the outcome reports Saved=false and the caller shows a warning.
func (s *service) Diagnose(ctx context.Context, userID string, selectedIDs []string) (*Outcome, error) {
	rules, err := s.rules.GetRules(ctx)
	if err != nil {
		return nil, err
	}

	result := Match(selectedIDs, rules)
	outcome := &Outcome{Result: result}

	record := &history.Record{
		DiagnosisName:         result.DiagnosisName,
		Accuracy:              math.Round(result.Accuracy),
		IsSuccess:             result.IsSuccess,
		TreatmentDescriptions: result.TreatmentDescriptions,
		SelectedSymptomIDs:    selectedIDs,
		UserID:                userID,
		Timestamp:             history.NewTimestamp(s.now()),
	}

	id, err := s.historySvc.Append(ctx, record)
	if err != nil {
		s.logger.Warn("Failed to append diagnosis to history",
			zap.String("user_id", userID),
			zap.String("diagnosis", result.DiagnosisName),
			zap.Error(err),
		)
		return outcome, nil
	}

	outcome.Saved = true
	outcome.RecordID = id
	return outcome, nil
}
