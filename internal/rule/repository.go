// File: internal/rule/repository.go
package rule

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
)

// RulesCollection is the Firestore collection holding the rule catalog.
const RulesCollection = "rules"

// Repository defines data access for the rule catalog. The catalog is small
// (tens of documents) and is always fetched whole; there is no filtering or
// pagination at the store level.
type Repository interface {
	FetchAll(ctx context.Context) ([]Rule, error)
}

type firestoreRepository struct {
	client *firestore.Client
	logger *zap.Logger
}

// NewFirestoreRepository creates a rule repository backed by Firestore.
func NewFirestoreRepository(client *firestore.Client, logger *zap.Logger) Repository {
	return &firestoreRepository{
		client: client,
		logger: logger.Named("rule_repository"),
	}
}

func (r *firestoreRepository) FetchAll(ctx context.Context) ([]Rule, error) {
	docs, err := r.client.Collection(RulesCollection).Documents(ctx).GetAll()
	if err != nil {
		r.logger.Error("Failed to fetch rule documents", zap.Error(err))
		return nil, fmt.Errorf("fetching rules: %w", err)
	}

	rules := make([]Rule, 0, len(docs))
	for _, doc := range docs {
		var rl Rule
		if err := doc.DataTo(&rl); err != nil {
			// A malformed document must not take the whole catalog down.
			r.logger.Warn("Skipping malformed rule document",
				zap.String("doc_id", doc.Ref.ID),
				zap.Error(err),
			)
			continue
		}
		if len(rl.SymptomIDs) == 0 {
			r.logger.Warn("Skipping rule with empty symptom set", zap.String("doc_id", doc.Ref.ID))
			continue
		}
		rules = append(rules, rl)
	}

	r.logger.Debug("Fetched rule catalog", zap.Int("count", len(rules)))
	return rules, nil
}
