// File: internal/platform/firestore/client.go
package firestore

import (
	"context"
	"fmt"
	"path/filepath"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"dentalscope_backend/internal/config"
)

// NewClient creates a Firestore client from the configured service account key.
// The document store holds the rule catalog and the diagnosis history.
func NewClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*firestore.Client, error) {
	if cfg.FirebaseServiceAccountKeyPath == "" {
		logger.Error("Firebase service account key path is not configured.")
		return nil, fmt.Errorf("firebase service account key path is required for Firestore")
	}
	if cfg.FirebaseProjectID == "" {
		logger.Error("Firebase project id is not configured.")
		return nil, fmt.Errorf("FIREBASE_PROJECT_ID is required for Firestore")
	}

	cleanPath := filepath.Clean(cfg.FirebaseServiceAccountKeyPath)
	client, err := firestore.NewClient(ctx, cfg.FirebaseProjectID, option.WithCredentialsFile(cleanPath))
	if err != nil {
		logger.Error("Failed to initialize Firestore client", zap.Error(err), zap.String("keyPath", cleanPath))
		return nil, fmt.Errorf("error initializing Firestore client: %w", err)
	}

	logger.Info("Firestore client initialized successfully.", zap.String("project_id", cfg.FirebaseProjectID))
	return client, nil
}
