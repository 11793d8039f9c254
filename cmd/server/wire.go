// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"context"
	"log"

	"dentalscope_backend/internal/app"
	"dentalscope_backend/internal/auth"
	"dentalscope_backend/internal/clerk"
	"dentalscope_backend/internal/config"
	"dentalscope_backend/internal/diagnosis"
	"dentalscope_backend/internal/firebase"
	"dentalscope_backend/internal/history"
	"dentalscope_backend/internal/identity"
	"dentalscope_backend/internal/jobs"
	"dentalscope_backend/internal/platform/database"
	platformES "dentalscope_backend/internal/platform/elasticsearch"
	platformFirestore "dentalscope_backend/internal/platform/firestore"
	"dentalscope_backend/internal/platform/logger"
	"dentalscope_backend/internal/rule"
	"dentalscope_backend/internal/symptom"
	"dentalscope_backend/internal/user"

	"cloud.google.com/go/firestore"
	"github.com/google/wire"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		provideLogger,
		provideDatabase,
		provideFirestoreClient,
		platformES.NewClient,

		// Identity providers
		firebase.NewFirebaseService,
		clerk.NewClerkService,
		wire.Bind(new(auth.FirebaseVerifier), new(*firebase.FirebaseService)),
		wire.Bind(new(auth.ClerkVerifier), new(*clerk.ClerkService)),

		// Profile store
		user.NewGORMRepository,
		user.NewService, // Provides shared.Service

		// Per-session identity resolution
		identity.NewManager,

		// Rule catalog
		rule.NewFirestoreRepository,
		rule.NewService,
		rule.NewHandler,

		// Diagnosis history
		history.NewFirestoreRepository,
		history.NewService,
		history.NewHandler,

		// Matching engine surface
		diagnosis.NewService,
		diagnosis.NewHandler,

		symptom.NewHandler,
		auth.NewHandler,
		jobs.NewRuleRefreshJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}

// provideLogger builds the zap logger and a cleanup that flushes it.
func provideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	appLogger, err := logger.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := appLogger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
	}
	return appLogger, cleanup, nil
}

// provideDatabase opens the GORM connection and a cleanup that closes it.
func provideDatabase(cfg *config.Config, appLogger *zap.Logger) (*gorm.DB, func(), error) {
	db, err := database.NewGORM(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		appLogger.Info("Closing database connection during cleanup...")
		database.CloseGORMDB(db)
	}
	return db, cleanup, nil
}

// provideFirestoreClient adapts the Firestore constructor to the injector,
// supplying the background context and a cleanup that closes the client.
func provideFirestoreClient(cfg *config.Config, appLogger *zap.Logger) (*firestore.Client, func(), error) {
	client, err := platformFirestore.NewClient(context.Background(), cfg, appLogger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			appLogger.Warn("Failed to close Firestore client during cleanup", zap.Error(err))
		}
	}
	return client, cleanup, nil
}
