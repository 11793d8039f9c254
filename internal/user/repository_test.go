// File: internal/user/repository_test.go
package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"dentalscope_backend/internal/common"
)

// setupRepository opens an in-memory SQLite database. The table is created by
// hand because the Postgres uuid default in BaseModel does not exist in
// SQLite; ids are assigned in the tests instead.
func setupRepository(t *testing.T) Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err, "Failed to open in-memory database")

	err = db.Exec(`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		stable_id VARCHAR(255) NOT NULL UNIQUE,
		provider VARCHAR(50) NOT NULL,
		email VARCHAR(255),
		name VARCHAR(255),
		is_email_verified BOOLEAN NOT NULL DEFAULT FALSE,
		role VARCHAR(50) NOT NULL DEFAULT 'user',
		last_login_at DATETIME
	)`).Error
	require.NoError(t, err, "Failed to create users table")

	return NewGORMRepository(db)
}

func newTestProfile(stableID string) *Profile {
	email := stableID + "@example.com"
	name := "Test User"
	now := time.Now().UTC()
	return &Profile{
		BaseModel:   common.BaseModel{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		StableID:    stableID,
		Provider:    "firebase",
		Email:       &email,
		Name:        &name,
		Role:        common.RoleUser,
		LastLoginAt: &now,
	}
}

func TestCreateAndFindByStableID(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	created := newTestProfile("firebase-uid-1")
	require.NoError(t, repo.Create(ctx, created))

	found, err := repo.FindByStableID(ctx, "firebase-uid-1")
	require.NoError(t, err)
	assert.Equal(t, created.StableID, found.StableID)
	assert.Equal(t, created.Provider, found.Provider)
	require.NotNil(t, found.Email)
	assert.Equal(t, "firebase-uid-1@example.com", *found.Email)
	assert.Equal(t, common.RoleUser, found.Role)
}

func TestCreateNormalizesEmail(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	profile := newTestProfile("firebase-uid-2")
	email := "  Mixed.Case@Example.COM "
	profile.Email = &email
	require.NoError(t, repo.Create(ctx, profile))

	found, err := repo.FindByStableID(ctx, "firebase-uid-2")
	require.NoError(t, err)
	require.NotNil(t, found.Email)
	assert.Equal(t, "mixed.case@example.com", *found.Email)
}

func TestCreateDuplicateStableIDConflicts(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestProfile("dup-uid")))

	err := repo.Create(ctx, newTestProfile("dup-uid"))
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok, "expected an APIError, got %v", err)
	assert.Equal(t, common.ErrConflict.Code, apiErr.Code)
}

func TestUpdatePersistsChanges(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	profile := newTestProfile("firebase-uid-3")
	require.NoError(t, repo.Create(ctx, profile))

	later := time.Now().UTC().Add(time.Hour)
	newName := "Renamed User"
	profile.Name = &newName
	profile.LastLoginAt = &later
	require.NoError(t, repo.Update(ctx, profile))

	found, err := repo.FindByStableID(ctx, "firebase-uid-3")
	require.NoError(t, err)
	require.NotNil(t, found.Name)
	assert.Equal(t, "Renamed User", *found.Name)
	require.NotNil(t, found.LastLoginAt)
}

func TestFindByStableIDNotFound(t *testing.T) {
	repo := setupRepository(t)

	_, err := repo.FindByStableID(context.Background(), "no-such-user")
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrNotFound.Code, apiErr.Code)
}
