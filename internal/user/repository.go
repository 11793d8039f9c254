// File: internal/user/repository.go
package user

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"dentalscope_backend/internal/common"
)

// Repository defines the interface for profile data operations.
type Repository interface {
	Create(ctx context.Context, profile *Profile) error
	Update(ctx context.Context, profile *Profile) error
	FindByStableID(ctx context.Context, stableID string) (*Profile, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM profile repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts a new profile record into the database.
func (r *gormRepository) Create(ctx context.Context, profile *Profile) error {
	if profile.Email != nil {
		*profile.Email = normalizeEmail(*profile.Email)
	}
	err := r.db.WithContext(ctx).Create(profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(err.Error(), "unique constraint") ||
			strings.Contains(err.Error(), "UNIQUE constraint") {
			return common.ErrConflict.WithDetails("A profile with this stable id already exists.")
		}
		return err
	}
	return nil
}

// Update modifies an existing profile record in the database.
func (r *gormRepository) Update(ctx context.Context, profile *Profile) error {
	if profile.Email != nil {
		*profile.Email = normalizeEmail(*profile.Email)
	}
	err := r.db.WithContext(ctx).Save(profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "unique constraint") {
			return common.ErrConflict.WithDetails("Update failed due to a stable id conflict.")
		}
		return err
	}
	return nil
}

// FindByStableID retrieves a profile by the provider-stable user id.
func (r *gormRepository) FindByStableID(ctx context.Context, stableID string) (*Profile, error) {
	var profile Profile
	err := r.db.WithContext(ctx).Where("stable_id = ?", stableID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Profile not found for this user.")
		}
		return nil, err
	}
	return &profile, nil
}
