package repository

import (
	"context"
	"errors"

	"github.com/stylecloset/wardrobe-service/internal/domain"
	"github.com/stylecloset/wardrobe-service/internal/observability"

	"gorm.io/gorm"
)

var ErrStyleProfileNotFound = errors.New("style profile not found")

type StyleProfileRepository interface {
	FindByUser(userID string) (*domain.StyleProfile, error)
	Upsert(profile *domain.StyleProfile) error
}

type GormStyleProfileRepository struct{ db *gorm.DB }

func NewStyleProfileRepository(db *gorm.DB) StyleProfileRepository {
	return &GormStyleProfileRepository{db: db}
}

func (r *GormStyleProfileRepository) FindByUser(userID string) (*domain.StyleProfile, error) {
	var p domain.StyleProfile
	err := r.db.Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "style_profile", "find_by_user", "not_found")
			return nil, ErrStyleProfileNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "style_profile", "find_by_user", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "style_profile", "find_by_user", "success")
	return &p, nil
}

// Upsert keeps one profile row per user, updating in place when present.
func (r *GormStyleProfileRepository) Upsert(profile *domain.StyleProfile) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing domain.StyleProfile
		err := tx.Where("user_id = ?", profile.UserID).First(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return tx.Create(profile).Error
			}
			return err
		}
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
		return tx.Save(profile).Error
	})
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "style_profile", "upsert", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "style_profile", "upsert", "success")
	return nil
}
