package repository

import (
	"context"
	"errors"
	"time"

	"github.com/stylecloset/wardrobe-service/internal/domain"
	"github.com/stylecloset/wardrobe-service/internal/observability"

	"gorm.io/gorm"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRepository is the persistence contract of the session lifecycle
// manager. Deletes are idempotent: removing an absent row is not an error.
type SessionRepository interface {
	Create(s *domain.Session) error
	FindByTokenHash(hash string) (*domain.Session, error)
	DeleteByTokenHash(hash string) error
	DeleteAllForUser(userID string) (int64, error)
	DeleteExpired() (int64, error)
}

type GormSessionRepository struct{ db *gorm.DB }

func NewSessionRepository(db *gorm.DB) SessionRepository { return &GormSessionRepository{db: db} }

func (r *GormSessionRepository) Create(s *domain.Session) error {
	err := r.db.Create(s).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "session", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "session", "create", "success")
	return nil
}

// FindByTokenHash loads the session together with the owning user's
// projection, mirroring the single joined lookup callers need.
func (r *GormSessionRepository) FindByTokenHash(hash string) (*domain.Session, error) {
	var s domain.Session
	err := r.db.Preload("User").Where("token_hash = ?", hash).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "session", "find_by_token_hash", "not_found")
			return nil, ErrSessionNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "session", "find_by_token_hash", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "session", "find_by_token_hash", "success")
	return &s, nil
}

func (r *GormSessionRepository) DeleteByTokenHash(hash string) error {
	err := r.db.Where("token_hash = ?", hash).Delete(&domain.Session{}).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "session", "delete_by_token_hash", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "session", "delete_by_token_hash", "success")
	return nil
}

func (r *GormSessionRepository) DeleteAllForUser(userID string) (int64, error) {
	res := r.db.Where("user_id = ?", userID).Delete(&domain.Session{})
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "session", "delete_all_for_user", "error")
		return res.RowsAffected, res.Error
	}
	observability.RecordRepositoryOperation(context.Background(), "session", "delete_all_for_user", "success")
	return res.RowsAffected, nil
}

func (r *GormSessionRepository) DeleteExpired() (int64, error) {
	res := r.db.Where("expires_at <= ?", time.Now()).Delete(&domain.Session{})
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "session", "delete_expired", "error")
		return res.RowsAffected, res.Error
	}
	observability.RecordRepositoryOperation(context.Background(), "session", "delete_expired", "success")
	return res.RowsAffected, nil
}
