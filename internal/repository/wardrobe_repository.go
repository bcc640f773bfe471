package repository

import (
	"context"
	"errors"

	"github.com/stylecloset/wardrobe-service/internal/domain"
	"github.com/stylecloset/wardrobe-service/internal/observability"

	"gorm.io/gorm"
)

var ErrWardrobeItemNotFound = errors.New("wardrobe item not found")

// WardrobeRepository scopes every operation to the owning user so a caller
// can never read or mutate another account's items.
type WardrobeRepository interface {
	ListByUser(userID string) ([]domain.WardrobeItem, error)
	Create(item *domain.WardrobeItem) error
	FindByIDForUser(userID, itemID string) (*domain.WardrobeItem, error)
	Update(item *domain.WardrobeItem) error
	DeleteByIDForUser(userID, itemID string) error
}

type GormWardrobeRepository struct{ db *gorm.DB }

func NewWardrobeRepository(db *gorm.DB) WardrobeRepository { return &GormWardrobeRepository{db: db} }

func (r *GormWardrobeRepository) ListByUser(userID string) ([]domain.WardrobeItem, error) {
	var items []domain.WardrobeItem
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&items).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "wardrobe", "list_by_user", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "wardrobe", "list_by_user", "success")
	return items, nil
}

func (r *GormWardrobeRepository) Create(item *domain.WardrobeItem) error {
	err := r.db.Create(item).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "wardrobe", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "wardrobe", "create", "success")
	return nil
}

func (r *GormWardrobeRepository) FindByIDForUser(userID, itemID string) (*domain.WardrobeItem, error) {
	var item domain.WardrobeItem
	err := r.db.Where("user_id = ? AND id = ?", userID, itemID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "wardrobe", "find_by_id_for_user", "not_found")
			return nil, ErrWardrobeItemNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "wardrobe", "find_by_id_for_user", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "wardrobe", "find_by_id_for_user", "success")
	return &item, nil
}

func (r *GormWardrobeRepository) Update(item *domain.WardrobeItem) error {
	err := r.db.Save(item).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "wardrobe", "update", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "wardrobe", "update", "success")
	return nil
}

func (r *GormWardrobeRepository) DeleteByIDForUser(userID, itemID string) error {
	res := r.db.Where("user_id = ? AND id = ?", userID, itemID).Delete(&domain.WardrobeItem{})
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "wardrobe", "delete_by_id_for_user", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(context.Background(), "wardrobe", "delete_by_id_for_user", "not_found")
		return ErrWardrobeItemNotFound
	}
	observability.RecordRepositoryOperation(context.Background(), "wardrobe", "delete_by_id_for_user", "success")
	return nil
}
