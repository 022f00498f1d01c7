package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/gin-storefront/internal/model"
)

// WishlistRepository 心愿单仓储接口
type WishlistRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]model.Wishlist, error)
	Create(ctx context.Context, item *model.Wishlist) error
	Delete(ctx context.Context, id, userID uint) error
}

type gormWishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) WishlistRepository {
	return &gormWishlistRepository{db: db}
}

func (r *gormWishlistRepository) ListByUser(ctx context.Context, userID uint) ([]model.Wishlist, error) {
	var items []model.Wishlist
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *gormWishlistRepository) Create(ctx context.Context, item *model.Wishlist) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *gormWishlistRepository) Delete(ctx context.Context, id, userID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Wishlist{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
