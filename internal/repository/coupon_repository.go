package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/gin-storefront/internal/model"
)

// CouponRepository 优惠券仓储接口
type CouponRepository interface {
	// GetActiveByCode 按券码查找启用中的券
	GetActiveByCode(ctx context.Context, code string) (*model.Coupon, error)

	// CountUsagesByUser 用户对某券的历史成功用券次数
	CountUsagesByUser(ctx context.Context, userID, couponID uint) (int64, error)
}

type gormCouponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &gormCouponRepository{db: db}
}

func (r *gormCouponRepository) GetActiveByCode(ctx context.Context, code string) (*model.Coupon, error) {
	var cp model.Coupon
	err := r.db.WithContext(ctx).
		Where("code = ? AND is_active = ?", code, true).
		First(&cp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cp, nil
}

func (r *gormCouponRepository) CountUsagesByUser(ctx context.Context, userID, couponID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CouponUsage{}).
		Where("user_id = ? AND coupon_id = ?", userID, couponID).
		Count(&count).Error
	return count, err
}
