package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/gin-storefront/internal/model"
)

// OrderRepository 订单仓储接口。订单的创建在结算事务内完成（见 service 层），
// 这里只提供读取与履约状态流转。
type OrderRepository interface {
	// ListByUser 用户订单列表（含订单行）
	ListByUser(ctx context.Context, userID uint) ([]model.Order, error)

	// GetByIDForUser 归属校验的订单详情
	GetByIDForUser(ctx context.Context, id, userID uint) (*model.Order, error)

	// MarkShipped 置为已发货并盖 shipped_at 时间戳
	MarkShipped(ctx context.Context, id uint) error

	// MarkDelivered 置为已送达并盖 delivered_at 时间戳
	MarkDelivered(ctx context.Context, id uint) error
}

type gormOrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &gormOrderRepository{db: db}
}

func (r *gormOrderRepository) ListByUser(ctx context.Context, userID uint) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *gormOrderRepository) GetByIDForUser(ctx context.Context, id, userID uint) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *gormOrderRepository) MarkShipped(ctx context.Context, id uint) error {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ? AND order_status = ?", id, model.OrderStatusProcessing).
		Updates(map[string]any{"order_status": model.OrderStatusShipped, "shipped_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormOrderRepository) MarkDelivered(ctx context.Context, id uint) error {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ? AND order_status = ?", id, model.OrderStatusShipped).
		Updates(map[string]any{"order_status": model.OrderStatusDelivered, "delivered_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
