package service

import (
	"context"
	"errors"

	"github.com/d60-Lab/gin-storefront/internal/model"
	"github.com/d60-Lab/gin-storefront/internal/repository"
)

// OrderService 订单查询与履约流转
type OrderService interface {
	List(ctx context.Context, userID uint) ([]model.Order, error)
	Get(ctx context.Context, userID, orderID uint) (*model.Order, error)
}

type orderService struct {
	orders repository.OrderRepository
}

func NewOrderService(orders repository.OrderRepository) OrderService {
	return &orderService{orders: orders}
}

func (s *orderService) List(ctx context.Context, userID uint) ([]model.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *orderService) Get(ctx context.Context, userID, orderID uint) (*model.Order, error) {
	order, err := s.orders.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}
