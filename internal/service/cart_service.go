package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/d60-Lab/gin-storefront/internal/model"
	"github.com/d60-Lab/gin-storefront/internal/repository"
)

// CartSummary 购物车汇总（无券口径）
type CartSummary struct {
	ItemsCount   int             `json:"items_count"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Total        decimal.Decimal `json:"total"`
}

// CartView 购物车行 + 汇总
type CartView struct {
	Items   []model.CartItem `json:"cart_items"`
	Summary CartSummary      `json:"summary"`
}

// CartService 购物车管理。同一 (商品, 变体) 重复加购合并数量，
// 合并后的数量也要过一次库存校验。
type CartService interface {
	List(ctx context.Context, userID uint) (*CartView, error)
	Add(ctx context.Context, userID, productID uint, variantID *uint, quantity int) (*model.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, itemID uint, quantity int) (*model.CartItem, error)
	Remove(ctx context.Context, userID, itemID uint) error
	Clear(ctx context.Context, userID uint) (int64, error)

	// Snapshot 结算用的购物车快照；空车返回 ErrEmptyCart
	Snapshot(ctx context.Context, userID uint) ([]model.CartItem, error)
}

type cartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	pricing  *PricingEngine
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository, pricing *PricingEngine) CartService {
	return &cartService{carts: carts, products: products, pricing: pricing}
}

func (s *cartService) List(ctx context.Context, userID uint) (*CartView, error) {
	items, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 购物车页展示无券口径的报价
	quote := s.pricing.Quote(items, nil, timeNow())
	return &CartView{
		Items: items,
		Summary: CartSummary{
			ItemsCount:   len(items),
			Subtotal:     quote.Subtotal,
			TaxAmount:    quote.Tax,
			ShippingCost: quote.Shipping,
			Total:        quote.Total,
		},
	}, nil
}

func (s *cartService) Add(ctx context.Context, userID, productID uint, variantID *uint, quantity int) (*model.CartItem, error) {
	if quantity < 1 {
		return nil, &ValidationError{Field: "quantity", Message: "quantity must be at least 1"}
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &ValidationError{Field: "product_id", Message: "product not found or inactive"}
		}
		return nil, err
	}

	var variant *model.ProductVariant
	if variantID != nil {
		variant, err = s.products.GetVariant(ctx, productID, *variantID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, &ValidationError{Field: "variant_id", Message: "product variant not found or inactive"}
			}
			return nil, err
		}
	}

	available := product.StockQuantity
	if variant != nil {
		available = variant.StockQuantity
	}
	if quantity > available {
		return nil, &ValidationError{
			Field:   "quantity",
			Message: fmt.Sprintf("only %d items available in stock", available),
		}
	}

	existing, err := s.carts.FindLine(ctx, userID, productID, variantID)
	switch {
	case err == nil:
		// 已有同行则合并数量，合并结果同样受库存约束
		merged := existing.Quantity + quantity
		if merged > available {
			return nil, &ValidationError{
				Field: "quantity",
				Message: fmt.Sprintf("only %d items available in stock, you already have %d in cart",
					available, existing.Quantity),
			}
		}
		if err := s.carts.UpdateQuantity(ctx, existing.ID, merged); err != nil {
			return nil, err
		}
		return s.carts.GetByIDForUser(ctx, existing.ID, userID)
	case errors.Is(err, repository.ErrNotFound):
		item := &model.CartItem{
			UserID:    userID,
			ProductID: productID,
			VariantID: variantID,
			Quantity:  quantity,
		}
		if err := s.carts.Create(ctx, item); err != nil {
			return nil, err
		}
		return s.carts.GetByIDForUser(ctx, item.ID, userID)
	default:
		return nil, err
	}
}

func (s *cartService) UpdateQuantity(ctx context.Context, userID, itemID uint, quantity int) (*model.CartItem, error) {
	if quantity < 1 {
		return nil, &ValidationError{Field: "quantity", Message: "quantity must be at least 1"}
	}

	item, err := s.carts.GetByIDForUser(ctx, itemID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}

	if available := item.AvailableStock(); quantity > available {
		return nil, &ValidationError{
			Field:   "quantity",
			Message: fmt.Sprintf("only %d items available in stock", available),
		}
	}

	if err := s.carts.UpdateQuantity(ctx, item.ID, quantity); err != nil {
		return nil, err
	}
	item.Quantity = quantity
	return item, nil
}

func (s *cartService) Remove(ctx context.Context, userID, itemID uint) error {
	if err := s.carts.Delete(ctx, itemID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCartItemNotFound
		}
		return err
	}
	return nil
}

func (s *cartService) Clear(ctx context.Context, userID uint) (int64, error) {
	return s.carts.ClearUser(ctx, userID)
}

func (s *cartService) Snapshot(ctx context.Context, userID uint) ([]model.CartItem, error) {
	items, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	return items, nil
}
