package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/gin-storefront/internal/cache"
	"github.com/d60-Lab/gin-storefront/internal/model"
	"github.com/d60-Lab/gin-storefront/pkg/logger"
)

// 订单号为固定前缀 + 8 位大写十六进制；撞唯一键时重新生成
const (
	orderNumberPrefix   = "ORD-"
	orderNumberAttempts = 3
)

// CheckoutRequest 结算入参（收货信息快照 + 支付方式 + 可选券码）
type CheckoutRequest struct {
	ShippingName         string `json:"shipping_name" binding:"required,max=100"`
	ShippingEmail        string `json:"shipping_email" binding:"required,email"`
	ShippingPhone        string `json:"shipping_phone" binding:"required,phone"`
	ShippingAddressLine1 string `json:"shipping_address_line1" binding:"required,max=255"`
	ShippingAddressLine2 string `json:"shipping_address_line2" binding:"max=255"`
	ShippingCity         string `json:"shipping_city" binding:"required,max=100"`
	ShippingState        string `json:"shipping_state" binding:"required,max=100"`
	ShippingPostalCode   string `json:"shipping_postal_code" binding:"required,max=20"`
	ShippingCountry      string `json:"shipping_country" binding:"max=100"`
	PaymentMethod        string `json:"payment_method" binding:"required,oneof=stripe razorpay paypal card cash_on_delivery"`
	CouponCode           string `json:"coupon_code" binding:"max=50"`
}

// CheckoutService 把购物车变成订单：库存复核 → 计价 →（可选）用券 →
// 订单 + 订单行 + 扣库存 + 支付单，全部在一个数据库事务内，任一步失败整体回滚。
// 事务是唯一的串行化点，不持有进程内锁。
type CheckoutService interface {
	Checkout(ctx context.Context, userID uint, req CheckoutRequest) (*model.Order, *model.Payment, error)
}

type checkoutService struct {
	db       *gorm.DB
	carts    CartService
	coupons  CouponService
	pricing  *PricingEngine
	currency string
	catalog  *cache.CatalogCache
}

// NewCheckoutService catalog 可为 nil（测试或未接 redis 时跳过缓存失效）
func NewCheckoutService(db *gorm.DB, carts CartService, coupons CouponService, pricing *PricingEngine, currency string, catalog *cache.CatalogCache) CheckoutService {
	return &checkoutService{db: db, carts: carts, coupons: coupons, pricing: pricing, currency: currency, catalog: catalog}
}

func (s *checkoutService) Checkout(ctx context.Context, userID uint, req CheckoutRequest) (*model.Order, *model.Payment, error) {
	lines, err := s.carts.Snapshot(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	var (
		order   *model.Order
		payment *model.Payment
	)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 提交时点重新校验库存。购物车页看到有货不代表现在有货。
		fresh, err := s.reloadLines(tx, lines)
		if err != nil {
			return err
		}
		if stockErr := validateStock(fresh); stockErr != nil {
			return stockErr
		}

		// 2. 计价（券校验在小计已知之后）
		subtotal := s.pricing.Subtotal(fresh)
		var coupon *model.Coupon
		if code := strings.TrimSpace(req.CouponCode); code != "" {
			coupon, _, err = s.coupons.Validate(ctx, userID, code, subtotal)
			if err != nil {
				return err
			}
		}
		quote := s.pricing.Quote(fresh, coupon, timeNow())

		// 3. 订单头，订单号撞唯一键时重试
		order, err = s.createOrder(tx, userID, req, coupon, quote)
		if err != nil {
			return err
		}

		// 4+5. 订单行（单价快照）+ 守卫式扣库存
		for i := range fresh {
			line := &fresh[i]
			item := model.OrderItem{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     line.UnitPrice().Round(2),
				Total:     line.TotalPrice().Round(2),
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			order.Items = append(order.Items, item)

			if err := decrementStock(tx, line); err != nil {
				return err
			}
		}

		// 6. 用券记账：流水 + used_count 递增，二者都只在订单已落库后发生
		if coupon != nil {
			if err := s.redeemCoupon(tx, userID, coupon, order.ID, quote); err != nil {
				return err
			}
		}

		// 7. 待支付单，金额恒等于订单总额
		payment = &model.Payment{
			OrderID:       order.ID,
			PaymentMethod: req.PaymentMethod,
			Amount:        order.TotalAmount,
			Currency:      s.currency,
			Status:        model.PaymentStatusPending,
		}
		return tx.Create(payment).Error
	})
	if err != nil {
		return nil, nil, err
	}

	// 8. 提交后失效已售商品的详情缓存，下一次读取回源拿到新库存
	if s.catalog != nil {
		for i := range order.Items {
			s.catalog.InvalidateProduct(ctx, order.Items[i].ProductID)
		}
	}

	// 9. 清空购物车只在事务成功提交后执行
	if _, err := s.carts.Clear(ctx, userID); err != nil {
		logger.Warn("clear cart after checkout failed",
			zap.Uint("user_id", userID),
			zap.String("order_number", order.OrderNumber),
			zap.Error(err),
		)
	}

	logger.Info("order created",
		zap.Uint("user_id", userID),
		zap.String("order_number", order.OrderNumber),
		zap.String("total", order.TotalAmount.String()),
	)
	return order, payment, nil
}

// reloadLines 在事务内重读商品/变体，保证校验与扣减看到的是同一事务视野
func (s *checkoutService) reloadLines(tx *gorm.DB, lines []model.CartItem) ([]model.CartItem, error) {
	ids := make([]uint, 0, len(lines))
	for i := range lines {
		ids = append(ids, lines[i].ID)
	}
	var fresh []model.CartItem
	err := tx.
		Preload("Product").
		Preload("Variant").
		Where("id IN ?", ids).
		Order("created_at DESC").
		Find(&fresh).Error
	if err != nil {
		return nil, err
	}
	if len(fresh) == 0 {
		return nil, ErrEmptyCart
	}
	return fresh, nil
}

// validateStock 整车校验，返回全部问题行；任何一行失败都使整单失败
func validateStock(lines []model.CartItem) *StockError {
	var issues []StockIssue
	for i := range lines {
		line := &lines[i]
		available := line.AvailableStock()
		switch {
		case available <= 0:
			issues = append(issues, StockIssue{
				CartItemID:  line.ID,
				ProductID:   line.ProductID,
				ProductName: line.Product.Name,
				Requested:   line.Quantity,
				Available:   available,
				Reason:      StockReasonOutOfStock,
			})
		case line.Quantity > available:
			issues = append(issues, StockIssue{
				CartItemID:  line.ID,
				ProductID:   line.ProductID,
				ProductName: line.Product.Name,
				Requested:   line.Quantity,
				Available:   available,
				Reason:      StockReasonInsufficient,
			})
		}
	}
	if len(issues) > 0 {
		return &StockError{Issues: issues}
	}
	return nil
}

// decrementStock 守卫式扣减：stock >= 数量 才扣，否则 0 行生效，
// 并发下别的结算先扣走了就把本单当库存失败处理，绝不扣成负数。
func decrementStock(tx *gorm.DB, line *model.CartItem) error {
	var res *gorm.DB
	if line.VariantID != nil {
		res = tx.Model(&model.ProductVariant{}).
			Where("id = ? AND stock_quantity >= ?", *line.VariantID, line.Quantity).
			Update("stock_quantity", gorm.Expr("stock_quantity - ?", line.Quantity))
	} else {
		res = tx.Model(&model.Product{}).
			Where("id = ? AND stock_quantity >= ?", line.ProductID, line.Quantity).
			Update("stock_quantity", gorm.Expr("stock_quantity - ?", line.Quantity))
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &StockError{Issues: []StockIssue{{
			CartItemID:  line.ID,
			ProductID:   line.ProductID,
			ProductName: line.Product.Name,
			Requested:   line.Quantity,
			Available:   0,
			Reason:      StockReasonInsufficient,
		}}}
	}
	return nil
}

func (s *checkoutService) createOrder(tx *gorm.DB, userID uint, req CheckoutRequest, coupon *model.Coupon, quote PriceBreakdown) (*model.Order, error) {
	country := req.ShippingCountry
	if country == "" {
		country = "India"
	}
	var couponID *uint
	if coupon != nil {
		couponID = &coupon.ID
	}

	var lastErr error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order := &model.Order{
			UserID:               userID,
			OrderNumber:          newOrderNumber(),
			ShippingName:         req.ShippingName,
			ShippingEmail:        req.ShippingEmail,
			ShippingPhone:        req.ShippingPhone,
			ShippingAddressLine1: req.ShippingAddressLine1,
			ShippingAddressLine2: req.ShippingAddressLine2,
			ShippingCity:         req.ShippingCity,
			ShippingState:        req.ShippingState,
			ShippingPostalCode:   req.ShippingPostalCode,
			ShippingCountry:      country,
			Subtotal:             quote.Subtotal,
			DiscountAmount:       quote.Discount,
			CouponID:             couponID,
			TaxAmount:            quote.Tax,
			ShippingCost:         quote.Shipping,
			TotalAmount:          quote.Total,
			OrderStatus:          model.OrderStatusPending,
			PaymentStatus:        model.OrderPaymentPending,
		}
		err := tx.Create(order).Error
		if err == nil {
			return order, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("order number collision after %d attempts: %w", orderNumberAttempts, lastErr)
}

// redeemCoupon 记用券流水并守卫式递增 used_count；
// 总量封顶在并发下被别人用完时，本单整体回滚。
func (s *checkoutService) redeemCoupon(tx *gorm.DB, userID uint, coupon *model.Coupon, orderID uint, quote PriceBreakdown) error {
	usage := model.CouponUsage{
		UserID:         userID,
		CouponID:       coupon.ID,
		OrderID:        orderID,
		DiscountAmount: quote.Discount,
	}
	if err := tx.Create(&usage).Error; err != nil {
		return err
	}

	q := tx.Model(&model.Coupon{}).Where("id = ?", coupon.ID)
	if coupon.UsageLimit != nil {
		q = q.Where("used_count < ?", *coupon.UsageLimit)
	}
	res := q.Update("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCouponExpired
	}
	return nil
}

var newOrderNumber = func() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return orderNumberPrefix + strings.ToUpper(raw[:8])
}
