package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/d60-Lab/gin-storefront/config"
	"github.com/d60-Lab/gin-storefront/internal/model"
)

// PriceBreakdown 一次报价的金额拆解，各字段已按落库精度收口到两位小数
type PriceBreakdown struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax_amount"`
	Shipping decimal.Decimal `json:"shipping_cost"`
	Total    decimal.Decimal `json:"total"`
}

// PricingEngine 计价引擎。纯函数式：同样的购物车 + 券必然给出同样的拆解。
// 税与运费门槛都基于折后小计计算，这是对外可观察的行为，不可调整顺序。
type PricingEngine struct {
	taxRate           decimal.Decimal
	shippingFlat      decimal.Decimal
	freeShippingAbove decimal.Decimal
}

// NewPricingEngine 从配置解析计价常量
func NewPricingEngine(cfg config.PricingConfig) (*PricingEngine, error) {
	taxRate, err := decimal.NewFromString(cfg.TaxRate)
	if err != nil {
		return nil, fmt.Errorf("parse tax_rate: %w", err)
	}
	shippingFlat, err := decimal.NewFromString(cfg.ShippingFlat)
	if err != nil {
		return nil, fmt.Errorf("parse shipping_flat: %w", err)
	}
	freeAbove, err := decimal.NewFromString(cfg.FreeShippingAbove)
	if err != nil {
		return nil, fmt.Errorf("parse free_shipping_above: %w", err)
	}
	return &PricingEngine{
		taxRate:           taxRate,
		shippingFlat:      shippingFlat,
		freeShippingAbove: freeAbove,
	}, nil
}

// Subtotal 购物车小计 = Σ 数量 × 当前解析单价（商品价或变体成交价）
func (e *PricingEngine) Subtotal(lines []model.CartItem) decimal.Decimal {
	subtotal := decimal.Zero
	for i := range lines {
		subtotal = subtotal.Add(lines[i].TotalPrice())
	}
	return subtotal
}

// Quote 计算完整金额拆解。coupon 可为 nil。
// 中间量不逐行舍入，只有最终字段按两位小数收口。
func (e *PricingEngine) Quote(lines []model.CartItem, coupon *model.Coupon, now time.Time) PriceBreakdown {
	subtotal := e.Subtotal(lines)

	discount := decimal.Zero
	if coupon != nil {
		discount = coupon.CalculateDiscount(subtotal, now)
	}

	discounted := subtotal.Sub(discount)
	tax := discounted.Mul(e.taxRate)

	shipping := decimal.Zero
	if discounted.LessThan(e.freeShippingAbove) {
		shipping = e.shippingFlat
	}

	total := discounted.Add(tax).Add(shipping)

	return PriceBreakdown{
		Subtotal: subtotal.Round(2),
		Discount: discount.Round(2),
		Tax:      tax.Round(2),
		Shipping: shipping.Round(2),
		Total:    total.Round(2),
	}
}
