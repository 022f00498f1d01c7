package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem 购物车行。复合唯一键 ux_cart_line = (user_id, product_id, variant_id)，
// 重复加购合并数量而不是新增行。
type CartItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	UserID    uint            `json:"-" gorm:"index;uniqueIndex:ux_cart_line;not null"`
	ProductID uint            `json:"product_id" gorm:"uniqueIndex:ux_cart_line;not null"`
	Product   Product         `json:"product" gorm:"foreignKey:ProductID"`
	VariantID *uint           `json:"variant_id" gorm:"uniqueIndex:ux_cart_line"`
	Variant   *ProductVariant `json:"variant" gorm:"foreignKey:VariantID"`
	Quantity  int             `json:"quantity" gorm:"not null;default:1"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (CartItem) TableName() string { return "cart_items" }

// UnitPrice 行单价：有变体取变体成交价，否则取商品价
func (c *CartItem) UnitPrice() decimal.Decimal {
	if c.Variant != nil {
		return c.Variant.FinalPrice(c.Product.Price)
	}
	return c.Product.Price
}

// TotalPrice 行小计 = 数量 × 单价
func (c *CartItem) TotalPrice() decimal.Decimal {
	return c.UnitPrice().Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// AvailableStock 可售库存：有变体取变体库存，否则取商品库存
func (c *CartItem) AvailableStock() int {
	if c.Variant != nil {
		return c.Variant.StockQuantity
	}
	return c.Product.StockQuantity
}

// IsOutOfStock 可售库存 ≤ 0
func (c *CartItem) IsOutOfStock() bool { return c.AvailableStock() <= 0 }
