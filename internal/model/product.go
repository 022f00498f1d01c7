package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product 商品主体。has_variants 为 true 时库存按变体维度跟踪，
// 商品级 stock_quantity 不参与可售判断。
type Product struct {
	ID            uint             `json:"id" gorm:"primaryKey"`
	Name          string           `json:"name" gorm:"type:varchar(200);not null"`
	Description   string           `json:"description" gorm:"type:text"`
	CategoryID    uint             `json:"category" gorm:"index;not null"`
	Category      Category         `json:"-" gorm:"foreignKey:CategoryID"`
	Price         decimal.Decimal  `json:"price" gorm:"type:decimal(10,2);not null"`
	OldPrice      *decimal.Decimal `json:"old_price" gorm:"type:decimal(10,2)"`
	StockQuantity int              `json:"stock_quantity" gorm:"not null;default:0"`
	Image         string           `json:"image" gorm:"type:varchar(255)"`
	Rating        float64          `json:"rating" gorm:"default:0"`
	ReviewsCount  int              `json:"reviews_count" gorm:"default:0"`
	IsActive      bool             `json:"is_active" gorm:"default:true;index"`
	IsFeatured    bool             `json:"is_featured" gorm:"default:false;index"`
	HasVariants   bool             `json:"has_variants" gorm:"default:false"`
	Variants      []ProductVariant `json:"variants" gorm:"foreignKey:ProductID"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func (Product) TableName() string { return "products" }

// IsOnSale 原价高于现价即视为促销中
func (p *Product) IsOnSale() bool {
	return p.OldPrice != nil && p.OldPrice.GreaterThan(p.Price)
}

// DiscountPercentage 促销折扣百分比（保留两位）
func (p *Product) DiscountPercentage() decimal.Decimal {
	if !p.IsOnSale() {
		return decimal.Zero
	}
	return p.OldPrice.Sub(p.Price).Div(*p.OldPrice).Mul(decimal.NewFromInt(100)).Round(2)
}

// IsInStock 有变体时任一变体有货即有货
func (p *Product) IsInStock() bool {
	if p.HasVariants {
		for _, v := range p.Variants {
			if v.StockQuantity > 0 {
				return true
			}
		}
		return false
	}
	return p.StockQuantity > 0
}

// ProductVariant 商品变体（尺码/颜色/材质），价格为商品价 + 调整值
// 复合唯一键 ux_variant_combo = (product_id, size, color, material)
type ProductVariant struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	ProductID       uint            `json:"product_id" gorm:"index;uniqueIndex:ux_variant_combo;not null"`
	SKU             string          `json:"sku" gorm:"type:varchar(100);uniqueIndex"`
	Size            string          `json:"size" gorm:"type:varchar(50);uniqueIndex:ux_variant_combo"`
	Color           string          `json:"color" gorm:"type:varchar(50);uniqueIndex:ux_variant_combo"`
	Material        string          `json:"material" gorm:"type:varchar(100);uniqueIndex:ux_variant_combo"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment" gorm:"type:decimal(10,2);not null;default:0"`
	StockQuantity   int             `json:"stock_quantity" gorm:"not null;default:0"`
	Image           string          `json:"image" gorm:"type:varchar(255)"`
	IsActive        bool            `json:"is_active" gorm:"default:true"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (ProductVariant) TableName() string { return "product_variants" }

// FinalPrice 变体成交单价 = 商品价 + 调整值
func (v *ProductVariant) FinalPrice(productPrice decimal.Decimal) decimal.Decimal {
	return productPrice.Add(v.PriceAdjustment)
}

// IsInStock 变体是否有货
func (v *ProductVariant) IsInStock() bool { return v.StockQuantity > 0 }
