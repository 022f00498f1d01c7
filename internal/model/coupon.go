package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 折扣类型
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// Coupon 优惠券。used_count 为单调计数，只在下单事务提交内递增。
type Coupon struct {
	ID                    uint             `json:"id" gorm:"primaryKey"`
	Code                  string           `json:"code" gorm:"type:varchar(50);uniqueIndex;not null"`
	Description           string           `json:"description" gorm:"type:text"`
	DiscountType          string           `json:"discount_type" gorm:"type:varchar(20);not null;default:percentage"`
	DiscountValue         decimal.Decimal  `json:"discount_value" gorm:"type:decimal(10,2);not null"`
	MinimumOrderAmount    decimal.Decimal  `json:"minimum_order_amount" gorm:"type:decimal(10,2);not null;default:0"`
	MaximumDiscountAmount *decimal.Decimal `json:"maximum_discount_amount" gorm:"type:decimal(10,2)"`
	UsageLimit            *int             `json:"usage_limit"`
	UsageLimitPerUser     int              `json:"usage_limit_per_user" gorm:"not null;default:1"`
	UsedCount             int              `json:"used_count" gorm:"not null;default:0"`
	ValidFrom             time.Time        `json:"valid_from" gorm:"not null"`
	ValidUntil            time.Time        `json:"valid_until" gorm:"not null"`
	IsActive              bool             `json:"is_active" gorm:"default:true;index"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
}

func (Coupon) TableName() string { return "coupons" }

// IsValid 有效 = 启用 且 当前时间在有效期内 且 总量未用尽
func (cp *Coupon) IsValid(now time.Time) bool {
	if !cp.IsActive {
		return false
	}
	if now.Before(cp.ValidFrom) || now.After(cp.ValidUntil) {
		return false
	}
	if cp.UsageLimit != nil && cp.UsedCount >= *cp.UsageLimit {
		return false
	}
	return true
}

// CalculateDiscount 按订单金额计算折扣额；券无效或未达门槛返回 0。
// percentage: 金额 × 折扣值 / 100；fixed: 固定减免。超过封顶值时按封顶值收口。
func (cp *Coupon) CalculateDiscount(orderAmount decimal.Decimal, now time.Time) decimal.Decimal {
	if !cp.IsValid(now) || orderAmount.LessThan(cp.MinimumOrderAmount) {
		return decimal.Zero
	}

	var discount decimal.Decimal
	if cp.DiscountType == DiscountTypePercentage {
		discount = orderAmount.Mul(cp.DiscountValue).Div(decimal.NewFromInt(100))
	} else {
		discount = cp.DiscountValue
	}

	if cp.MaximumDiscountAmount != nil && discount.GreaterThan(*cp.MaximumDiscountAmount) {
		discount = *cp.MaximumDiscountAmount
	}
	return discount
}

// CouponUsage 用券流水。复合唯一键 ux_coupon_usage = (user_id, coupon_id, order_id)，
// 同一订单不可重复记账。
type CouponUsage struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	UserID         uint            `json:"user_id" gorm:"uniqueIndex:ux_coupon_usage;not null"`
	CouponID       uint            `json:"coupon_id" gorm:"uniqueIndex:ux_coupon_usage;index;not null"`
	OrderID        uint            `json:"order_id" gorm:"uniqueIndex:ux_coupon_usage;not null"`
	DiscountAmount decimal.Decimal `json:"discount_amount" gorm:"type:decimal(10,2);not null"`
	UsedAt         time.Time       `json:"used_at" gorm:"autoCreateTime"`
}

func (CouponUsage) TableName() string { return "coupon_usages" }
