package service

import (
	"errors"
	"fmt"
	"strings"
)

// 预期内的业务失败，handler 层映射为 4xx，不记系统错误日志
var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrProductNotFound  = errors.New("product not found or inactive")
	ErrVariantNotFound  = errors.New("product variant not found or inactive")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrPaymentNotFound  = errors.New("payment not found")

	ErrWishlistItemNotFound = errors.New("wishlist item not found")

	// 支付单已完成时拒绝重复确认，不做重放
	ErrPaymentCompleted = errors.New("payment already completed")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is deactivated")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// 优惠券校验失败的细分原因
var (
	ErrCouponInvalidCode  = errors.New("invalid coupon code")
	ErrCouponExpired      = errors.New("coupon is not valid or has expired")
	ErrCouponBelowMinimum = errors.New("order amount below coupon minimum")
	ErrCouponPerUserLimit = errors.New("coupon usage limit exceeded for this user")
)

// IsCouponError 是否属于优惠券类失败
func IsCouponError(err error) bool {
	return errors.Is(err, ErrCouponInvalidCode) ||
		errors.Is(err, ErrCouponExpired) ||
		errors.Is(err, ErrCouponBelowMinimum) ||
		errors.Is(err, ErrCouponPerUserLimit)
}

// ValidationError 字段级校验失败
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// 库存问题分类
const (
	StockReasonOutOfStock   = "out_of_stock"
	StockReasonInsufficient = "insufficient"
)

// StockIssue 单行库存问题
type StockIssue struct {
	CartItemID  uint   `json:"cart_item_id"`
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
	Reason      string `json:"reason"`
}

// StockError 库存校验失败，携带全部问题行（不是只有第一条）
type StockError struct {
	Issues []StockIssue
}

func (e *StockError) Error() string {
	names := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		names = append(names, is.ProductName)
	}
	return "insufficient stock: " + strings.Join(names, ", ")
}

// CheckoutError 结算事务内的非预期失败，整体已回滚
type CheckoutError struct {
	Err error
}

func (e *CheckoutError) Error() string { return "checkout failed: " + e.Err.Error() }
func (e *CheckoutError) Unwrap() error { return e.Err }
