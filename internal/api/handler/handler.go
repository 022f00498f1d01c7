package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-storefront/internal/service"
	"github.com/d60-Lab/gin-storefront/pkg/response"
)

// Handler 聚合全部业务服务的 HTTP 处理器
type Handler struct {
	auth     service.AuthService
	catalog  service.CatalogService
	cart     service.CartService
	coupons  service.CouponService
	checkout service.CheckoutService
	orders   service.OrderService
	payments service.PaymentService
	wishlist service.WishlistService
}

func New(
	auth service.AuthService,
	catalog service.CatalogService,
	cart service.CartService,
	coupons service.CouponService,
	checkout service.CheckoutService,
	orders service.OrderService,
	payments service.PaymentService,
	wishlist service.WishlistService,
) *Handler {
	return &Handler{
		auth:     auth,
		catalog:  catalog,
		cart:     cart,
		coupons:  coupons,
		checkout: checkout,
		orders:   orders,
		payments: payments,
		wishlist: wishlist,
	}
}

// fail 把服务层错误映射到统一响应。预期内失败走 4xx；
// 其余一律按系统错误处理（记日志 + sentry + 安全文案）。
func fail(c *gin.Context, err error) {
	var (
		vErr *service.ValidationError
		sErr *service.StockError
	)
	switch {
	case errors.As(err, &vErr):
		response.BadRequestWithErrors(c, "validation failed", gin.H{vErr.Field: vErr.Message})
	case errors.As(err, &sErr):
		response.BadRequestWithErrors(c, sErr.Error(), gin.H{"stock": sErr.Issues})
	case service.IsCouponError(err):
		response.BadRequestWithErrors(c, err.Error(), gin.H{"coupon_code": err.Error()})
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrPaymentCompleted):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrCartItemNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrPaymentNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrVariantNotFound),
		errors.Is(err, service.ErrWishlistItemNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrAccountDisabled),
		errors.Is(err, service.ErrInvalidToken):
		response.Unauthorized(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
