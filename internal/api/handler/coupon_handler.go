package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/d60-Lab/gin-storefront/internal/api/middleware"
	"github.com/d60-Lab/gin-storefront/pkg/response"
)

type validateCouponRequest struct {
	Code        string          `json:"code" binding:"required,max=50"`
	OrderAmount decimal.Decimal `json:"order_amount" binding:"required"`
}

// ValidateCoupon 券码试算
// @Summary 校验优惠券并试算折扣
// @Tags 优惠券
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body validateCouponRequest true "券码与订单金额"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/coupons/validate [post]
func (h *Handler) ValidateCoupon(c *gin.Context) {
	var req validateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestWithErrors(c, "invalid coupon request", err.Error())
		return
	}

	coupon, discount, err := h.coupons.Validate(c.Request.Context(), middleware.UserID(c), req.Code, req.OrderAmount)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, gin.H{"coupon": gin.H{
		"id":                   coupon.ID,
		"code":                 coupon.Code,
		"description":          coupon.Description,
		"discount_type":        coupon.DiscountType,
		"discount_value":       coupon.DiscountValue,
		"discount_amount":      discount,
		"minimum_order_amount": coupon.MinimumOrderAmount,
	}})
}
