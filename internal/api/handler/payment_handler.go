package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-storefront/internal/api/middleware"
	"github.com/d60-Lab/gin-storefront/pkg/response"
)

type processPaymentRequest struct {
	PaymentID       uint   `json:"payment_id" binding:"required"`
	PaymentMethodID string `json:"payment_method_id" binding:"required"`
}

// ProcessPayment 确认支付意图
// @Summary 处理支付
// @Tags 支付
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body processPaymentRequest true "支付单与支付方式凭据"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/payment/process [post]
func (h *Handler) ProcessPayment(c *gin.Context) {
	var req processPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestWithErrors(c, "payment_id and payment_method_id required", err.Error())
		return
	}

	result, err := h.payments.Process(c.Request.Context(), middleware.UserID(c), req.PaymentID, req.PaymentMethodID)
	if err != nil {
		fail(c, err)
		return
	}

	if result.FailureReason != "" {
		// 网关拒绝是业务结果：支付单已置 failed，订单可重试
		response.BadRequestWithErrors(c, "payment failed", gin.H{
			"payment":        result.Payment,
			"failure_reason": result.FailureReason,
		})
		return
	}
	if result.RequiresAction {
		response.SuccessWithMessage(c, "additional authentication required", result)
		return
	}
	response.SuccessWithMessage(c, "payment successful", result)
}
