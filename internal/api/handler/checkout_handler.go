package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-storefront/internal/api/middleware"
	"github.com/d60-Lab/gin-storefront/internal/service"
	"github.com/d60-Lab/gin-storefront/pkg/response"
)

// Checkout 购物车结算为订单 + 待支付单
// @Summary 结算下单
// @Tags 订单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CheckoutRequest true "收货信息与支付方式"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/checkout [post]
func (h *Handler) Checkout(c *gin.Context) {
	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestWithErrors(c, "invalid checkout data", err.Error())
		return
	}

	order, payment, err := h.checkout.Checkout(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, "order created successfully", gin.H{"order": order, "payment": payment})
}

// ListOrders 我的订单
// @Summary 订单列表
// @Tags 订单
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/orders [get]
func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"orders": orders})
}

// GetOrder 订单详情
// @Summary 订单详情（含订单行）
// @Tags 订单
// @Produce json
// @Security BearerAuth
// @Param id path int true "订单ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/orders/{id} [get]
func (h *Handler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}
	order, err := h.orders.Get(c.Request.Context(), middleware.UserID(c), uint(id))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"order": order})
}
