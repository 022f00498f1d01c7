package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-storefront/internal/api/middleware"
	"github.com/d60-Lab/gin-storefront/pkg/response"
)

type addToCartRequest struct {
	ProductID uint  `json:"product_id" binding:"required"`
	VariantID *uint `json:"variant_id"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// GetCart 购物车行 + 汇总
// @Summary 查看购物车
// @Tags 购物车
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/cart [get]
func (h *Handler) GetCart(c *gin.Context) {
	view, err := h.cart.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, view)
}

// AddToCart 加购（同行合并数量）
// @Summary 加入购物车
// @Tags 购物车
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body addToCartRequest true "加购信息"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/cart/add [post]
func (h *Handler) AddToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestWithErrors(c, "failed to add item to cart", err.Error())
		return
	}
	item, err := h.cart.Add(c.Request.Context(), middleware.UserID(c), req.ProductID, req.VariantID, req.Quantity)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, "item added to cart successfully", gin.H{"cart_item": item})
}

// UpdateCartItem 改数量
// @Summary 更新购物车行数量
// @Tags 购物车
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "购物车行ID"
// @Param request body updateCartItemRequest true "数量"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/cart/item/{id} [put]
func (h *Handler) UpdateCartItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid cart item id")
		return
	}
	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestWithErrors(c, "failed to update cart item", err.Error())
		return
	}
	item, err := h.cart.UpdateQuantity(c.Request.Context(), middleware.UserID(c), uint(id), req.Quantity)
	if err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "cart item updated successfully", gin.H{"cart_item": item})
}

// RemoveFromCart 删行
// @Summary 移出购物车
// @Tags 购物车
// @Produce json
// @Security BearerAuth
// @Param id path int true "购物车行ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/cart/item/{id} [delete]
func (h *Handler) RemoveFromCart(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid cart item id")
		return
	}
	if err := h.cart.Remove(c.Request.Context(), middleware.UserID(c), uint(id)); err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "item removed from cart successfully", nil)
}

// ClearCart 清空购物车
// @Summary 清空购物车
// @Tags 购物车
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/cart [delete]
func (h *Handler) ClearCart(c *gin.Context) {
	count, err := h.cart.Clear(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithMessage(c, fmt.Sprintf("cart cleared successfully, %d items removed", count), gin.H{"removed": count})
}
