package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-storefront/internal/api/middleware"
	"github.com/d60-Lab/gin-storefront/pkg/response"
)

type addToWishlistRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// GetWishlist 心愿单
// @Summary 查看心愿单
// @Tags 心愿单
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/wishlist [get]
func (h *Handler) GetWishlist(c *gin.Context) {
	items, err := h.wishlist.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"wishlist_items": items})
}

// AddToWishlist 添加
// @Summary 加入心愿单
// @Tags 心愿单
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body addToWishlistRequest true "商品"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/wishlist/add [post]
func (h *Handler) AddToWishlist(c *gin.Context) {
	var req addToWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestWithErrors(c, "failed to add item to wishlist", err.Error())
		return
	}
	item, err := h.wishlist.Add(c.Request.Context(), middleware.UserID(c), req.ProductID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, "item added to wishlist successfully", gin.H{"wishlist_item": item})
}

// RemoveFromWishlist 移除
// @Summary 移出心愿单
// @Tags 心愿单
// @Produce json
// @Security BearerAuth
// @Param id path int true "心愿单项ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/wishlist/{id} [delete]
func (h *Handler) RemoveFromWishlist(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid wishlist item id")
		return
	}
	if err := h.wishlist.Remove(c.Request.Context(), middleware.UserID(c), uint(id)); err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithMessage(c, "item removed from wishlist successfully", nil)
}
