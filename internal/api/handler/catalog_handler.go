package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/gin-storefront/internal/repository"
	"github.com/d60-Lab/gin-storefront/pkg/response"
)

// ListCategories 分类列表
// @Summary 分类列表（含在售商品数）
// @Tags 目录
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/categories [get]
func (h *Handler) ListCategories(c *gin.Context) {
	cats, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"categories": cats})
}

// ListProducts 商品列表
// @Summary 商品列表
// @Tags 目录
// @Param category query int false "分类ID"
// @Param featured query bool false "只看精选"
// @Param search query string false "名称模糊搜索"
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/products [get]
func (h *Handler) ListProducts(c *gin.Context) {
	var f repository.ProductFilter
	if v, err := strconv.ParseUint(c.Query("category"), 10, 32); err == nil {
		f.CategoryID = uint(v)
	}
	f.Featured = c.Query("featured") != ""
	f.Search = c.Query("search")

	products, err := h.catalog.Products(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"products": products})
}

// GetProduct 商品详情
// @Summary 商品详情（含变体）
// @Tags 目录
// @Param id path int true "商品ID"
// @Produce json
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/products/{id} [get]
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return
	}
	product, err := h.catalog.Product(c.Request.Context(), uint(id))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"product": product})
}
