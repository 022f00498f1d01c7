package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/gin-storefront/config"
	"github.com/d60-Lab/gin-storefront/internal/api/handler"
	"github.com/d60-Lab/gin-storefront/internal/cache"
	"github.com/d60-Lab/gin-storefront/internal/gateway"
	"github.com/d60-Lab/gin-storefront/internal/model"
	"github.com/d60-Lab/gin-storefront/internal/repository"
	"github.com/d60-Lab/gin-storefront/internal/service"
	"github.com/d60-Lab/gin-storefront/pkg/database"
)

var apiDBSeq atomic.Int64

type stubGateway struct{}

func (stubGateway) CreatePaymentIntent(context.Context, gateway.IntentRequest) (*gateway.Intent, error) {
	return &gateway.Intent{ID: "pi_test", Status: gateway.IntentStatusSucceeded}, nil
}

type apiEnv struct {
	router *gin.Engine
	db     *gorm.DB
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:api%d?mode=memory&cache=shared", apiDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	pricing, err := service.NewPricingEngine(config.PricingConfig{
		Currency:          "INR",
		TaxRate:           "0.18",
		ShippingFlat:      "50.00",
		FreeShippingAbove: "500.00",
	})
	require.NoError(t, err)

	authSvc := service.NewAuthService(
		repository.NewUserRepository(db),
		cache.NewTokenBlacklist(rdb),
		config.JWTConfig{Secret: "test-secret", AccessTTL: time.Hour, RefreshTTL: 24 * time.Hour},
	)
	cartSvc := service.NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db), pricing)
	couponSvc := service.NewCouponService(repository.NewCouponRepository(db))
	h := handler.New(
		authSvc,
		service.NewCatalogService(repository.NewProductRepository(db), nil),
		cartSvc,
		couponSvc,
		service.NewCheckoutService(db, cartSvc, couponSvc, pricing, "INR", nil),
		service.NewOrderService(repository.NewOrderRepository(db)),
		service.NewPaymentService(db, stubGateway{}),
		service.NewWishlistService(repository.NewWishlistRepository(db), repository.NewProductRepository(db)),
	)
	return &apiEnv{router: NewRouter(h, authSvc, "gin-storefront-test"), db: db}
}

func (e *apiEnv) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var envelope map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	}
	return w, envelope
}

func (e *apiEnv) registerUser(t *testing.T) string {
	t.Helper()
	w, envelope := e.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "asha",
		"email":    "asha@example.com",
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := envelope["data"].(map[string]interface{})
	tokens := data["tokens"].(map[string]interface{})
	return tokens["access"].(string)
}

func (e *apiEnv) seedProduct(t *testing.T, name, price string, stock int) *model.Product {
	t.Helper()
	cat := &model.Category{Name: name + " category", IsActive: true}
	require.NoError(t, e.db.Create(cat).Error)
	d, err := decimal.NewFromString(price)
	require.NoError(t, err)
	p := &model.Product{Name: name, CategoryID: cat.ID, Price: d, StockQuantity: stock, IsActive: true}
	require.NoError(t, e.db.Create(p).Error)
	return p
}

func TestCartEndpoints(t *testing.T) {
	env := newAPIEnv(t)
	token := env.registerUser(t)
	p := env.seedProduct(t, "Headphones", "600.00", 10)

	// 未认证一律 401
	w, _ := env.do(t, http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, envelope := env.do(t, http.MethodPost, "/api/cart/add", token, gin.H{
		"product_id": p.ID, "quantity": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	item := envelope["data"].(map[string]interface{})["cart_item"].(map[string]interface{})
	itemID := uint(item["id"].(float64))

	w, envelope = env.do(t, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := envelope["data"].(map[string]interface{})["summary"].(map[string]interface{})
	assert.EqualValues(t, 1, summary["items_count"])
	assert.Equal(t, "1200", summary["subtotal"])

	w, _ = env.do(t, http.MethodPut, fmt.Sprintf("/api/cart/item/%d", itemID), token, gin.H{"quantity": 3})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 超库存 → 字段级 400
	w, envelope = env.do(t, http.MethodPut, fmt.Sprintf("/api/cart/item/%d", itemID), token, gin.H{"quantity": 99})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, envelope["success"])

	w, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/api/cart/item/%d", itemID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/api/cart/item/%d", itemID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWishlistEndpoints(t *testing.T) {
	env := newAPIEnv(t)
	token := env.registerUser(t)
	p := env.seedProduct(t, "Mug", "150.00", 5)

	w, envelope := env.do(t, http.MethodPost, "/api/wishlist/add", token, gin.H{"product_id": p.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	item := envelope["data"].(map[string]interface{})["wishlist_item"].(map[string]interface{})
	itemID := uint(item["id"].(float64))

	// 重复加入 → 400
	w, _ = env.do(t, http.MethodPost, "/api/wishlist/add", token, gin.H{"product_id": p.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, envelope = env.do(t, http.MethodGet, "/api/wishlist", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := envelope["data"].(map[string]interface{})["wishlist_items"].([]interface{})
	assert.Len(t, items, 1)

	w, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/api/wishlist/%d", itemID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/api/wishlist/%d", itemID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogEndpointsPublic(t *testing.T) {
	env := newAPIEnv(t)
	p := env.seedProduct(t, "Desk Lamp", "200.00", 5)

	w, envelope := env.do(t, http.MethodGet, "/api/products?search=Lamp", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	products := envelope["data"].(map[string]interface{})["products"].([]interface{})
	assert.Len(t, products, 1)

	w, _ = env.do(t, http.MethodGet, fmt.Sprintf("/api/products/%d", p.ID), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = env.do(t, http.MethodGet, "/api/products/999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutEndpointValidation(t *testing.T) {
	env := newAPIEnv(t)
	token := env.registerUser(t)
	p := env.seedProduct(t, "Headphones", "600.00", 10)

	_, _ = env.do(t, http.MethodPost, "/api/cart/add", token, gin.H{"product_id": p.ID, "quantity": 1})

	body := gin.H{
		"shipping_name":          "Asha Rao",
		"shipping_email":         "asha@example.com",
		"shipping_phone":         "not a phone!",
		"shipping_address_line1": "12 MG Road",
		"shipping_city":          "Bengaluru",
		"shipping_state":         "Karnataka",
		"shipping_postal_code":   "560001",
		"payment_method":         "stripe",
	}

	// 电话格式不合规 → 绑定层 400
	w, _ := env.do(t, http.MethodPost, "/api/checkout", token, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body["shipping_phone"] = "+91 98765 43210"
	w, envelope := env.do(t, http.MethodPost, "/api/checkout", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := envelope["data"].(map[string]interface{})["order"].(map[string]interface{})
	assert.Equal(t, "708", order["total_amount"])
}
