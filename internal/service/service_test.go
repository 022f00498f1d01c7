package service

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/gin-storefront/config"
	"github.com/d60-Lab/gin-storefront/internal/model"
	"github.com/d60-Lab/gin-storefront/pkg/database"
)

var testDBSeq atomic.Int64

// testDB 每个测试独立的内存库，cache=shared 保证连接池内可见同一份数据
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func testPricing(t *testing.T) *PricingEngine {
	t.Helper()
	engine, err := NewPricingEngine(config.PricingConfig{
		Currency:          "INR",
		TaxRate:           "0.18",
		ShippingFlat:      "50.00",
		FreeShippingAbove: "500.00",
	})
	require.NoError(t, err)
	return engine
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

// freezeClock 固定服务层时钟，测试结束后还原
func freezeClock(t *testing.T, at time.Time) {
	t.Helper()
	old := timeNow
	timeNow = func() time.Time { return at }
	t.Cleanup(func() { timeNow = old })
}

func seedCategory(t *testing.T, db *gorm.DB) *model.Category {
	t.Helper()
	cat := &model.Category{Name: fmt.Sprintf("Apparel-%d", testDBSeq.Add(1)), IsActive: true}
	require.NoError(t, db.Create(cat).Error)
	return cat
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string, stock int) *model.Product {
	t.Helper()
	cat := seedCategory(t, db)
	p := &model.Product{
		Name:          name,
		CategoryID:    cat.ID,
		Price:         dec(t, price),
		StockQuantity: stock,
		IsActive:      true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedCoupon(t *testing.T, db *gorm.DB, cp *model.Coupon) *model.Coupon {
	t.Helper()
	now := timeNow()
	if cp.ValidFrom.IsZero() {
		cp.ValidFrom = now.Add(-time.Hour)
	}
	if cp.ValidUntil.IsZero() {
		cp.ValidUntil = now.Add(time.Hour)
	}
	cp.IsActive = true
	require.NoError(t, db.Create(cp).Error)
	return cp
}

func seedCartLine(t *testing.T, db *gorm.DB, userID uint, p *model.Product, variantID *uint, qty int) *model.CartItem {
	t.Helper()
	item := &model.CartItem{UserID: userID, ProductID: p.ID, VariantID: variantID, Quantity: qty}
	require.NoError(t, db.Create(item).Error)
	return item
}
