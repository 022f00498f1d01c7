package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/gin-storefront/internal/cache"
	"github.com/d60-Lab/gin-storefront/internal/model"
	"github.com/d60-Lab/gin-storefront/internal/repository"
)

func TestCatalogProductReadThroughCache(t *testing.T) {
	db := testDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := NewCatalogService(
		repository.NewProductRepository(db),
		cache.NewCatalogCache(rdb, time.Minute),
	)
	ctx := context.Background()
	p := seedProduct(t, db, "Headphones", "600.00", 10)

	got, err := svc.Product(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Headphones", got.Name)

	// 下架后缓存命中仍返回旧值，失效后回源拿到 404
	require.NoError(t, db.Model(&model.Product{}).Where("id = ?", p.ID).
		Update("is_active", false).Error)

	got, err = svc.Product(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Headphones", got.Name)

	mr.FastForward(2 * time.Minute)
	_, err = svc.Product(ctx, p.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogProductNilCache(t *testing.T) {
	db := testDB(t)
	svc := NewCatalogService(repository.NewProductRepository(db), nil)
	ctx := context.Background()
	p := seedProduct(t, db, "Mug", "150.00", 5)

	got, err := svc.Product(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = svc.Product(ctx, 999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogCategoriesWithCounts(t *testing.T) {
	db := testDB(t)
	svc := NewCatalogService(repository.NewProductRepository(db), nil)
	ctx := context.Background()

	p1 := seedProduct(t, db, "Shirt", "299.00", 5)
	p2 := seedProduct(t, db, "Jeans", "999.00", 5)
	// 下架商品不计入分类商品数
	require.NoError(t, db.Model(&model.Product{}).Where("id = ?", p2.ID).
		Update("is_active", false).Error)

	views, err := svc.Categories(ctx)
	require.NoError(t, err)

	counts := map[uint]int64{}
	for _, v := range views {
		counts[v.ID] = v.ProductsCount
	}
	assert.EqualValues(t, 1, counts[p1.CategoryID])
	assert.EqualValues(t, 0, counts[p2.CategoryID])
}

func TestCatalogProductsFilter(t *testing.T) {
	db := testDB(t)
	svc := NewCatalogService(repository.NewProductRepository(db), nil)
	ctx := context.Background()

	p := seedProduct(t, db, "Wireless Headphones", "600.00", 10)
	seedProduct(t, db, "Desk Lamp", "200.00", 10)
	require.NoError(t, db.Model(&model.Product{}).Where("id = ?", p.ID).
		Update("is_featured", true).Error)

	byName, err := svc.Products(ctx, repository.ProductFilter{Search: "Headph"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, p.ID, byName[0].ID)

	featured, err := svc.Products(ctx, repository.ProductFilter{Featured: true})
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, p.ID, featured[0].ID)

	byCategory, err := svc.Products(ctx, repository.ProductFilter{CategoryID: p.CategoryID})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
}
