package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/gin-storefront/internal/repository"
)

func newWishlistService(t *testing.T) (WishlistService, *gorm.DB) {
	t.Helper()
	db := testDB(t)
	svc := NewWishlistService(
		repository.NewWishlistRepository(db),
		repository.NewProductRepository(db),
	)
	return svc, db
}

func TestWishlistAddAndList(t *testing.T) {
	svc, db := newWishlistService(t)
	ctx := context.Background()
	p := seedProduct(t, db, "Headphones", "600.00", 10)

	item, err := svc.Add(ctx, 1, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Headphones", item.Product.Name)

	items, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)

	// 别的用户看不到
	items, err = svc.List(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestWishlistAddDuplicate(t *testing.T) {
	svc, db := newWishlistService(t)
	ctx := context.Background()
	p := seedProduct(t, db, "Headphones", "600.00", 10)

	_, err := svc.Add(ctx, 1, p.ID)
	require.NoError(t, err)

	_, err = svc.Add(ctx, 1, p.ID)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "product_id", vErr.Field)
}

func TestWishlistAddUnknownProduct(t *testing.T) {
	svc, _ := newWishlistService(t)

	_, err := svc.Add(context.Background(), 1, 999)
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestWishlistRemove(t *testing.T) {
	svc, db := newWishlistService(t)
	ctx := context.Background()
	p := seedProduct(t, db, "Headphones", "600.00", 10)

	item, err := svc.Add(ctx, 1, p.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Remove(ctx, 2, item.ID), ErrWishlistItemNotFound)
	assert.NoError(t, svc.Remove(ctx, 1, item.ID))
	assert.ErrorIs(t, svc.Remove(ctx, 1, item.ID), ErrWishlistItemNotFound)
}
