package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/gin-storefront/internal/model"
	"github.com/d60-Lab/gin-storefront/internal/repository"
)

// WishlistService 心愿单 CRUD
type WishlistService interface {
	List(ctx context.Context, userID uint) ([]model.Wishlist, error)
	Add(ctx context.Context, userID, productID uint) (*model.Wishlist, error)
	Remove(ctx context.Context, userID, itemID uint) error
}

type wishlistService struct {
	wishlists repository.WishlistRepository
	products  repository.ProductRepository
}

func NewWishlistService(wishlists repository.WishlistRepository, products repository.ProductRepository) WishlistService {
	return &wishlistService{wishlists: wishlists, products: products}
}

func (s *wishlistService) List(ctx context.Context, userID uint) ([]model.Wishlist, error) {
	return s.wishlists.ListByUser(ctx, userID)
}

func (s *wishlistService) Add(ctx context.Context, userID, productID uint) (*model.Wishlist, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &ValidationError{Field: "product_id", Message: "product not found or inactive"}
		}
		return nil, err
	}

	item := &model.Wishlist{UserID: userID, ProductID: productID}
	if err := s.wishlists.Create(ctx, item); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ValidationError{Field: "product_id", Message: "product already in wishlist"}
		}
		return nil, err
	}

	if p, err := s.products.GetByID(ctx, productID); err == nil {
		item.Product = *p
	}
	return item, nil
}

func (s *wishlistService) Remove(ctx context.Context, userID, itemID uint) error {
	if err := s.wishlists.Delete(ctx, itemID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWishlistItemNotFound
		}
		return err
	}
	return nil
}
