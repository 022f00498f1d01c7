package service

import (
	"context"
	"errors"

	"github.com/d60-Lab/gin-storefront/internal/cache"
	"github.com/d60-Lab/gin-storefront/internal/model"
	"github.com/d60-Lab/gin-storefront/internal/repository"
)

// CategoryView 分类 + 在售商品数
type CategoryView struct {
	model.Category
	ProductsCount int64 `json:"products_count"`
}

// CatalogService 目录浏览（只读），商品详情走 redis 旁路缓存
type CatalogService interface {
	Categories(ctx context.Context) ([]CategoryView, error)
	Products(ctx context.Context, f repository.ProductFilter) ([]model.Product, error)
	Product(ctx context.Context, id uint) (*model.Product, error)
}

type catalogService struct {
	products repository.ProductRepository
	cache    *cache.CatalogCache
}

// NewCatalogService cache 可为 nil（测试或未接 redis 时直查库）
func NewCatalogService(products repository.ProductRepository, c *cache.CatalogCache) CatalogService {
	return &catalogService{products: products, cache: c}
}

func (s *catalogService) Categories(ctx context.Context) ([]CategoryView, error) {
	cats, counts, err := s.products.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]CategoryView, len(cats))
	for i, c := range cats {
		views[i] = CategoryView{Category: c, ProductsCount: counts[c.ID]}
	}
	return views, nil
}

func (s *catalogService) Products(ctx context.Context, f repository.ProductFilter) ([]model.Product, error) {
	return s.products.List(ctx, f)
}

func (s *catalogService) Product(ctx context.Context, id uint) (*model.Product, error) {
	if s.cache != nil {
		if p, ok := s.cache.GetProduct(ctx, id); ok {
			return p, nil
		}
	}

	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetProduct(ctx, p)
	}
	return p, nil
}
