package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/gin-storefront/internal/model"
)

// ErrNotFound 实体不存在（gorm.ErrRecordNotFound 的仓储层映射）
var ErrNotFound = errors.New("record not found")

// ProductFilter 商品列表查询条件
type ProductFilter struct {
	CategoryID uint
	Featured   bool
	Search     string
}

// ProductRepository 商品仓储接口
type ProductRepository interface {
	// ListCategories 启用中的分类及其在售商品数
	ListCategories(ctx context.Context) ([]model.Category, map[uint]int64, error)

	// List 在售商品列表（支持分类/精选/模糊搜索）
	List(ctx context.Context, f ProductFilter) ([]model.Product, error)

	// GetByID 在售商品详情（含变体）
	GetByID(ctx context.Context, id uint) (*model.Product, error)

	// GetVariant 指定商品下启用中的变体
	GetVariant(ctx context.Context, productID, variantID uint) (*model.ProductVariant, error)
}

type gormProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &gormProductRepository{db: db}
}

func (r *gormProductRepository) ListCategories(ctx context.Context) ([]model.Category, map[uint]int64, error) {
	var cats []model.Category
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name").
		Find(&cats).Error; err != nil {
		return nil, nil, err
	}

	type row struct {
		CategoryID uint
		Cnt        int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Select("category_id, count(*) as cnt").
		Where("is_active = ?", true).
		Group("category_id").
		Scan(&rows).Error; err != nil {
		return nil, nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, rw := range rows {
		counts[rw.CategoryID] = rw.Cnt
	}
	return cats, counts, nil
}

func (r *gormProductRepository) List(ctx context.Context, f ProductFilter) ([]model.Product, error) {
	q := r.db.WithContext(ctx).
		Preload("Variants", "is_active = ?", true).
		Where("is_active = ?", true)
	if f.CategoryID > 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.Featured {
		q = q.Where("is_featured = ?", true)
	}
	if f.Search != "" {
		q = q.Where("name LIKE ?", "%"+f.Search+"%")
	}

	var products []model.Product
	if err := q.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *gormProductRepository) GetByID(ctx context.Context, id uint) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Variants", "is_active = ?", true).
		Where("id = ? AND is_active = ?", id, true).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *gormProductRepository) GetVariant(ctx context.Context, productID, variantID uint) (*model.ProductVariant, error) {
	var v model.ProductVariant
	err := r.db.WithContext(ctx).
		Where("id = ? AND product_id = ? AND is_active = ?", variantID, productID, true).
		First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}
