package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/gin-storefront/internal/model"
)

// CatalogCache 商品详情的旁路缓存（read-through + TTL）。
// redis 不可用时静默退化为直查数据库。
type CatalogCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCatalogCache(rdb *redis.Client, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CatalogCache{rdb: rdb, ttl: ttl}
}

func productKey(id uint) string { return fmt.Sprintf("catalog:product:%d", id) }

func (c *CatalogCache) GetProduct(ctx context.Context, id uint) (*model.Product, bool) {
	data, err := c.rdb.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var p model.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, false
	}
	return &p, true
}

func (c *CatalogCache) SetProduct(ctx context.Context, p *model.Product) {
	payload, err := json.Marshal(p)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, productKey(p.ID), payload, c.ttl).Err()
}

// InvalidateProduct 商品/库存写路径调用，下一次读取回源
func (c *CatalogCache) InvalidateProduct(ctx context.Context, id uint) {
	_ = c.rdb.Del(ctx, productKey(id)).Err()
}
