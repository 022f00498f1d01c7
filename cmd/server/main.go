package main

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/gin-storefront/config"
	_ "github.com/d60-Lab/gin-storefront/docs"
	"github.com/d60-Lab/gin-storefront/internal/api"
	"github.com/d60-Lab/gin-storefront/internal/api/handler"
	"github.com/d60-Lab/gin-storefront/internal/cache"
	"github.com/d60-Lab/gin-storefront/internal/gateway"
	"github.com/d60-Lab/gin-storefront/internal/repository"
	"github.com/d60-Lab/gin-storefront/internal/service"
	"github.com/d60-Lab/gin-storefront/pkg/database"
	"github.com/d60-Lab/gin-storefront/pkg/logger"
	"github.com/d60-Lab/gin-storefront/pkg/tracing"
)

const serviceName = "gin-storefront"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Server.Mode); err != nil {
		panic(err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.Server.Mode)

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.Init(context.Background(), serviceName, cfg.Tracing.Endpoint)
		if err != nil {
			logger.Warn("tracing init failed", zap.Error(err))
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = shutdown(ctx)
			}()
		}
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Error("open database failed", zap.Error(err))
		return
	}
	if err := database.Migrate(db); err != nil {
		logger.Error("migrate failed", zap.Error(err))
		return
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	wishlistRepo := repository.NewWishlistRepository(db)

	// services
	pricing, err := service.NewPricingEngine(cfg.Pricing)
	if err != nil {
		logger.Error("invalid pricing config", zap.Error(err))
		return
	}
	catalogCache := cache.NewCatalogCache(rdb, 5*time.Minute)
	blacklist := cache.NewTokenBlacklist(rdb)

	authSvc := service.NewAuthService(userRepo, blacklist, cfg.JWT)
	catalogSvc := service.NewCatalogService(productRepo, catalogCache)
	cartSvc := service.NewCartService(cartRepo, productRepo, pricing)
	couponSvc := service.NewCouponService(couponRepo)
	checkoutSvc := service.NewCheckoutService(db, cartSvc, couponSvc, pricing, cfg.Pricing.Currency, catalogCache)
	orderSvc := service.NewOrderService(orderRepo)
	paymentSvc := service.NewPaymentService(db, gateway.NewStripeClient(cfg.Gateway))
	wishlistSvc := service.NewWishlistService(wishlistRepo, productRepo)

	h := handler.New(authSvc, catalogSvc, cartSvc, couponSvc, checkoutSvc, orderSvc, paymentSvc, wishlistSvc)
	r := api.NewRouter(h, authSvc, serviceName)

	logger.Info("server starting", zap.String("addr", cfg.Server.Addr))
	if err := r.Run(cfg.Server.Addr); err != nil {
		logger.Error("server exited", zap.Error(err))
	}
}
