package api

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"

	"github.com/d60-Lab/gin-storefront/internal/api/handler"
	"github.com/d60-Lab/gin-storefront/internal/api/middleware"
	"github.com/d60-Lab/gin-storefront/internal/service"
)

// phoneRule 收货电话：数字、空格、+ 和 -，7~20 位
var phoneRule validator.Func = func(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) < 7 || len(s) > 20 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == ' ', r == '+', r == '-':
		default:
			return false
		}
	}
	return true
}

// NewRouter 组装路由与中间件
func NewRouter(h *handler.Handler, auth service.AuthService, serviceName string) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("phone", phoneRule)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", h.Health)

		// 登录注册带 IP 限流，挡暴力破解
		authGroup := apiGroup.Group("/auth")
		authGroup.Use(middleware.RateLimit(rate.Limit(5), 10))
		{
			authGroup.POST("/register", h.Register)
			authGroup.POST("/login", h.Login)
			authGroup.POST("/logout", h.Logout)
			authGroup.POST("/token/refresh", h.Refresh)
		}
		apiGroup.GET("/auth/profile", middleware.Auth(auth), h.Profile)

		// 目录浏览无需登录
		apiGroup.GET("/categories", h.ListCategories)
		apiGroup.GET("/products", h.ListProducts)
		apiGroup.GET("/products/:id", h.GetProduct)

		// 其余全部要求认证身份
		authed := apiGroup.Group("")
		authed.Use(middleware.Auth(auth))
		{
			authed.GET("/cart", h.GetCart)
			authed.POST("/cart/add", h.AddToCart)
			authed.PUT("/cart/item/:id", h.UpdateCartItem)
			authed.DELETE("/cart/item/:id", h.RemoveFromCart)
			authed.DELETE("/cart", h.ClearCart)

			authed.POST("/coupons/validate", h.ValidateCoupon)

			authed.POST("/checkout", h.Checkout)
			authed.GET("/orders", h.ListOrders)
			authed.GET("/orders/:id", h.GetOrder)

			authed.POST("/payment/process", h.ProcessPayment)

			authed.GET("/wishlist", h.GetWishlist)
			authed.POST("/wishlist/add", h.AddToWishlist)
			authed.DELETE("/wishlist/:id", h.RemoveFromWishlist)
		}
	}

	return r
}
