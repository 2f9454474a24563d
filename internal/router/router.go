package router

import (
	"fmt"
	"strings"

	"github.com/malcolmm20/farmlink/internal/cache"
	"github.com/malcolmm20/farmlink/internal/config"
	adminhandlers "github.com/malcolmm20/farmlink/internal/http/handlers/admin"
	publichandlers "github.com/malcolmm20/farmlink/internal/http/handlers/public"
	"github.com/malcolmm20/farmlink/internal/logger"
	"github.com/malcolmm20/farmlink/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter builds the gin engine with the full route table.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "fl"
	}
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", publicHandler.Register)
			auth.POST("/login",
				RateLimitMiddleware(cache.Client(), loginRule, KeyByIPAndJSONField("username")),
				publicHandler.Login,
			)
		}

		// browse without a session
		api.GET("/products", publicHandler.ListProducts)
		api.GET("/products/:id", publicHandler.GetProduct)
		api.GET("/products/:id/reviews", publicHandler.GetProductReviews)
		api.GET("/farms", publicHandler.ListFarms)
		api.GET("/farms/:farmId", publicHandler.GetFarm)
		api.GET("/farms/:farmId/products", publicHandler.ListFarmProducts)
		api.GET("/farms/:farmId/reviews", publicHandler.GetFarmReviews)
		api.GET("/reviews", publicHandler.ListReviews)
		api.GET("/reviews/:id", publicHandler.GetReview)

		authed := api.Group("")
		authed.Use(JWTAuthMiddleware(c.AuthService))
		authed.Use(RBACMiddleware(c.AuthzService))
		{
			authed.GET("/me", publicHandler.Me)
			authed.PUT("/me", publicHandler.UpdateMe)

			authed.GET("/cart", publicHandler.GetCart)
			authed.POST("/cart", publicHandler.UpsertCartItem)
			authed.DELETE("/cart", publicHandler.ClearCart)
			authed.DELETE("/cart/:productId", publicHandler.RemoveCartItem)

			authed.POST("/checkout", publicHandler.Checkout)

			authed.GET("/orders", publicHandler.ListOrders)
			authed.GET("/orders/:id", publicHandler.GetOrder)
			authed.PUT("/orders/:id", publicHandler.UpdateOrder)
			authed.DELETE("/orders/:id", adminHandler.DeleteOrder)

			authed.POST("/reviews", publicHandler.CreateReview)
			authed.PUT("/reviews/:id", publicHandler.UpdateReview)
			authed.DELETE("/reviews/:id", publicHandler.DeleteReview)
			authed.POST("/farms/:farmId/reviews", publicHandler.CreateFarmReview)

			authed.POST("/products", publicHandler.CreateProduct)
			authed.PUT("/products/:id", publicHandler.UpdateProduct)
			authed.DELETE("/products/:id", publicHandler.DeleteProduct)

			// user administration
			authed.GET("/users", adminHandler.ListUsers)
			authed.POST("/users", adminHandler.CreateUser)
			authed.GET("/users/:id", adminHandler.GetUser)
			authed.PUT("/users/:id", adminHandler.UpdateUser)
			authed.DELETE("/users/:id", adminHandler.DeleteUser)

			// order oversight
			authed.GET("/admin/orders", adminHandler.ListAllOrders)
		}
	}

	return r
}
