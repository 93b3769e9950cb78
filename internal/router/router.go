package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/bundlecart-backend/config"
	"github.com/ikkim/bundlecart-backend/internal/app/controller"
	"github.com/ikkim/bundlecart-backend/internal/middleware"
	"github.com/ikkim/bundlecart-backend/pkg/util"
)

type Router struct {
	bundleController  *controller.BundleController
	cartController    *controller.CartController
	catalogController *controller.CatalogController
	uploadController  *controller.UploadController
	authMiddleware    *middleware.AuthMiddleware
	config            *config.Config
}

func NewRouter(
	bundleController *controller.BundleController,
	cartController *controller.CartController,
	catalogController *controller.CatalogController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		bundleController:  bundleController,
		cartController:    cartController,
		catalogController: catalogController,
		uploadController:  uploadController,
		authMiddleware:    authMiddleware,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Bundle cart API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		store := v1.Group("/store")
		{
			bundles := store.Group("/bundles")
			{
				bundles.GET("", r.bundleController.ListBundles)
				bundles.GET("/:id", r.bundleController.GetStoreBundle)
				bundles.POST("/:id/validate", r.bundleController.ValidateSelections)
				bundles.POST("/:id/add-to-cart", r.bundleController.AddToCart)
			}

			carts := store.Group("/carts")
			{
				carts.POST("", r.cartController.CreateCart)
				carts.GET("/:id", r.cartController.GetCart)
			}
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole(util.RoleAdmin))
		{
			bundles := admin.Group("/bundles")
			{
				bundles.GET("", r.bundleController.ListBundles)
				bundles.POST("", r.bundleController.CreateBundle)
				bundles.GET("/:id", r.bundleController.GetBundle)
				bundles.PATCH("/:id", r.bundleController.UpdateBundle)
				bundles.DELETE("/:id", r.bundleController.DeleteBundle)
				if r.uploadController != nil {
					bundles.POST("/:id/image-upload-url", r.uploadController.GenerateBundleImageURL)
				}
			}

			admin.GET("/variants", r.catalogController.DescribeVariants)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
