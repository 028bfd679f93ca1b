package routes

import (
	"time"

	"mediadesk-backend/handlers"
	"mediadesk-backend/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	// Initialize handlers
	authHandler := &handlers.AuthHandler{DB: db}
	categoryHandler := &handlers.CategoryHandler{DB: db}
	assetHandler := &handlers.MediaAssetHandler{DB: db}

	// Credential endpoints get a tighter budget than the rest of the API.
	authLimiter := middleware.NewRateLimiter(10, 1*time.Minute)

	// Public routes
	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		auth.Use(authLimiter.Middleware())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshTokenHandler)
		}
	}

	// Protected routes (require authentication)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/profile", authHandler.GetProfile)

		protected.GET("/categories", categoryHandler.GetCategories)
		protected.GET("/categories/:id", categoryHandler.GetCategory)

		protected.GET("/media-assets", assetHandler.GetMediaAssets)
		protected.GET("/media-assets/:id", assetHandler.GetMediaAsset)
	}

	// Admin routes (require admin role)
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	{
		// Category management
		admin.POST("/categories", categoryHandler.CreateCategory)
		admin.PUT("/categories/:id", categoryHandler.UpdateCategory)
		admin.DELETE("/categories/:id", categoryHandler.DeleteCategory)

		// Media asset management
		admin.POST("/media-assets", assetHandler.CreateMediaAsset)
		admin.PUT("/media-assets/:id", assetHandler.UpdateMediaAsset)
		admin.DELETE("/media-assets/:id", assetHandler.DeleteMediaAsset)

		// Batch import
		admin.POST("/media-assets/import", assetHandler.ImportMediaAssets)
		admin.GET("/media-assets/import/:id", assetHandler.GetImportJobStatus)

		// User management
		admin.GET("/users", authHandler.ListUsers)
		admin.POST("/users", authHandler.CreateUser)
		admin.PUT("/users/:id", authHandler.UpdateUser)
		admin.DELETE("/users/:id", authHandler.DeleteUser)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
