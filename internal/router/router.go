package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/univault/univault-api/internal/config"
	"github.com/univault/univault-api/internal/handlers"
	"github.com/univault/univault-api/internal/middleware"
	"github.com/univault/univault-api/internal/models"
	"github.com/univault/univault-api/internal/services"
	"gorm.io/gorm"
)

// Setup assembles the HTTP surface. search and limiter may be nil; the
// routes that need them degrade (search answers 503, auth goes unlimited).
func Setup(db *gorm.DB, cfg *config.Config, catalog *services.CatalogService, search *services.SearchService, activity *services.ActivityService, limiter *middleware.RateLimiter) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	// Health check endpoint
	r.GET("/health", handlers.HealthCheck(db))

	// Uploaded blobs are public, served through the blob store
	r.GET("/uploads/:filename", handlers.ServeUpload(catalog))

	// API v1 routes
	api := r.Group("/api/v1")
	{
		// Public routes
		auth := api.Group("/auth")
		if limiter != nil {
			auth.Use(limiter.Limit(20, time.Hour))
		}
		{
			auth.POST("/register", handlers.Register(db, cfg))
			auth.POST("/login", handlers.Login(db, cfg))
		}

		api.GET("/branches", handlers.ListBranches(catalog))
		api.GET("/subjects", handlers.ListSubjects(catalog))
		api.GET("/subjects/:id", handlers.GetSubject(catalog))
		api.GET("/search", handlers.Search(search))

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(cfg))
		{
			protected.GET("/auth/me", handlers.GetCurrentUser(db))
			protected.GET("/activities/recent", handlers.GetRecentActivities(activity))
		}

		// Moderation routes (catalog mutation)
		mod := api.Group("")
		mod.Use(middleware.AuthRequired(cfg), middleware.RequireRole(models.RoleAdmin, models.RoleMod))
		{
			mod.POST("/subjects", handlers.CreateSubject(catalog))
			mod.PUT("/subjects/:id", handlers.UpdateSubject(catalog))
			mod.DELETE("/subjects/:id", handlers.DeleteSubject(catalog))

			mod.POST("/upload", handlers.UploadResource(catalog, cfg))
			mod.PUT("/resources/:id", handlers.RenameResource(catalog))
			mod.DELETE("/resources/:id", handlers.DeleteResource(catalog))
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(cfg), middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/users", handlers.ListUsers(db))
			admin.POST("/promote", handlers.PromoteUser(db))
		}
	}

	return r
}
