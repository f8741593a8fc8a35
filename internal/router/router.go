// internal/router/router.go
package router

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gameshare/backend/internal/config"
	"github.com/gameshare/backend/internal/handlers"
	"github.com/gameshare/backend/internal/middleware"
	"github.com/gameshare/backend/internal/models"
	"github.com/gameshare/backend/internal/services"
	"github.com/gameshare/backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config, storageService *services.StorageService) *gin.Engine {
	// Initialize services
	authService := services.NewAuthService(db, cfg)
	userService := services.NewUserService(db)
	gameService := services.NewGameService(db, storageService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	gameHandler := handlers.NewGameHandler(gameService, userService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.GeneralRateLimit())

	// Multipart parts beyond this spill to temp files instead of memory.
	r.MaxMultipartMemory = 32 << 20

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Authentication routes
		auth := api.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
			auth.PUT("/profile", middleware.AuthRequired(), authHandler.UpdateProfile)
			auth.PUT("/password", middleware.AuthRequired(), authHandler.ChangePassword)
		}

		// Game routes
		games := api.Group("/games")
		{
			games.GET("", middleware.OptionalAuth(), gameHandler.GetGames)
			games.GET("/popular", gameHandler.GetPopularGames)
			games.GET("/recent", gameHandler.GetRecentGames)
			games.GET("/:id", middleware.OptionalAuth(), gameHandler.GetGame)
			games.GET("/:id/download", middleware.OptionalAuth(), gameHandler.DownloadGame)

			// Authenticated routes
			protected := games.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", middleware.UploadRateLimit(), gameHandler.CreateGame)
				protected.PUT("/:id", gameHandler.UpdateGame)
				protected.DELETE("/:id", gameHandler.DeleteGame)
				protected.POST("/:id/reviews", gameHandler.AddReview)
				protected.PUT("/:id/status", middleware.AdminRequired(), gameHandler.SetGameStatus)
			}
		}

		// User routes
		users := api.Group("/users")
		{
			users.GET("/:id", userHandler.GetPublicProfile)
			users.GET("/:id/stats", userHandler.GetUserStats)
			users.GET("/:id/games", userHandler.GetUserGames)

			// Admin routes
			admin := users.Group("")
			admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
			{
				admin.GET("", userHandler.ListUsers)
				admin.PUT("/:id/verify", userHandler.SetUserVerified)
				admin.PUT("/:id/status", userHandler.SetUserStatus)
				admin.DELETE("/:id", userHandler.DeleteUser)
			}
		}

		// Category routes
		api.GET("/categories", getCategoriesHandler)
	}

	// Static asset serving when storing on local disk
	if cfg.AWS.AccessKeyID == "" {
		r.Static("/uploads/images", filepath.Join(cfg.Storage.UploadDir, "images"))
		r.Static("/uploads/games", filepath.Join(cfg.Storage.UploadDir, "games"))
	}

	return r
}

func getCategoriesHandler(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"categories": models.Categories,
	})
}
