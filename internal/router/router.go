package router

import (
	"log"
	"strconv"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/skill-eureka/backend/internal/events"
	"github.com/skill-eureka/backend/internal/handlers"
	"github.com/skill-eureka/backend/internal/middleware"
	"github.com/skill-eureka/backend/internal/models"
	"github.com/skill-eureka/backend/internal/realtime"
	"github.com/skill-eureka/backend/internal/repositories"
	"github.com/skill-eureka/backend/internal/storage"
	"github.com/skill-eureka/backend/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"
)

// SetupMiddleware configures global Echo middleware.
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(eMiddleware.RequestID())
	e.JSONSerializer = JSONSerializer{}
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies.
// The returned fan-out worker must be started by the caller.
func SetupRoutes(e *echo.Echo, cfg *config.Config, client *mongo.Client, store *storage.LocalStore, bus *events.Bus, hub *realtime.Hub) *events.FanoutWorker {
	db := client.Database(cfg.MongoDB)

	// --- Initialize Repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	creatorRepo := repositories.NewMongoCreatorRepository(db)
	videoRepo := repositories.NewMongoVideoRepository(client, db)
	followRepo := repositories.NewMongoFollowRepository(client, db)
	notificationRepo := repositories.NewMongoNotificationRepository(db)
	applicationRepo := repositories.NewMongoApplicationRepository(client, db)
	categoryRepo := repositories.NewMongoCategoryRepository(db)

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// Static media
	e.Static("/uploads", store.Dir())

	// Rate limiters for write-heavy endpoints. Each group gets its own
	// store so follows and uploads draw from separate per-IP budgets.
	followLimiter := newRateLimiter(rate.Limit(20))
	uploadLimiter := newRateLimiter(rate.Limit(2))

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/auth")
	authHandler := handlers.NewAuthHandler(userRepo, creatorRepo, applicationRepo, cfg.JWTSecret, cfg.TokenTTL)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Public catalog routes ---
	creatorHandler := handlers.NewCreatorHandler(creatorRepo, videoRepo)
	creatorHandler.RegisterPublicRoutes(e.Group("/api/creators"))

	videoHandler := handlers.NewVideoHandler(videoRepo, creatorRepo, store, bus)
	videoHandler.RegisterPublicRoutes(e.Group("/api/videos"))

	categoryHandler := handlers.NewCategoryHandler(categoryRepo)
	categoryHandler.RegisterCategoryRoutes(e.Group("/api/categories"))
	log.Println("Public catalog routes configured.")

	// --- Protected routes (require JWT authentication) ---
	auth := middleware.JWTAuthMiddleware(cfg.JWTSecret)

	// User-role routes
	userGroup := e.Group("/api/users", auth, middleware.RequireRole(models.RoleUser))
	userHandler := handlers.NewUserHandler(userRepo, videoRepo)
	userHandler.RegisterUserRoutes(userGroup)

	followHandler := handlers.NewFollowHandler(followRepo, hub)
	followGroup := e.Group("/api/users", auth, middleware.RequireRole(models.RoleUser), followLimiter)
	followHandler.RegisterFollowRoutes(followGroup)

	// Notifications are read by both roles, so the group is authenticated
	// but not role-gated; records are scoped by recipient.
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(e.Group("/api/users", auth))
	log.Println("User routes configured.")

	// Creator-role routes
	creatorGroup := e.Group("/api/creators", auth, middleware.RequireRole(models.RoleCreator))
	creatorHandler.RegisterProfileRoutes(creatorGroup)

	uploadGroup := e.Group("/api/videos", auth, middleware.RequireRole(models.RoleCreator), uploadLimiter,
		eMiddleware.BodyLimit(byteSize(cfg.MaxUploadMB)))
	videoHandler.RegisterCreatorRoutes(uploadGroup)
	log.Println("Creator routes configured.")

	// Admin review routes
	adminGroup := e.Group("/api/admin", middleware.AdminKeyMiddleware(cfg.AdminKey))
	adminHandler := handlers.NewAdminHandler(applicationRepo)
	adminHandler.RegisterAdminRoutes(adminGroup)
	log.Println("Admin routes configured.")

	// Realtime channel, any authenticated principal
	e.GET("/ws", hub.HandleWS, auth)

	log.Println("All routes configured.")
	return events.NewFanoutWorker(bus, creatorRepo, notificationRepo, hub)
}

func newRateLimiter(r rate.Limit) echo.MiddlewareFunc {
	return eMiddleware.RateLimiter(eMiddleware.NewRateLimiterMemoryStore(r))
}

func byteSize(mb int) string {
	if mb <= 0 {
		mb = 512
	}
	return strconv.Itoa(mb) + "M"
}
