package router

import (
	"context"
	"time"

	"github.com/avdbp/bridgea-backend/internal/handlers"
	"github.com/avdbp/bridgea-backend/internal/middleware"
	"github.com/avdbp/bridgea-backend/internal/repositories"
	"github.com/avdbp/bridgea-backend/pkg/config"
	"github.com/avdbp/bridgea-backend/pkg/logger"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	logger.Log.Info("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *config.DB, cfg *config.Config) {
	// --- Initialize repositories ---
	userRepo := repositories.NewMongoUserRepository(db.Database)
	followRepo := repositories.NewMongoFollowRepository(db.Database)
	bridgeRepo := repositories.NewMongoBridgeRepository(db.Database)
	likeRepo := repositories.NewMongoLikeRepository(db.Database)
	commentRepo := repositories.NewMongoCommentRepository(db.Database)
	messageRepo := repositories.NewMongoMessageRepository(db.Database)
	notificationRepo := repositories.NewMongoNotificationRepository(db.Database)
	groupRepo := repositories.NewMongoGroupRepository(db.Database)

	// Unique and query indexes back the graph invariants; create them up front.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for name, ensure := range map[string]func(context.Context) error{
		"users":         userRepo.EnsureIndexes,
		"follows":       followRepo.EnsureIndexes,
		"likes":         likeRepo.EnsureIndexes,
		"messages":      messageRepo.EnsureIndexes,
		"notifications": notificationRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			logger.Log.Fatalf("Failed to create %s indexes: %v", name, err)
		}
	}
	logger.Log.Info("MongoDB indexes ensured for all collections.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, cfg)
	authHandler.RegisterAuthRoutes(authGroup)
	logger.Log.Info("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))

	userHandler := handlers.NewUserHandler(userRepo, followRepo)
	userHandler.RegisterUserRoutes(api)

	followHandler := handlers.NewFollowHandler(followRepo, userRepo, notificationRepo)
	followHandler.RegisterFollowRoutes(api)

	bridgeHandler := handlers.NewBridgeHandler(bridgeRepo, userRepo, followRepo, likeRepo, commentRepo, notificationRepo)
	bridgeHandler.RegisterBridgeRoutes(api)

	likeHandler := handlers.NewLikeHandler(likeRepo, bridgeRepo, userRepo, notificationRepo)
	likeHandler.RegisterLikeRoutes(api)

	commentHandler := handlers.NewCommentHandler(commentRepo, bridgeRepo, userRepo, notificationRepo)
	commentHandler.RegisterCommentRoutes(api)

	messageHandler := handlers.NewMessageHandler(messageRepo, userRepo, notificationRepo)
	messageHandler.RegisterMessageRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)

	groupHandler := handlers.NewGroupHandler(groupRepo, userRepo, notificationRepo)
	groupHandler.RegisterGroupRoutes(api)

	logger.Log.Info("All routes configured.")
}
