package main

import (
	"github.com/avdbp/bridgea-backend/internal/router"
	"github.com/avdbp/bridgea-backend/pkg/config"
	"github.com/avdbp/bridgea-backend/pkg/logger"
	"github.com/avdbp/bridgea-backend/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB() // Ensure database connection is closed when main exits

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Validator
	e.Validator = validators.NewValidator()

	// Setup routes and dependencies
	router.SetupRoutes(e, db, cfg)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
