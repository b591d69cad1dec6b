package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/fadhlanhapp/nexbill-backend/config"
	"github.com/fadhlanhapp/nexbill-backend/handlers"
	"github.com/fadhlanhapp/nexbill-backend/logger"
	"github.com/fadhlanhapp/nexbill-backend/repository"
	"github.com/fadhlanhapp/nexbill-backend/routes"
	"github.com/fadhlanhapp/nexbill-backend/services"
)

func main() {
	log := logger.GetLogger()
	defer logger.Close()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("Failed to load configuration", "error", err)
	}

	// Initialize New Relic
	var app *newrelic.Application
	if cfg.NewRelicLicenseKey != "" {
		app, err = newrelic.NewApplication(
			newrelic.ConfigAppName("NexBill API"),
			newrelic.ConfigLicense(cfg.NewRelicLicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
		)
		if err != nil {
			log.Warnw("Failed to initialize New Relic", "error", err)
		}
	}

	if cfg.DBDriver == repository.DriverSQLite && cfg.DBDSN == "" {
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
			log.Fatalw("Failed to create data directory", "error", err)
		}
	}

	// Initialize database
	store, err := repository.Open(cfg.DBDriver, cfg.DatabaseDSN())
	if err != nil {
		log.Fatalw("Failed to initialize database", "driver", cfg.DBDriver, "error", err)
	}
	defer store.Close()
	log.Infow("Database connection established", "driver", cfg.DBDriver)

	if cfg.AnthropicAPIKey == "" {
		log.Warnw("ANTHROPIC_API_KEY is not set, receipt scanning will fail")
	}
	extractor := services.NewClaudeExtractor(cfg.AnthropicAPIKey, cfg.ExtractionURL, cfg.ExtractionModel, cfg.ExtractionTimeout)

	handlerServices, err := handlers.NewHandlerServices(context.Background(), store, extractor, cfg.CurrentUserName)
	if err != nil {
		log.Fatalw("Failed to initialize services", "error", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Set up Gin router
	router := gin.Default()

	// Add New Relic middleware
	if app != nil {
		router.Use(nrgin.Middleware(app))
	}

	// Configure CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: !allowsAnyOrigin(cfg.AllowedOrigins),
		MaxAge:           12 * time.Hour,
	}))

	// Set up routes
	routes.SetupRoutes(router, handlerServices)

	// Start server
	log.Infow("Server starting", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalw("Failed to start server", "error", err)
	}
}

// allowsAnyOrigin reports a wildcard origin, which CORS forbids with credentials
func allowsAnyOrigin(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
