package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iqube-labs/iqube-api/internal/app"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/api/handler"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/logger"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/metrics"
	timeProvider "github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/time"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/config"
)

const minJWTSecretLength = 32

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate essential configuration
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	production := cfg.Environment == config.Production
	if production {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(production, cfg.Logger.Level)
	defer func() { _ = appLogger.Flush() }()

	metrics.InitMetrics()
	if err := handler.RegisterValidators(); err != nil {
		log.Fatalf("Failed to register validators: %v", err)
	}

	// Cancelled on SIGINT/SIGTERM, which starts graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, appLogger, timeProvider.NewRealTimeProvider())
	if err != nil {
		appLogger.Error("Failed to start application", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer func() {
		if err := application.Close(); err != nil {
			appLogger.Error("Failed to release resources", map[string]any{
				"error": err.Error(),
			})
		}
	}()

	if err := application.Serve(ctx); err != nil {
		appLogger.Error("Server stopped with error", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	// Validate server configuration
	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}

	if cfg.Server.ReadTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.readTimeout")
	}

	if cfg.Server.WriteTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.writeTimeout")
	}

	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	// Validate database configuration
	switch cfg.Database.Driver {
	case "sqlite":
		if cfg.Database.Database == "" {
			missingConfigs = append(missingConfigs, "database.database (sqlite file path)")
		}
	case "postgres", "mysql":
		required := map[string]string{
			"database.host (or IQ_DB_HOST)":         cfg.Database.Host,
			"database.port (or IQ_DB_PORT)":         cfg.Database.Port,
			"database.username (or IQ_DB_USERNAME)": cfg.Database.Username,
			"database.database (or IQ_DB_NAME)":     cfg.Database.Database,
		}
		for name, value := range required {
			if value == "" {
				missingConfigs = append(missingConfigs, name)
			}
		}
	default:
		return fmt.Errorf("invalid database.driver value: %q, must be one of: postgres, mysql, or sqlite", cfg.Database.Driver)
	}

	if cfg.Database.QueryTimeout == 0 {
		missingConfigs = append(missingConfigs, "database.queryTimeout")
	}

	// Validate auth configuration
	if cfg.Auth.JWTSecret == "" {
		missingConfigs = append(missingConfigs, "auth.jwtSecret (or IQ_JWT_SECRET)")
	}

	if cfg.Auth.TokenTTL == 0 {
		missingConfigs = append(missingConfigs, "auth.tokenTTL")
	}

	// The generator webhook is needed for server-side generation
	if cfg.Webhook.URL == "" {
		missingConfigs = append(missingConfigs, "webhook.url (or IQ_WEBHOOK_URL)")
	}

	// Environment should be set with a valid value
	if cfg.Environment == "" {
		missingConfigs = append(missingConfigs, "environment")
	} else if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	// Logger configuration
	if cfg.Logger.Level == "" {
		missingConfigs = append(missingConfigs, "logger.level")
	}

	// Return error with list of missing configurations
	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	// If we're in production, do additional validation for sensitive settings
	if cfg.Environment == config.Production {
		var warnings []string

		if len(cfg.Auth.JWTSecret) < minJWTSecretLength {
			return fmt.Errorf("auth.jwtSecret must be at least %d characters in production", minJWTSecretLength)
		}

		sslMode := strings.ToLower(cfg.Database.SSLMode)
		if cfg.Database.Driver == "postgres" && sslMode != "require" && sslMode != "verify-ca" && sslMode != "verify-full" {
			warnings = append(warnings, "database.sslMode should be set to 'require', 'verify-ca', or 'verify-full' in production")
		}

		if cfg.Server.ReadTimeout < 5*time.Second {
			warnings = append(warnings, "server.readTimeout is too low for production")
		}

		if cfg.Server.WriteTimeout < 5*time.Second {
			warnings = append(warnings, "server.writeTimeout is too low for production")
		}

		if !cfg.RateLimit.Enabled {
			warnings = append(warnings, "rateLimit.enabled is off in production")
		}

		if len(warnings) > 0 {
			log.Printf("Warning: potential security issues in production configuration: %v", warnings)
		}
	}

	return nil
}
