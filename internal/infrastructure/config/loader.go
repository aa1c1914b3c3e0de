package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"./configs/.env",
	"../configs/.env",
}

// LoadConfig loads configuration for the environment named by IQ_ENV
func LoadConfig() (*Config, error) {
	if err := loadDotEnvFile(); err != nil {
		fmt.Println("Warning: Could not load .env file:", err)
	}

	return LoadConfigFor(getEnvironment(), ConfigPaths...)
}

// LoadConfigFor reads <env>.yaml from the given paths, applies defaults and IQ_ overrides
func LoadConfigFor(env string, paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.SetEnvPrefix("IQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	processEnvOverrides(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Environment = env
	processDurations(&config)

	return &config, nil
}

func loadDotEnvFile() error {
	var lastError error

	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return nil
			} else {
				lastError = err
			}
		}
	}

	if lastError != nil {
		return fmt.Errorf("could not load any .env file: %w", lastError)
	}
	return fmt.Errorf("no .env file found in search paths")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3001)
	v.SetDefault("server.readTimeout", 15)
	v.SetDefault("server.writeTimeout", 60) // generation waits on the webhook
	v.SetDefault("server.idleTimeout", 60)
	v.SetDefault("server.readHeaderTimeout", 10)
	v.SetDefault("server.shutdownTimeout", 10)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 10)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", 30)
	v.SetDefault("database.connMaxIdleTime", 15)
	v.SetDefault("database.connectTimeout", 30)
	v.SetDefault("database.queryTimeout", 30)
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", 1)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")

	v.SetDefault("auth.tokenTTL", 7*24)
	v.SetDefault("auth.bcryptCost", 12)

	v.SetDefault("credits.dailyAllowance", 10)
	v.SetDefault("credits.refreshThresholdHours", 20)
	v.SetDefault("credits.manualRefreshWindowHours", 24)
	v.SetDefault("credits.historyLimit", 50)
	v.SetDefault("credits.sweepInterval", 0)
	v.SetDefault("credits.sweepLockTTL", 10)

	v.SetDefault("webhook.source", "iqube-api")
	v.SetDefault("webhook.timeout", 0)

	v.SetDefault("rateLimit.enabled", false)
	v.SetDefault("rateLimit.redisAddr", "localhost:6379")
	v.SetDefault("rateLimit.capacity", 100)
	v.SetDefault("rateLimit.window", 15)

	v.SetDefault("cors.allowedOrigins", []string{"http://localhost:8080"})
}

// getEnvironment determines the environment from IQ_ENV, defaulting to development
func getEnvironment() string {
	env := os.Getenv("IQ_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// processEnvOverrides lets sensitive values come from the environment instead of yaml
func processEnvOverrides(v *viper.Viper) {
	stringOverrides := map[string]string{
		"IQ_DB_DRIVER":      "database.driver",
		"IQ_DB_HOST":        "database.host",
		"IQ_DB_PORT":        "database.port",
		"IQ_DB_USERNAME":    "database.username",
		"IQ_DB_PASSWORD":    "database.password",
		"IQ_DB_NAME":        "database.database",
		"IQ_DB_SSL_MODE":    "database.sslMode",
		"IQ_SERVER_HOST":    "server.host",
		"IQ_LOGGER_LEVEL":   "logger.level",
		"IQ_JWT_SECRET":     "auth.jwtSecret",
		"IQ_WEBHOOK_URL":    "webhook.url",
		"IQ_REDIS_ADDR":     "rateLimit.redisAddr",
		"IQ_REDIS_PASSWORD": "rateLimit.redisPassword",
	}
	for env, key := range stringOverrides {
		if value := os.Getenv(env); value != "" {
			v.Set(key, value)
		}
	}

	if port := getEnvInt("IQ_SERVER_PORT", 0); port > 0 {
		v.Set("server.port", port)
	}
	if maxOpenConns := getEnvInt("IQ_DB_MAX_OPEN_CONNS", 0); maxOpenConns > 0 {
		v.Set("database.maxOpenConns", maxOpenConns)
	}
	if queryTimeout := getEnvInt("IQ_DB_QUERY_TIMEOUT_SECONDS", 0); queryTimeout > 0 {
		v.Set("database.queryTimeout", queryTimeout)
	}
	if sweep := getEnvInt("IQ_CREDITS_SWEEP_INTERVAL_MINUTES", -1); sweep >= 0 {
		v.Set("credits.sweepInterval", sweep)
	}
	if enabled := os.Getenv("IQ_RATE_LIMIT_ENABLED"); enabled != "" {
		v.Set("rateLimit.enabled", enabled == "true" || enabled == "1")
	}
	if frontend := os.Getenv("FRONTEND_URL"); frontend != "" {
		v.Set("cors.allowedOrigins", strings.Split(frontend, ","))
	}
}

func getEnvInt(name string, defaultVal int) int {
	valStr := os.Getenv(name)
	if valStr == "" {
		return defaultVal
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

// processDurations converts time.Duration fields from their raw integer values
func processDurations(config *Config) {
	config.Server.ReadTimeout = time.Duration(config.Server.ReadTimeout) * time.Second
	config.Server.WriteTimeout = time.Duration(config.Server.WriteTimeout) * time.Second
	config.Server.IdleTimeout = time.Duration(config.Server.IdleTimeout) * time.Second
	config.Server.ReadHeaderTimeout = time.Duration(config.Server.ReadHeaderTimeout) * time.Second
	config.Server.ShutdownTimeout = time.Duration(config.Server.ShutdownTimeout) * time.Second

	config.Database.ConnMaxLifetime = time.Duration(config.Database.ConnMaxLifetime) * time.Minute
	config.Database.ConnMaxIdleTime = time.Duration(config.Database.ConnMaxIdleTime) * time.Minute
	config.Database.ConnectTimeout = time.Duration(config.Database.ConnectTimeout) * time.Second
	config.Database.QueryTimeout = time.Duration(config.Database.QueryTimeout) * time.Second
	config.Database.RetryDelay = time.Duration(config.Database.RetryDelay) * time.Second

	config.Auth.TokenTTL = time.Duration(config.Auth.TokenTTL) * time.Hour

	config.Credits.SweepInterval = time.Duration(config.Credits.SweepInterval) * time.Minute
	config.Credits.SweepLockTTL = time.Duration(config.Credits.SweepLockTTL) * time.Minute

	config.Webhook.Timeout = time.Duration(config.Webhook.Timeout) * time.Second

	config.RateLimit.Window = time.Duration(config.RateLimit.Window) * time.Minute
}
