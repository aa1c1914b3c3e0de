package database

import (
	"strings"

	"github.com/iqube-labs/iqube-api/internal/infrastructure/config"
)

// FromAppConfig builds the database configuration from the application configuration
func FromAppConfig(conf *config.Config) *Config {
	db := conf.Database
	cfg := DefaultConfig()

	if db.Driver != "" {
		cfg.Driver = strings.ToLower(db.Driver)
	}
	cfg.Host = db.Host
	cfg.Port = ParsePort(cfg.Driver, db.Port)
	cfg.Username = db.Username
	cfg.Password = db.Password
	if db.Database != "" {
		cfg.Database = db.Database
	}
	if db.SSLMode != "" {
		cfg.SSLMode = db.SSLMode
	}
	if db.MaxOpenConns > 0 {
		cfg.MaxOpenConns = db.MaxOpenConns
	}
	if db.MaxIdleConns > 0 {
		cfg.MaxIdleConns = db.MaxIdleConns
	}
	if db.ConnMaxLifetime > 0 {
		cfg.ConnMaxLifetime = db.ConnMaxLifetime
	}
	if db.ConnMaxIdleTime > 0 {
		cfg.ConnMaxIdleTime = db.ConnMaxIdleTime
	}
	if db.ConnectTimeout > 0 {
		cfg.ConnectTimeout = db.ConnectTimeout
	}
	if db.QueryTimeout > 0 {
		cfg.QueryTimeout = db.QueryTimeout
	}
	if db.RetryAttempts > 0 {
		cfg.RetryAttempts = db.RetryAttempts
	}
	if db.RetryDelay > 0 {
		cfg.RetryDelay = db.RetryDelay
	}

	// SQL statements are only traced at debug
	switch strings.ToLower(conf.Logger.Level) {
	case "debug":
		cfg.LogLevel = "info"
	case "error":
		cfg.LogLevel = "error"
	default:
		cfg.LogLevel = "warn"
	}

	return cfg
}
