package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Database    DatabaseConfig  `mapstructure:"database"`
	Logger      LoggerConfig    `mapstructure:"logger"`
	Auth        AuthConfig      `mapstructure:"auth"`
	Credits     CreditsConfig   `mapstructure:"credits"`
	Webhook     WebhookConfig   `mapstructure:"webhook"`
	RateLimit   RateLimitConfig `mapstructure:"rateLimit"`
	CORS        CORSConfig      `mapstructure:"cors"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres, mysql or sqlite
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"` // file path for sqlite
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	ConnectTimeout  time.Duration `mapstructure:"connectTimeout"`  // seconds
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // seconds
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"` // seconds
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AuthConfig contains token and password settings
type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwtSecret"`
	TokenTTL   time.Duration `mapstructure:"tokenTTL"` // hours
	BcryptCost int           `mapstructure:"bcryptCost"`
}

// CreditsConfig contains the daily allowance rules
type CreditsConfig struct {
	DailyAllowance           int           `mapstructure:"dailyAllowance"`
	RefreshThresholdHours    int           `mapstructure:"refreshThresholdHours"`
	ManualRefreshWindowHours int           `mapstructure:"manualRefreshWindowHours"`
	HistoryLimit             int           `mapstructure:"historyLimit"`
	SweepInterval            time.Duration `mapstructure:"sweepInterval"` // minutes, 0 disables the in-process scheduler
	SweepLockTTL             time.Duration `mapstructure:"sweepLockTTL"`  // minutes
}

// WebhookConfig points at the external question generator
type WebhookConfig struct {
	URL           string        `mapstructure:"url"`
	RegenerateURL string        `mapstructure:"regenerateUrl"`
	WebhookID     string        `mapstructure:"webhookId"`
	ServiceID     string        `mapstructure:"serviceId"`
	Source        string        `mapstructure:"source"`
	Timeout       time.Duration `mapstructure:"timeout"` // seconds, 0 keeps the transport default
}

// RateLimitConfig contains per-IP request limits backed by redis
type RateLimitConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	RedisAddr     string        `mapstructure:"redisAddr"`
	RedisPassword string        `mapstructure:"redisPassword"`
	RedisDB       int           `mapstructure:"redisDB"`
	Capacity      int           `mapstructure:"capacity"`
	Window        time.Duration `mapstructure:"window"` // minutes
}

// CORSConfig lists the browser origins allowed to call the API
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}
