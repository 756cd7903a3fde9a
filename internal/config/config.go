package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/viper"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	DB        DatabaseConfig
	App       AppConfig
	Logger    LoggerConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

// DatabaseConfig holds configuration for the database
type DatabaseConfig struct {
	Driver          string `mapstructure:"DB_DRIVER"`
	URL             string `mapstructure:"DATABASE_URL"`
	Host            string `mapstructure:"DB_HOST"`
	Port            string `mapstructure:"DB_PORT"`
	User            string `mapstructure:"DB_USER"`
	Password        string `mapstructure:"DB_PASSWORD"`
	Name            string `mapstructure:"DB_NAME"`
	SSLMode         string `mapstructure:"DB_SSLMODE"`
	SQLitePath      string `mapstructure:"DB_SQLITE_PATH"`
	MaxOpenConns    int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int    `mapstructure:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime int    `mapstructure:"DB_CONN_MAX_LIFETIME"`  // seconds
	ConnMaxIdleTime int    `mapstructure:"DB_CONN_MAX_IDLE_TIME"` // seconds
	AutoMigrate     bool   `mapstructure:"DB_AUTO_MIGRATE"`
}

// AppConfig holds configuration for the application server
type AppConfig struct {
	Host                   string `mapstructure:"HOST"`
	Port                   string `mapstructure:"PORT"`
	ShutdownTimeoutSeconds int    `mapstructure:"APP_SHUTDOWN_TIMEOUT_SECONDS"`
	SwaggerEnabled         bool   `mapstructure:"SWAGGER_ENABLED"`
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level            string  `mapstructure:"LOG_LEVEL"`
	Format           string  `mapstructure:"LOG_FORMAT"`
	OutputPath       string  `mapstructure:"LOG_OUTPUT_PATH"`
	SlowQuerySeconds float64 `mapstructure:"LOG_SLOW_QUERY_SECONDS"`
	EnableSampling   bool    `mapstructure:"LOG_ENABLE_SAMPLING"`
	ServiceName      string  `mapstructure:"SERVICE_NAME"`
	ServiceVersion   string  `mapstructure:"SERVICE_VERSION"`
}

// RedisConfig holds configuration for the optional Redis backend
type RedisConfig struct {
	Enabled     bool   `mapstructure:"REDIS_ENABLED"`
	Host        string `mapstructure:"REDIS_HOST"`
	Port        string `mapstructure:"REDIS_PORT"`
	Password    string `mapstructure:"REDIS_PASSWORD"`
	DB          int    `mapstructure:"REDIS_DB"`
	MaxRetries  int    `mapstructure:"REDIS_MAX_RETRIES"`
	PoolSize    int    `mapstructure:"REDIS_POOL_SIZE"`
	MinIdleConn int    `mapstructure:"REDIS_MIN_IDLE_CONN"`
	CacheTTL    int    `mapstructure:"REDIS_CACHE_TTL"` // seconds
}

// RateLimitConfig holds configuration for the HTTP rate limiter
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"RATE_LIMIT_ENABLED"`
	RequestsPerSecond float64 `mapstructure:"RATE_LIMIT_RPS"`
	BurstCapacity     int     `mapstructure:"RATE_LIMIT_BURST"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set defaults first
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("app") // Look for app.env
	v.SetConfigType("env")

	v.AutomaticEnv() // Read from environment variables

	// Try to read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if we have env vars
	}

	var config Config

	config.DB.Driver = v.GetString("DB_DRIVER")
	config.DB.URL = v.GetString("DATABASE_URL")
	config.DB.Host = v.GetString("DB_HOST")
	config.DB.Port = v.GetString("DB_PORT")
	config.DB.User = v.GetString("DB_USER")
	config.DB.Password = v.GetString("DB_PASSWORD")
	config.DB.Name = v.GetString("DB_NAME")
	config.DB.SSLMode = v.GetString("DB_SSLMODE")
	config.DB.SQLitePath = v.GetString("DB_SQLITE_PATH")
	config.DB.MaxOpenConns = v.GetInt("DB_MAX_OPEN_CONNS")
	config.DB.MaxIdleConns = v.GetInt("DB_MAX_IDLE_CONNS")
	config.DB.ConnMaxLifetime = v.GetInt("DB_CONN_MAX_LIFETIME")
	config.DB.ConnMaxIdleTime = v.GetInt("DB_CONN_MAX_IDLE_TIME")
	config.DB.AutoMigrate = v.GetBool("DB_AUTO_MIGRATE")

	config.App.Host = v.GetString("HOST")
	config.App.Port = v.GetString("PORT")
	config.App.ShutdownTimeoutSeconds = v.GetInt("APP_SHUTDOWN_TIMEOUT_SECONDS")
	config.App.SwaggerEnabled = v.GetBool("SWAGGER_ENABLED")

	config.Logger.Level = v.GetString("LOG_LEVEL")
	config.Logger.Format = v.GetString("LOG_FORMAT")
	config.Logger.OutputPath = v.GetString("LOG_OUTPUT_PATH")
	config.Logger.SlowQuerySeconds = v.GetFloat64("LOG_SLOW_QUERY_SECONDS")
	config.Logger.EnableSampling = v.GetBool("LOG_ENABLE_SAMPLING")
	config.Logger.ServiceName = v.GetString("SERVICE_NAME")
	config.Logger.ServiceVersion = v.GetString("SERVICE_VERSION")

	config.Redis.Enabled = v.GetBool("REDIS_ENABLED")
	config.Redis.Host = v.GetString("REDIS_HOST")
	config.Redis.Port = v.GetString("REDIS_PORT")
	config.Redis.Password = v.GetString("REDIS_PASSWORD")
	config.Redis.DB = v.GetInt("REDIS_DB")
	config.Redis.MaxRetries = v.GetInt("REDIS_MAX_RETRIES")
	config.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	config.Redis.MinIdleConn = v.GetInt("REDIS_MIN_IDLE_CONN")
	config.Redis.CacheTTL = v.GetInt("REDIS_CACHE_TTL")

	config.RateLimit.Enabled = v.GetBool("RATE_LIMIT_ENABLED")
	config.RateLimit.RequestsPerSecond = v.GetFloat64("RATE_LIMIT_RPS")
	config.RateLimit.BurstCapacity = v.GetInt("RATE_LIMIT_BURST")

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", "3333")
	v.SetDefault("APP_SHUTDOWN_TIMEOUT_SECONDS", 10)
	v.SetDefault("SWAGGER_ENABLED", true)

	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "users")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_SQLITE_PATH", "users.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_MAX_RETRIES", 3)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_MIN_IDLE_CONN", 2)
	v.SetDefault("REDIS_CACHE_TTL", 60)

	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_RPS", 10.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)

	// Logger defaults
	env := v.GetString("APP_ENV")
	if env == "production" {
		v.SetDefault("LOG_LEVEL", "info")
		v.SetDefault("LOG_FORMAT", "json")
		v.SetDefault("LOG_ENABLE_SAMPLING", true)
	} else {
		v.SetDefault("LOG_LEVEL", "debug")
		v.SetDefault("LOG_FORMAT", "console")
		v.SetDefault("LOG_ENABLE_SAMPLING", false)
	}
	v.SetDefault("LOG_OUTPUT_PATH", "stdout")
	v.SetDefault("LOG_SLOW_QUERY_SECONDS", 0.2)
	v.SetDefault("SERVICE_NAME", "users-api")
	v.SetDefault("SERVICE_VERSION", "1.0.0")
}

// Validate checks that the loaded configuration is usable.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.App.Port)
	if err != nil {
		return fmt.Errorf("PORT must be an integer, got %q", c.App.Port)
	}
	if port < 0 || port > 65535 {
		return fmt.Errorf("PORT out of range: %d", port)
	}

	switch c.DB.Driver {
	case DriverPostgres:
	case DriverSQLite:
		if c.DB.SQLitePath == "" && c.DB.URL == "" {
			return errors.New("DB_SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}

	if c.DB.MaxOpenConns <= 0 {
		return errors.New("DB_MAX_OPEN_CONNS must be positive")
	}
	if c.DB.MaxIdleConns < 0 {
		return errors.New("DB_MAX_IDLE_CONNS must not be negative")
	}

	if c.Redis.Enabled && c.Redis.PoolSize <= 0 {
		return errors.New("REDIS_POOL_SIZE must be positive")
	}

	if c.RateLimit.Enabled {
		if !c.Redis.Enabled {
			return errors.New("RATE_LIMIT_ENABLED requires REDIS_ENABLED")
		}
		if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.BurstCapacity <= 0 {
			return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
		}
	}

	return nil
}

// Address returns the host:port the HTTP server binds to
func (c *AppConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// DSN returns the Data Source Name for the configured driver.
// DATABASE_URL takes precedence over the discrete settings.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	if c.Driver == DriverSQLite {
		return c.SQLitePath
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}
