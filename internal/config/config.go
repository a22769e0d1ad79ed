package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Metrics  MetricsConfig  `toml:"metrics"`
	AMQP     AMQPConfig     `toml:"amqp"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     string `toml:"port"`
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`
}

// DatabaseConfig selects and addresses the database. Driver is "postgres" or "sqlite";
// Path is only used by sqlite.
type DatabaseConfig struct {
	Driver   string `toml:"driver"`
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Name     string `toml:"name"`
	SSLMode  string `toml:"sslmode"`
	Path     string `toml:"path"`
}

// AuthConfig holds token and password hashing settings.
type AuthConfig struct {
	JWTSecret    string `toml:"jwt_secret"`
	JWTExpiresIn string `toml:"jwt_expires_in"`
	BcryptCost   int    `toml:"bcrypt_cost"`

	JWTExpirationDur time.Duration `toml:"-"`
}

// MetricsConfig holds calendar settings for the metrics engine.
type MetricsConfig struct {
	Timezone string `toml:"timezone"`

	Location *time.Location `toml:"-"`
}

// AMQPConfig configures the activity publisher. An empty URL disables publishing.
type AMQPConfig struct {
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
}

var appConfig *Config

// Default returns the built-in configuration used before any file or environment overlay.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:     "8080",
			Env:      "development",
			LogLevel: "",
		},
		Database: DatabaseConfig{
			Driver:  "postgres",
			Host:    "localhost",
			Port:    "5432",
			User:    "budgeteer",
			Name:    "budgeteer",
			SSLMode: "disable",
			Path:    "budgeteer.db",
		},
		Auth: AuthConfig{
			JWTSecret:    "fallback-secret-key-for-dev-only",
			JWTExpiresIn: "24h",
			BcryptCost:   10,
		},
		Metrics: MetricsConfig{
			Timezone: "UTC",
		},
		AMQP: AMQPConfig{
			Exchange: "budgeteer.activity",
		},
	}
}

// Load builds the configuration from defaults, an optional TOML file named by
// CONFIG_FILE, and finally the .env file and environment variables.
func Load() (*Config, error) {
	config := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, &config); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Server
	config.Server.Port = getEnv("PORT", config.Server.Port)
	config.Server.Env = getEnv("ENV", config.Server.Env)
	config.Server.LogLevel = getEnv("LOG_LEVEL", config.Server.LogLevel)

	// Database
	config.Database.Driver = strings.ToLower(getEnv("DB_DRIVER", config.Database.Driver))
	config.Database.Host = getEnv("DB_HOST", config.Database.Host)
	config.Database.Port = getEnv("DB_PORT", config.Database.Port)
	config.Database.User = getEnv("DB_USER", config.Database.User)
	config.Database.Password = getEnv("DB_PASSWORD", config.Database.Password)
	config.Database.Name = getEnv("DB_NAME", config.Database.Name)
	config.Database.SSLMode = getEnv("DB_SSLMODE", config.Database.SSLMode)
	config.Database.Path = getEnv("DB_PATH", config.Database.Path)

	switch config.Database.Driver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", config.Database.Driver)
	}

	// Auth
	config.Auth.JWTSecret = getEnv("JWT_SECRET", config.Auth.JWTSecret)
	config.Auth.JWTExpiresIn = getEnv("JWT_EXPIRES_IN", config.Auth.JWTExpiresIn)

	// Parse JWT expiration duration
	expDur, err := time.ParseDuration(config.Auth.JWTExpiresIn)
	if err != nil || expDur <= 0 {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", config.Auth.JWTExpiresIn)
		expDur = 24 * time.Hour
	}
	config.Auth.JWTExpirationDur = expDur

	if costStr := getEnv("BCRYPT_COST", ""); costStr != "" {
		cost, err := strconv.Atoi(costStr)
		if err != nil {
			return nil, fmt.Errorf("invalid BCRYPT_COST %q: %w", costStr, err)
		}
		config.Auth.BcryptCost = cost
	}

	// Metrics
	config.Metrics.Timezone = getEnv("METRICS_TIMEZONE", config.Metrics.Timezone)
	loc, err := time.LoadLocation(config.Metrics.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid METRICS_TIMEZONE %q: %w", config.Metrics.Timezone, err)
	}
	config.Metrics.Location = loc

	// AMQP
	config.AMQP.URL = getEnv("AMQP_URL", config.AMQP.URL)
	config.AMQP.Exchange = getEnv("AMQP_EXCHANGE", config.AMQP.Exchange)

	appConfig = &config
	return &config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
