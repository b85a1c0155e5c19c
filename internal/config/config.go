package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage drivers
const (
	StorageMemory = "memory"
	StorageMySQL  = "mysql"
)

const defaultJWTSecret = "default_secret"

// Config holds all configuration for the application
type Config struct {
	AppMode        string `env:"APP_MODE" envDefault:"dev"`
	Port           string `env:"PORT" envDefault:"3000"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS"`
	StorageDriver  string `env:"STORAGE_DRIVER" envDefault:"memory"`
	PolicyFile     string `env:"POLICY_FILE"`
	SeedDemoLoans  bool   `env:"SEED_DEMO_LOANS" envDefault:"false"`
	Reminder       ReminderConfig

	// Database and JWT are re-read below with the DEV_ or PROD_ prefix
	Database DatabaseConfig
	JWT      JWTConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"3306"`
	User     string `env:"DB_USER" envDefault:"root"`
	Password string `env:"DB_PASS"`
	DBName   string `env:"DB_NAME" envDefault:"loanflow"`

	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"100"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"1h"`
	ConnectTimeout  time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"10s"`
}

// JWTConfig holds access token configuration
type JWTConfig struct {
	Secret         string        `env:"JWT_SECRET" envDefault:"default_secret"`
	Issuer         string        `env:"JWT_ISSUER" envDefault:"loanflow"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
}

// ReminderConfig holds the stale application reminder schedule
type ReminderConfig struct {
	Enabled    bool          `env:"REMINDER_ENABLED" envDefault:"true"`
	Schedule   string        `env:"REMINDER_SCHEDULE" envDefault:"30 8 * * *"`
	StaleAfter time.Duration `env:"REMINDER_STALE_AFTER" envDefault:"48h"`
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}

	AppConfig = cfg

	log.Printf("✅ Configuration loaded successfully [MODE: %s, STORAGE: %s]", cfg.AppMode, cfg.StorageDriver)
	return cfg, nil
}

// Parse builds the configuration from the current environment only
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	// Trim spaces for Windows compatibility
	cfg.AppMode = strings.TrimSpace(cfg.AppMode)
	if cfg.AppMode != "dev" && cfg.AppMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", cfg.AppMode)
	}

	opts := env.Options{Prefix: cfg.modePrefix()}
	cfg.Database = DatabaseConfig{}
	cfg.JWT = JWTConfig{}
	if err := env.ParseWithOptions(&cfg.Database, opts); err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	if err := env.ParseWithOptions(&cfg.JWT, opts); err != nil {
		return nil, fmt.Errorf("parse jwt config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageMemory, StorageMySQL:
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER: '%s' (must be '%s' or '%s')", c.StorageDriver, StorageMemory, StorageMySQL)
	}
	if c.Database.MaxOpenConns < 1 || c.Database.MaxIdleConns < 0 {
		return errors.New("DB_MAX_OPEN_CONNS must be at least 1 and DB_MAX_IDLE_CONNS non-negative")
	}
	if c.JWT.AccessTokenTTL <= 0 {
		return errors.New("ACCESS_TOKEN_TTL must be positive")
	}
	if c.IsProd() && c.JWT.Secret == defaultJWTSecret {
		return errors.New("PROD_JWT_SECRET must be set in prod mode")
	}
	return nil
}

func (c *Config) modePrefix() string {
	if c.AppMode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	if c.AllowedOrigins == "" {
		if c.IsDev() {
			return "*"
		}
		return "http://localhost:3000"
	}
	return c.AllowedOrigins
}
