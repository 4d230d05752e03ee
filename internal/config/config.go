package config

import (
	"errors"
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Promotion table sources.
const (
	SourceStatic   = "static"
	SourceDatabase = "database"
)

// Config holds all configuration for the application.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Log    LogConfig
	Promo  PromoConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port            string `envconfig:"SERVER_PORT" default:"3000"`
	ShutdownTimeout int    `envconfig:"SHUTDOWN_TIMEOUT" default:"30"` // seconds
}

// DBConfig holds database-related configuration.
// The database is optional; without it the service runs on the static table
// and validation attempts are not recorded.
// WARNING: Default password is for local development only.
type DBConfig struct {
	Enabled  bool   `envconfig:"DB_ENABLED" default:"false"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"` // CHANGE IN PRODUCTION
	Name     string `envconfig:"DB_NAME" default:"promotions_db"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns int    `envconfig:"DB_MIN_CONNS" default:"2"`
}

// DSN returns the PostgreSQL connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&pool_max_conns=%d&pool_min_conns=%d",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode, c.MaxConns, c.MinConns)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Pretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// PromoConfig holds promotion evaluation and listing settings.
type PromoConfig struct {
	Source             string  `envconfig:"PROMO_SOURCE" default:"static"`
	DisplayLimit       int     `envconfig:"PROMO_DISPLAY_LIMIT" default:"5"`
	SuggestionDistance int     `envconfig:"PROMO_SUGGESTION_DISTANCE" default:"2"`
	RateLimitRPS       float64 `envconfig:"PROMO_RATE_LIMIT_RPS" default:"5"`
	RateLimitBurst     int     `envconfig:"PROMO_RATE_LIMIT_BURST" default:"10"`
}

// Load parses environment variables into the Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Promo.Source {
	case SourceStatic:
	case SourceDatabase:
		if !c.DB.Enabled {
			return fmt.Errorf("PROMO_SOURCE=%s requires DB_ENABLED=true", SourceDatabase)
		}
	default:
		return fmt.Errorf("unknown PROMO_SOURCE %q", c.Promo.Source)
	}
	if c.Promo.DisplayLimit < 1 {
		return errors.New("PROMO_DISPLAY_LIMIT must be at least 1")
	}
	return nil
}
