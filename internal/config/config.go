package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/defenceguesser.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:"../web/dist"`

	CatalogPath    string `env:"CATALOG_PATH" envDefault:"data/equipment.json"`
	BoundariesPath string `env:"BOUNDARIES_PATH"`
	AliasesPath    string `env:"ALIASES_PATH"`

	Rounds        int    `env:"ROUNDS" envDefault:"5"`
	RetentionDays int    `env:"RETENTION_DAYS" envDefault:"7"`
	DailyTimezone string `env:"DAILY_TIMEZONE" envDefault:"Local"`

	MaintenanceInterval time.Duration `env:"MAINTENANCE_INTERVAL" envDefault:"1h"`
	GameIdleTimeout     time.Duration `env:"GAME_IDLE_TIMEOUT" envDefault:"2h"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	AdminEmail        string `env:"ADMIN_EMAIL"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`
	JWTSecret         string `env:"JWT_SECRET"`
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first if present; real environment
// variables win over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Rounds < 1 {
		return fmt.Errorf("ROUNDS must be positive, got %d", c.Rounds)
	}
	if c.RetentionDays < 0 {
		return fmt.Errorf("RETENTION_DAYS must not be negative, got %d", c.RetentionDays)
	}
	if c.MaintenanceInterval <= 0 {
		return fmt.Errorf("MAINTENANCE_INTERVAL must be positive, got %s", c.MaintenanceInterval)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.AdminEnabled() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when ADMIN_EMAIL is set")
	}
	return nil
}

// Location resolves DailyTimezone, the zone in which a new daily
// challenge starts.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.DailyTimezone)
	if err != nil {
		return nil, fmt.Errorf("DAILY_TIMEZONE: %w", err)
	}
	return loc, nil
}

// AdminEnabled reports whether the admin API should be mounted.
func (c *Config) AdminEnabled() bool {
	return c.AdminEmail != "" && c.AdminPasswordHash != ""
}
