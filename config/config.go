// Package config loads application configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds everything the server needs from the environment.
type Config struct {
	// Port is the HTTP listen port.
	Port string `koanf:"PORT"`

	// Env selects the runtime environment. Anything other than
	// "production" counts as development mode.
	Env string `koanf:"APP_ENV"`

	// CORSAllowedOrigins is a comma-separated allow-list of origins.
	CORSAllowedOrigins string `koanf:"CORS_ALLOWED_ORIGINS"`

	// DatabaseURL, when set, is used verbatim and overrides the DB_*
	// components below.
	DatabaseURL string `koanf:"DATABASE_URL"`

	DBHost     string `koanf:"DB_HOST"`
	DBPort     string `koanf:"DB_PORT"`
	DBUser     string `koanf:"DB_USER"`
	DBPassword string `koanf:"DB_PASSWORD"`
	DBName     string `koanf:"DB_NAME"`
	DBSSLMode  string `koanf:"DB_SSL_MODE"`

	// DBPoolSize caps concurrent in-flight database operations.
	DBPoolSize int `koanf:"DB_POOL_SIZE"`
}

// Load reads configuration from the environment. A .env file is loaded
// first when present; a missing file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", nil), nil); err != nil {
		return Config{}, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf", FlatPaths: true}); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.DBHost == "" {
		c.DBHost = "localhost"
	}
	if c.DBPort == "" {
		c.DBPort = "5432"
	}
	if c.DBUser == "" {
		c.DBUser = "postgres"
	}
	if c.DBPassword == "" {
		c.DBPassword = "postgres"
	}
	if c.DBName == "" {
		c.DBName = "spendbook"
	}
	if c.DBSSLMode == "" {
		c.DBSSLMode = "disable"
	}
	if c.DBPoolSize <= 0 {
		c.DBPoolSize = 10
	}
}

// IsDevelopment reports whether the server runs in development mode.
// Development mode includes error detail in HTTP responses.
func (c Config) IsDevelopment() bool {
	return c.Env != "production"
}

// ConnString builds the PostgreSQL connection string for the target
// database, or returns DATABASE_URL verbatim when it is set.
func (c Config) ConnString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// MaintenanceConnString points at the server's maintenance database,
// used only to create the target database when it is absent.
func (c Config) MaintenanceConnString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/postgres?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBSSLMode,
	)
}

// AllowedOrigins returns the CORS origin allow-list, falling back to
// common local development servers when unset.
func (c Config) AllowedOrigins() []string {
	if c.CORSAllowedOrigins != "" {
		origins := strings.Split(c.CORSAllowedOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		return origins
	}
	return []string{
		"http://localhost:5173",
		"http://localhost:3000",
		"http://localhost:8080",
	}
}
