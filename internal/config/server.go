package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Server holds runtime configuration for the progress server,
// parsed from environment variables.
type Server struct {
	Addr     string `env:"TAPKOMBAT_ADDR" envDefault:":8080"`
	DataDir  string `env:"TAPKOMBAT_DATA_DIR" envDefault:"data"`
	LogLevel string `env:"TAPKOMBAT_LOG_LEVEL" envDefault:"info"`

	// Storage. sqlite and file need no DSN; postgres requires one.
	DBDialect   string `env:"DB_DIALECT" envDefault:"sqlite"`
	SQLitePath  string `env:"DB_SQLITE_PATH"`
	PostgresDSN string `env:"DB_POSTGRES_DSN"`
}

// ServerFromEnv reads server configuration from the environment,
// loading a .env file first when one is present.
func ServerFromEnv(log *logrus.Logger) (*Server, error) {
	if err := godotenv.Load(); err == nil && log != nil {
		log.Info("loaded environment from .env file")
	}

	cfg := &Server{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse server config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Server) Validate() error {
	switch c.DBDialect {
	case "sqlite", "file":
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("DB_DIALECT=postgres requires DB_POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("unsupported DB_DIALECT %q", c.DBDialect)
	}
	if c.Addr == "" {
		return fmt.Errorf("TAPKOMBAT_ADDR must not be empty")
	}
	return nil
}
