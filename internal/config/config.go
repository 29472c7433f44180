// internal/config/config.go
package config

import (
	"fmt"

	"bankledger/pkg/db"

	"github.com/ilyakaznacheev/cleanenv"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort string `env:"SERVER_PORT" env-default:"8080"`
	DB         db.Config
}

// LoadConfig reads configuration from environment variables, applying
// defaults suitable for local development.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("couldn't read environment variables: %w", err)
	}
	return cfg, nil
}
