// Package configuration sources process-wide settings from the environment.
// The presence of DATABASE_URL is the sole backend-selection signal for the
// conversation store.
package configuration

import (
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/councilhq/council/internal/file"
)

const defaultDataDir = "~/.config/council/conversations"

// Config holds configuration for the council tool. It is built once at
// startup and injected into constructors; operation bodies never read the
// environment themselves.
type Config struct {
	// Connection string for the relational backend. Empty selects the
	// file backend.
	DatabaseURL string
	// Base directory for the file backend.
	DataDir string
	// Port the HTTP API listens on.
	Port string
	// Origins allowed by the CORS middleware.
	CORSOrigins []string
}

// Load reads configuration from environment variables, applying defaults.
func Load() (*Config, error) {
	dataDir, err := file.ExpandPath(getEnv("DATA_DIR", defaultDataDir))
	if err != nil {
		return nil, errors.Wrap(err, "expanding data directory path")
	}

	config := &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DataDir:     dataDir,
		Port:        getEnv("PORT", "8001"),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"*"}),
	}
	if err := config.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" && c.DataDir == "" {
		return errors.New("DATA_DIR cannot be empty when DATABASE_URL is unset")
	}
	if c.Port == "" {
		return errors.New("PORT cannot be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	return list
}
