package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spinshelf/spinshelf-backend/internal/platform/envutil"
)

// Config is the file-loadable subset of configuration. Everything here can
// be overridden by environment variables; component-level settings (model
// names, timeouts, cache TTLs) are env-only and read where they are used.
type Config struct {
	Mode string `yaml:"mode"`
	Port int    `yaml:"port"`
}

// LoadConfig reads CONFIG_FILE when set, then applies env overrides.
func LoadConfig() (Config, error) {
	cfg := Config{
		Mode: "dev",
		Port: 8080,
	}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}
	cfg.Mode = envutil.Str("APP_MODE", cfg.Mode)
	cfg.Port = envutil.Int("PORT", cfg.Port)
	return cfg, nil
}
