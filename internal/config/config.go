// Package config loads gallery settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every tunable of the gallery.
type Config struct {
	Folder           string        `env:"GALLERY_FOLDER" envDefault:"/Gallery"`
	Dir              string        `env:"GALLERY_DIR"`
	Manifest         string        `env:"GALLERY_MANIFEST"`
	InitialDisplay   int           `env:"GALLERY_INITIAL_DISPLAY" envDefault:"6"`
	RotationInterval time.Duration `env:"GALLERY_ROTATION_INTERVAL" envDefault:"10s"`
	LoadThreshold    float64       `env:"GALLERY_LOAD_THRESHOLD" envDefault:"1000"`
	LoadBatch        int           `env:"GALLERY_LOAD_BATCH" envDefault:"6"`
	DBPath           string        `env:"GALLERY_DB_PATH"`
	Addr             string        `env:"GALLERY_ADDR" envDefault:":8888"`
	ViewTTL          time.Duration `env:"GALLERY_VIEW_TTL" envDefault:"10m"`
	MaxViews         int           `env:"GALLERY_MAX_VIEWS" envDefault:"1000"`
}

// Load reads an optional .env file and then parses the environment.
func Load() (Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()
	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the gallery cannot run with.
func (c Config) Validate() error {
	if c.InitialDisplay <= 0 {
		return fmt.Errorf("GALLERY_INITIAL_DISPLAY must be positive, got %d", c.InitialDisplay)
	}
	if c.RotationInterval <= 0 {
		return fmt.Errorf("GALLERY_ROTATION_INTERVAL must be positive, got %s", c.RotationInterval)
	}
	if c.LoadThreshold <= 0 {
		return fmt.Errorf("GALLERY_LOAD_THRESHOLD must be positive, got %v", c.LoadThreshold)
	}
	if c.LoadBatch <= 0 {
		return fmt.Errorf("GALLERY_LOAD_BATCH must be positive, got %d", c.LoadBatch)
	}
	if c.ViewTTL < 0 {
		return fmt.Errorf("GALLERY_VIEW_TTL must not be negative, got %s", c.ViewTTL)
	}
	if c.MaxViews < 0 {
		return fmt.Errorf("GALLERY_MAX_VIEWS must not be negative, got %d", c.MaxViews)
	}
	return nil
}
