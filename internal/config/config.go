package config

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`

	// Performance knobs
	MaxPages    int `envconfig:"MAX_PAGES" default:"30"`
	Concurrency int `envconfig:"CONCURRENCY" default:"4"`
	WordTarget  int `envconfig:"WORD_TARGET" default:"3000"`

	// Safety knobs
	MaxUploadMB int64 `envconfig:"MAX_UPLOAD_MB" default:"25"`

	CacheDir string `envconfig:"CACHE_DIR" default:"./cache"`

	// Optional persistence. The pipeline never touches the database; a
	// configured DSN only enables the post-run library save.
	DatabaseURL   string `envconfig:"DATABASE_URL"`
	MigrationPath string `envconfig:"MIGRATION_PATH" default:"file://migrations"`
}

func Load() (*Config, error) {
	// Env vars may be set in the shell instead, ignore a missing .env.
	_ = godotenv.Load(".env")

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.MaxPages < 1 {
		return fmt.Errorf("%w: MAX_PAGES must be at least 1", ErrInvalid)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("%w: CONCURRENCY must be at least 1", ErrInvalid)
	}
	if c.CacheDir == "" {
		return fmt.Errorf("%w: CACHE_DIR must not be empty", ErrInvalid)
	}
	return nil
}
