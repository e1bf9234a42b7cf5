// Package config loads engine configuration from the environment.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/stemwave/analysis/logging"
)

// Config holds the engine's environment-driven settings
type Config struct {
	FFmpegPath    string        `env:"FFMPEG_PATH, default=ffmpeg"`
	DecodeTimeout time.Duration `env:"DECODE_TIMEOUT, default=30s"`

	// CacheBackend selects the record store: mongo, badger, or memory
	CacheBackend string `env:"CACHE_BACKEND, default=mongo"`
	MongoURI     string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	MongoDB      string `env:"MONGO_DATABASE, default=stemwave"`
	BadgerDir    string `env:"BADGER_DIR, default=/var/lib/stemwave/cache"`

	// S3Bucket enables S3 object storage when set; the worker reads from
	// StorageDir otherwise
	S3Bucket   string `env:"S3_BUCKET"`
	S3Region   string `env:"S3_REGION, default=us-east-1"`
	StorageDir string `env:"STORAGE_DIR, default=/var/lib/stemwave/audio"`

	PollInterval time.Duration `env:"QUEUE_POLL_INTERVAL, default=5s"`

	DemucsPath string `env:"DEMUCS_PATH, default=demucs"`
	DemucsOut  string `env:"DEMUCS_OUT_DIR, default=/tmp/stemwave-demucs"`

	LogLevel string `env:"LOG_LEVEL, default=info"`
}

// Load reads configuration from process environment variables
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("process env config: %w", err)
	}
	return &cfg, nil
}

// S3Enabled reports whether object storage should use S3
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != ""
}

// ApplyLogLevel sets the global logger level from the configured name.
// Unknown names keep the info level.
func (c *Config) ApplyLogLevel() {
	switch c.LogLevel {
	case "debug":
		logging.SetLevel(logging.DebugLevel)
	case "warn":
		logging.SetLevel(logging.WarnLevel)
	case "error":
		logging.SetLevel(logging.ErrorLevel)
	default:
		logging.SetLevel(logging.InfoLevel)
	}
}
