package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, 30*time.Second, cfg.DecodeTimeout)
	assert.Equal(t, "mongo", cfg.CacheBackend)
	assert.Equal(t, "stemwave", cfg.MongoDB)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.S3Enabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("FFMPEG_PATH", "/opt/bin/ffmpeg")
	t.Setenv("DECODE_TIMEOUT", "90s")
	t.Setenv("CACHE_BACKEND", "badger")
	t.Setenv("BADGER_DIR", "/data/cache")
	t.Setenv("S3_BUCKET", "stemwave-audio")
	t.Setenv("QUEUE_POLL_INTERVAL", "250ms")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/opt/bin/ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, 90*time.Second, cfg.DecodeTimeout)
	assert.Equal(t, "badger", cfg.CacheBackend)
	assert.Equal(t, "/data/cache", cfg.BadgerDir)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.S3Enabled())
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("DECODE_TIMEOUT", "not-a-duration")

	_, err := Load(context.Background())
	assert.Error(t, err)
}
