package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/shelflife/internal/config"
)

func TestNew(t *testing.T) {
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	type Config struct {
		Log   config.Log
		HTTP  config.HTTP
		Auth  config.Auth
		Redis config.Redis
	}

	cfg, err := config.New[Config]()
	require.NoError(t, err)

	assert.Equal(t, config.LogFormatText, cfg.Log.Format)
	assert.Equal(t, slog.LevelDebug, cfg.Log.Level)
	assert.Equal(t, uint32(8000), cfg.HTTP.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 8*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, time.Hour, cfg.Redis.SummaryTTL)
}

func TestNewMissingRequired(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")

	type Config struct {
		Auth config.Auth
	}

	_, err := config.New[Config]()
	assert.Error(t, err)
}

func TestLogFormatUnmarshalText(t *testing.T) {
	var f config.LogFormat
	require.NoError(t, f.UnmarshalText([]byte("json")))
	assert.Equal(t, config.LogFormatJSON, f)
	require.NoError(t, f.UnmarshalText([]byte(" TEXT ")))
	assert.Equal(t, config.LogFormatText, f)
	assert.Error(t, f.UnmarshalText([]byte("xml")))
}

func TestNewDefaults(t *testing.T) {
	t.Setenv("KAFKA_ADDRESSES", "k1:9092,k2:9092")

	type Config struct {
		Log   config.Log
		Kafka config.Kafka
		Relay config.Relay
	}

	cfg, err := config.New[Config]()
	require.NoError(t, err)

	assert.Equal(t, config.LogFormatJSON, cfg.Log.Format)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Addresses)
	assert.Equal(t, "shelflife-summaries", cfg.Kafka.Group)
	assert.Equal(t, "shelflife", cfg.Kafka.ClientID)
	assert.Equal(t, uint32(100), cfg.Relay.BatchSize)
	assert.Equal(t, time.Second, cfg.Relay.Interval)
	assert.Equal(t, 5*time.Second, cfg.Relay.ShutdownTimeout)
}
