package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "events.json", cfg.EventsPath)
	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, 14, cfg.FallbackWashoutDays)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("CAUSEWAY_ADDR", ":9090")
	t.Setenv("CAUSEWAY_KAFKA_BROKERS", "broker-a:9092, broker-b:9092,")
	t.Setenv("CAUSEWAY_RETRIEVAL_TIMEOUT", "3s")
	t.Setenv("CAUSEWAY_TOP_K", "8")

	cfg := FromEnv()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, []string{"broker-a:9092", "broker-b:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 3*time.Second, cfg.RetrievalTimeout)
	assert.Equal(t, 8, cfg.TopK)
}

func TestFromEnvIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("CAUSEWAY_TOP_K", "many")
	t.Setenv("CAUSEWAY_RETRIEVAL_TIMEOUT", "soon")

	cfg := FromEnv()

	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, 10*time.Second, cfg.RetrievalTimeout)
}
