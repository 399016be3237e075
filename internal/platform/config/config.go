package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything main needs to wire the service. Every field maps
// to a CAUSEWAY_* environment variable so deployments stay declarative.
type Config struct {
	Addr       string
	EventsPath string

	DatabaseURL string
	RedisURL    string

	KafkaBrokers []string
	KafkaTopic   string

	WeaviateHost     string
	WeaviateScheme   string
	WeaviateClass    string
	RetrievalTimeout time.Duration
	TopK             int

	OpenAIBaseURL     string
	OpenAIAPIKey      string
	OpenAIModel       string
	GenerationTimeout time.Duration
	MaxRetries        int

	FallbackWashoutDays int
}

// FromEnv builds a Config from environment variables so main stays lean.
// Optional backends (postgres, redis, kafka, weaviate) are simply left
// unconfigured when their variables are empty.
func FromEnv() Config {
	cfg := Config{
		Addr:                envOr("CAUSEWAY_ADDR", ":8080"),
		EventsPath:          envOr("CAUSEWAY_EVENTS_PATH", "events.json"),
		DatabaseURL:         os.Getenv("CAUSEWAY_DATABASE_URL"),
		RedisURL:            os.Getenv("CAUSEWAY_REDIS_URL"),
		KafkaTopic:          envOr("CAUSEWAY_KAFKA_TOPIC", "causeway.decisions"),
		WeaviateHost:        os.Getenv("CAUSEWAY_WEAVIATE_HOST"),
		WeaviateScheme:      envOr("CAUSEWAY_WEAVIATE_SCHEME", "http"),
		WeaviateClass:       envOr("CAUSEWAY_WEAVIATE_CLASS", "Experiment"),
		RetrievalTimeout:    envDuration("CAUSEWAY_RETRIEVAL_TIMEOUT", 10*time.Second),
		TopK:                envInt("CAUSEWAY_TOP_K", 5),
		OpenAIBaseURL:       os.Getenv("CAUSEWAY_OPENAI_BASE_URL"),
		OpenAIAPIKey:        os.Getenv("CAUSEWAY_OPENAI_API_KEY"),
		OpenAIModel:         os.Getenv("CAUSEWAY_OPENAI_MODEL"),
		GenerationTimeout:   envDuration("CAUSEWAY_GENERATION_TIMEOUT", 60*time.Second),
		MaxRetries:          envInt("CAUSEWAY_LLM_MAX_RETRIES", 2),
		FallbackWashoutDays: envInt("CAUSEWAY_FALLBACK_WASHOUT_DAYS", 14),
	}

	if brokers := os.Getenv("CAUSEWAY_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = splitCSV(brokers)
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
