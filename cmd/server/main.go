package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"causeway/internal/analysis"
	analysishandler "causeway/internal/analysis/handler"
	analysismetrics "causeway/internal/analysis/metrics"
	"causeway/internal/audit"
	audithandler "causeway/internal/audit/handler"
	auditmemory "causeway/internal/audit/store/memory"
	auditpostgres "causeway/internal/audit/store/postgres"
	"causeway/internal/confounder"
	"causeway/internal/generation"
	"causeway/internal/ledger"
	ledgerhandler "causeway/internal/ledger/handler"
	"causeway/internal/platform/config"
	"causeway/internal/platform/httpserver"
	"causeway/internal/platform/kafka"
	"causeway/internal/platform/logger"
	platformpostgres "causeway/internal/platform/postgres"
	platformredis "causeway/internal/platform/redis"
	"causeway/internal/retrieval"
	httptransport "causeway/internal/transport/http"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in internal module packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// The event ledger and washout policy are load-bearing: a category
	// without a washout window must stop the process, not surface later as
	// a per-request failure.
	events, err := ledger.LoadFile(cfg.EventsPath)
	if err != nil {
		log.Error("failed to load events file", "path", cfg.EventsPath, "error", err)
		os.Exit(1)
	}
	policy := confounder.DefaultPolicy(cfg.FallbackWashoutDays)
	if err := policy.Validate(events); err != nil {
		log.Error("washout policy validation failed", "error", err)
		os.Exit(1)
	}
	eventLedger := ledger.New(ledger.NewSnapshot(events))
	log.Info("event ledger loaded", "path", cfg.EventsPath, "events", len(events))

	checks := map[string]httptransport.HealthChecker{}

	// Audit store: postgres when configured, in-memory otherwise.
	var store audit.Store
	db, err := platformpostgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
		pgStore := auditpostgres.New(db)
		if err := pgStore.EnsureSchema(rootCtx); err != nil {
			log.Error("failed to ensure audit schema", "error", err)
			os.Exit(1)
		}
		store = pgStore
		checks["audit_store"] = pgStore
	} else {
		log.Warn("postgres not configured, audit log is in-memory only")
		store = auditmemory.NewInMemoryStore()
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		log.Error("failed to connect to kafka", "error", err)
		os.Exit(1)
	}
	var bus audit.MessagePublisher
	if producer != nil {
		defer producer.Close()
		bus = producer
		log.Info("audit kafka mirror enabled", "topic", cfg.KafkaTopic)
	}
	publisher := audit.NewPublisher(rootCtx, store, bus, log)

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	var cache *generation.BriefCache
	if redisClient != nil {
		defer redisClient.Close()
		cache = generation.NewBriefCache(redisClient.Client, 0, log)
		checks["cache"] = redisClient
	}

	// Retrieval is optional: without it every brief degrades to low
	// confidence instead of failing.
	var searcher analysis.ContextSearcher
	if cfg.WeaviateHost != "" {
		retriever, err := retrieval.New(retrieval.Config{
			Host:    cfg.WeaviateHost,
			Scheme:  cfg.WeaviateScheme,
			Class:   cfg.WeaviateClass,
			Timeout: cfg.RetrievalTimeout,
		}, log)
		if err != nil {
			log.Error("failed to build retriever", "error", err)
			os.Exit(1)
		}
		searcher = retriever
		checks["retriever"] = retriever
	} else {
		log.Warn("weaviate not configured, briefs will be generated without context")
	}

	generator := generation.New(generation.Config{
		BaseURL:    cfg.OpenAIBaseURL,
		APIKey:     cfg.OpenAIAPIKey,
		Model:      cfg.OpenAIModel,
		Timeout:    cfg.GenerationTimeout,
		MaxRetries: cfg.MaxRetries,
	}, cache, log)
	checks["generator"] = generator

	service := analysis.NewService(
		eventLedger,
		confounder.NewDetector(policy),
		searcher,
		generator,
		publisher,
		analysismetrics.New(),
		log,
		cfg.TopK,
	)

	router := httptransport.NewRouter(checks,
		analysishandler.New(service, log),
		audithandler.New(publisher, log),
		ledgerhandler.New(eventLedger, policy, cfg.EventsPath, log),
	)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting causeway", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-rootCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
