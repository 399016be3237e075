// Package retrieval wraps the external semantic index. Retrieval is an
// enhancement, not a prerequisite: the orchestrator treats every error from
// this package as a degradation, never a request failure.
package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"causeway/pkg/platform/sentinel"
)

// Excerpt is one retrieved passage with its relevance score and origin.
type Excerpt struct {
	Text   string  `json:"text"`
	Score  float64 `json:"score"`
	Source string  `json:"source"`
}

// Config describes the Weaviate endpoint and query defaults.
type Config struct {
	Host    string // host:port, empty disables retrieval
	Scheme  string
	Class   string
	Timeout time.Duration
}

// WeaviateRetriever performs nearText search over the document class.
type WeaviateRetriever struct {
	client  *weaviate.Client
	class   string
	timeout time.Duration
	logger  *slog.Logger
}

// New builds a retriever against the configured Weaviate instance.
func New(cfg Config, logger *slog.Logger) (*WeaviateRetriever, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("weaviate host is required")
	}
	scheme := cfg.Scheme
	if scheme == "" {
		scheme = "http"
	}
	class := cfg.Class
	if class == "" {
		class = "Document"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client, err := weaviate.NewClient(weaviate.Config{Host: cfg.Host, Scheme: scheme})
	if err != nil {
		return nil, fmt.Errorf("create weaviate client: %w", err)
	}
	return &WeaviateRetriever{
		client:  client,
		class:   class,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Search returns up to topK excerpts ranked by semantic relevance to query.
func (r *WeaviateRetriever) Search(ctx context.Context, query string, topK int) ([]Excerpt, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	fields := []graphql.Field{
		{Name: "text"},
		{Name: "source"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "certainty"}}},
	}
	nearText := r.client.GraphQL().NearTextArgBuilder().WithConcepts([]string{query})

	resp, err := r.client.GraphQL().Get().
		WithClassName(r.class).
		WithFields(fields...).
		WithNearText(nearText).
		WithLimit(topK).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("weaviate query: %w", err)
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("weaviate query: %s", resp.Errors[0].Message)
	}

	return r.parse(resp)
}

// parse unpacks the GraphQL response into excerpts. Entries with an
// unexpected shape are skipped with a warning rather than failing the whole
// result set.
func (r *WeaviateRetriever) parse(resp *models.GraphQLResponse) ([]Excerpt, error) {
	get, ok := resp.Data["Get"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("weaviate response missing Get block")
	}
	items, ok := get[r.class].([]interface{})
	if !ok {
		return nil, nil
	}

	excerpts := make([]Excerpt, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			r.logger.Warn("skipping malformed retrieval result")
			continue
		}
		excerpt := Excerpt{}
		if text, ok := obj["text"].(string); ok {
			excerpt.Text = text
		}
		if source, ok := obj["source"].(string); ok {
			excerpt.Source = source
		}
		if additional, ok := obj["_additional"].(map[string]interface{}); ok {
			if certainty, ok := additional["certainty"].(float64); ok {
				excerpt.Score = certainty
			}
		}
		if excerpt.Text == "" {
			continue
		}
		excerpts = append(excerpts, excerpt)
	}
	return excerpts, nil
}

// Health reports whether the index is reachable and ready.
func (r *WeaviateRetriever) Health(ctx context.Context) error {
	ready, err := r.client.Misc().ReadyChecker().Do(ctx)
	if err != nil {
		return fmt.Errorf("weaviate readiness: %w", err)
	}
	if !ready {
		return sentinel.ErrUnavailable
	}
	return nil
}
