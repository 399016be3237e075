package generation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// BriefCache memoizes generated briefs in Redis keyed by a hash of the full
// prompt (question plus context). The model runs at low temperature precisely
// so repeated answers stay stable; caching makes that explicit and saves a
// model round trip on repeated questions. A nil *BriefCache is a no-op.
type BriefCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewBriefCache wraps a Redis client. ttl <= 0 defaults to 24 hours, matching
// the day granularity of verdicts.
func NewBriefCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *BriefCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &BriefCache{client: client, ttl: ttl, logger: logger}
}

// Get returns a cached brief for the prompt, if any. Cache errors are treated
// as misses.
func (c *BriefCache) Get(ctx context.Context, prompt string) (string, bool) {
	if c == nil || c.client == nil {
		return "", false
	}
	brief, err := c.client.Get(ctx, c.key(prompt)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("brief cache read failed", "error", err)
		}
		return "", false
	}
	return brief, true
}

// Set stores a brief. Best-effort: failures are logged, never propagated.
func (c *BriefCache) Set(ctx context.Context, prompt, brief string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Set(ctx, c.key(prompt), brief, c.ttl).Err(); err != nil {
		c.logger.Warn("brief cache write failed", "error", err)
	}
}

func (c *BriefCache) key(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return "brief:" + hex.EncodeToString(sum[:])
}
