package analysis

import (
	"context"

	"causeway/internal/retrieval"
)

// ContextSearcher retrieves supporting excerpts for a question. Best-effort:
// the orchestrator substitutes empty context on any error.
type ContextSearcher interface {
	Search(ctx context.Context, query string, topK int) ([]retrieval.Excerpt, error)
}

// BriefGenerator drafts a decision brief from a question and retrieved
// context. Mandatory on the safe path; failure fails the request.
type BriefGenerator interface {
	Generate(ctx context.Context, question string, excerpts []string) (string, error)
}
