package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"causeway/internal/audit"
	"causeway/internal/ledger"
	dErrors "causeway/pkg/domain-errors"
	"causeway/pkg/platform/httputil"
	"causeway/pkg/requestcontext"
)

// Querier defines the read side of the audit log.
type Querier interface {
	Query(ctx context.Context, filter audit.Filter) ([]audit.DecisionRecord, error)
}

// Handler exposes the audit log query endpoint.
type Handler struct {
	querier Querier
	logger  *slog.Logger
}

// New constructs an audit handler.
func New(querier Querier, logger *slog.Logger) *Handler {
	return &Handler{querier: querier, logger: logger}
}

// Register mounts audit endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/decisions", h.HandleList)
}

// RecordResponse is one audit record on the wire.
type RecordResponse struct {
	ID            string    `json:"id"`
	Question      string    `json:"question"`
	Category      string    `json:"category"`
	Timestamp     time.Time `json:"timestamp"`
	Outcome       string    `json:"outcome"`
	Safe          bool      `json:"safe"`
	Violations    int       `json:"violations"`
	Brief         string    `json:"brief,omitempty"`
	LowConfidence bool      `json:"low_confidence,omitempty"`
	Failure       string    `json:"failure,omitempty"`
}

// HandleList handles GET /api/decisions with optional outcome, from, to, and
// limit filters. Results come back in insertion order.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	filter, err := parseFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	records, err := h.querier.Query(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "audit query failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeInternal, "audit query failed", err))
		return
	}

	out := make([]RecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, RecordResponse{
			ID:            rec.ID.String(),
			Question:      rec.Question,
			Category:      string(rec.Category),
			Timestamp:     rec.Timestamp,
			Outcome:       string(rec.Outcome),
			Safe:          rec.Verdict.Safe,
			Violations:    len(rec.Verdict.Violations),
			Brief:         rec.Brief,
			LowConfidence: rec.LowConfidence,
			Failure:       rec.Failure,
		})
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"decisions": out})
}

func parseFilter(r *http.Request) (audit.Filter, error) {
	var filter audit.Filter

	if outcome := r.URL.Query().Get("outcome"); outcome != "" {
		switch audit.Outcome(outcome) {
		case audit.OutcomeWait, audit.OutcomeBrief, audit.OutcomeFailed:
			filter.Outcome = audit.Outcome(outcome)
		default:
			return filter, dErrors.New(dErrors.CodeValidation, "outcome must be WAIT, BRIEF, or FAILED")
		}
	}

	if from := r.URL.Query().Get("from"); from != "" {
		t, err := parseTimeParam(from)
		if err != nil {
			return filter, dErrors.New(dErrors.CodeValidation, "from must be RFC3339 or YYYY-MM-DD")
		}
		filter.From = t
	}
	if to := r.URL.Query().Get("to"); to != "" {
		t, err := parseTimeParam(to)
		if err != nil {
			return filter, dErrors.New(dErrors.CodeValidation, "to must be RFC3339 or YYYY-MM-DD")
		}
		filter.To = t
	}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			return filter, dErrors.New(dErrors.CodeValidation, "limit must be a positive integer")
		}
		filter.Limit = n
	}

	return filter, nil
}

func parseTimeParam(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(ledger.DateLayout, s, time.UTC)
}
