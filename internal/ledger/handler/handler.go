package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"causeway/internal/confounder"
	"causeway/internal/ledger"
	dErrors "causeway/pkg/domain-errors"
	"causeway/pkg/platform/httputil"
	"causeway/pkg/requestcontext"
)

// Handler exposes ledger management endpoints.
type Handler struct {
	store  *ledger.Ledger
	policy confounder.Policy
	path   string
	logger *slog.Logger
}

// New constructs a ledger handler. path is the events file reloaded on demand.
func New(store *ledger.Ledger, policy confounder.Policy, path string, logger *slog.Logger) *Handler {
	return &Handler{store: store, policy: policy, path: path, logger: logger}
}

// Register mounts ledger endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/ledger/reload", h.HandleReload)
}

// HandleReload re-reads the events file, validates it against the washout
// policy, and atomically swaps the active snapshot. The prior snapshot stays
// live for any request already in flight.
func (h *Handler) HandleReload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	events, err := ledger.LoadFile(h.path)
	if err != nil {
		h.logger.ErrorContext(ctx, "ledger reload failed",
			"request_id", requestID,
			"path", h.path,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeValidation, "events file could not be loaded", err))
		return
	}

	if err := h.policy.Validate(events); err != nil {
		h.logger.ErrorContext(ctx, "ledger reload rejected",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(dErrors.CodeValidation, "events failed policy validation", err))
		return
	}

	snap := ledger.NewSnapshot(events)
	h.store.Replace(snap)
	h.logger.InfoContext(ctx, "ledger reloaded",
		"request_id", requestID,
		"events", snap.Len(),
	)

	httputil.WriteJSON(w, http.StatusOK, map[string]any{"events": snap.Len()})
}
