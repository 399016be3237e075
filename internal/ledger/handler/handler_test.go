package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"causeway/internal/confounder"
	"causeway/internal/ledger"
)

type ReloadHandlerSuite struct {
	suite.Suite
	store *ledger.Ledger
	path  string
}

func (s *ReloadHandlerSuite) SetupTest() {
	s.store = ledger.New(ledger.NewSnapshot(nil))
	s.path = filepath.Join(s.T().TempDir(), "events.json")
}

func TestReloadHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReloadHandlerSuite))
}

func (s *ReloadHandlerSuite) router(policy confounder.Policy) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	New(s.store, policy, s.path, logger).Register(r)
	return r
}

func (s *ReloadHandlerSuite) post(r chi.Router) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/ledger/reload", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func (s *ReloadHandlerSuite) TestReload() {
	s.Run("missing file leaves the active snapshot untouched", func() {
		w := s.post(s.router(confounder.DefaultPolicy(confounder.DefaultFallbackDays)))
		s.Equal(http.StatusBadRequest, w.Code)
		s.Equal(0, s.store.Snapshot().Len())
	})

	s.Run("policy violation rejects the reload", func() {
		s.Require().NoError(os.WriteFile(s.path, []byte(`[
			{"category": "legal", "date": "2025-05-01", "description": "x"}
		]`), 0o600))

		policy := confounder.NewPolicy(map[ledger.Category]int{ledger.CategoryPricing: 14}, 0)
		w := s.post(s.router(policy))
		s.Equal(http.StatusBadRequest, w.Code)
		s.Equal(0, s.store.Snapshot().Len())
	})

	s.Run("swaps in the new events", func() {
		s.Require().NoError(os.WriteFile(s.path, []byte(`[
			{"category": "pricing", "date": "2025-05-01", "description": "x"},
			{"category": "product", "date": "2025-05-02", "description": "y"}
		]`), 0o600))

		w := s.post(s.router(confounder.DefaultPolicy(confounder.DefaultFallbackDays)))
		s.Require().Equal(http.StatusOK, w.Code)
		s.JSONEq(`{"events": 2}`, w.Body.String())
		s.Equal(2, s.store.Snapshot().Len())
	})
}
