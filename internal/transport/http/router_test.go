package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"causeway/pkg/requestcontext"
)

type healthFunc func(ctx context.Context) error

func (f healthFunc) Health(ctx context.Context) error { return f(ctx) }

type RouterSuite struct {
	suite.Suite
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) get(router http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func (s *RouterSuite) TestHealth() {
	s.Run("all probes passing reports ok", func() {
		router := NewRouter(map[string]HealthChecker{
			"generator": healthFunc(func(context.Context) error { return nil }),
			"cache":     healthFunc(func(context.Context) error { return nil }),
		})

		w := s.get(router, "/health")
		s.Require().Equal(http.StatusOK, w.Code)

		var resp struct {
			Status     string            `json:"status"`
			Components map[string]string `json:"components"`
		}
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.Equal("ok", resp.Status)
		s.Equal("ok", resp.Components["generator"])
	})

	s.Run("a failing probe reports degraded but still 200", func() {
		router := NewRouter(map[string]HealthChecker{
			"generator": healthFunc(func(context.Context) error { return nil }),
			"retriever": healthFunc(func(context.Context) error { return errors.New("not ready") }),
		})

		w := s.get(router, "/health")
		s.Require().Equal(http.StatusOK, w.Code)

		var resp struct {
			Status     string            `json:"status"`
			Components map[string]string `json:"components"`
		}
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
		s.Equal("degraded", resp.Status)
		s.Equal("not ready", resp.Components["retriever"])
		s.Equal("ok", resp.Components["generator"])
	})

	s.Run("no probes configured reports ok", func() {
		w := s.get(NewRouter(nil), "/health")
		s.Require().Equal(http.StatusOK, w.Code)
	})
}

func (s *RouterSuite) TestMetricsEndpoint() {
	w := s.get(NewRouter(nil), "/metrics")
	s.Equal(http.StatusOK, w.Code)
}

type captureModule struct {
	requestID string
}

func (m *captureModule) Register(r chi.Router) {
	r.Get("/probe", func(w http.ResponseWriter, r *http.Request) {
		m.requestID = requestcontext.RequestID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func (s *RouterSuite) TestModuleMountingAndRequestMeta() {
	module := &captureModule{}
	router := NewRouter(nil, module)

	s.Run("modules mount under /api", func() {
		w := s.get(router, "/api/probe")
		s.Equal(http.StatusNoContent, w.Code)
	})

	s.Run("middleware assigns a request ID", func() {
		s.get(router, "/api/probe")
		s.NotEmpty(module.requestID)
	})

	s.Run("a provided request ID is propagated", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/probe", nil)
		req.Header.Set("X-Request-ID", "req-42")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		s.Equal("req-42", module.requestID)
	})
}
