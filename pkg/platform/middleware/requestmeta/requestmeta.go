// Package requestmeta provides middleware for request-scoped metadata.
// All operations within a single HTTP request use the same "now" timestamp
// and correlation ID, ensuring consistency between verdicts, audit records,
// and log lines.
package requestmeta

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"causeway/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request and
// assigns a correlation ID, storing both in the context. An incoming
// X-Request-ID header is honored so upstream proxies can correlate.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		ctx = requestcontext.WithTime(ctx, time.Now())

		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
