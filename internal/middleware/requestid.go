// Package middleware provides HTTP middleware for DevDeck.
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/devdeck/devdeck/internal/logger"
)

const headerRequestID = "X-Request-ID"

// maxRequestIDLen caps client-supplied IDs so log lines stay bounded.
const maxRequestIDLen = 64

// RequestID tags every request with an identifier: the caller's X-Request-ID
// when it is usable, a fresh UUID otherwise. The ID rides the context for log
// correlation and is echoed on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := sanitizeRequestID(r.Header.Get(headerRequestID))
		if id == "" {
			id = uuid.NewString()
		}

		ctx := logger.WithRequestID(r.Context(), id)
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sanitizeRequestID drops IDs that are oversized or carry bytes outside
// printable ASCII, so hostile values never reach the logs verbatim.
func sanitizeRequestID(id string) string {
	if len(id) == 0 || len(id) > maxRequestIDLen {
		return ""
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return ""
		}
	}
	return id
}
