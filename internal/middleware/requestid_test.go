package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/devdeck/devdeck/internal/logger"
)

// tagged runs one request through RequestID with the given inbound header and
// returns the ID the handler saw in its context and the echoed header.
func tagged(t *testing.T, inbound string) (ctxID, headerID string) {
	t.Helper()
	handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ctxID = logger.RequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	if inbound != "" {
		req.Header.Set(headerRequestID, inbound)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return ctxID, rec.Header().Get(headerRequestID)
}

func TestRequestIDGeneratesUUID(t *testing.T) {
	ctxID, headerID := tagged(t, "")

	if ctxID == "" || ctxID != headerID {
		t.Fatalf("context ID %q and header ID %q must match and be set", ctxID, headerID)
	}
	if _, err := uuid.Parse(ctxID); err != nil {
		t.Errorf("generated ID %q is not a UUID: %v", ctxID, err)
	}
}

func TestRequestIDHonorsClientID(t *testing.T) {
	ctxID, headerID := tagged(t, "build-4711")

	if ctxID != "build-4711" {
		t.Errorf("context ID = %q, want client-supplied value", ctxID)
	}
	if headerID != "build-4711" {
		t.Errorf("header ID = %q, want client-supplied value", headerID)
	}
}

func TestRequestIDReplacesUnusableClientIDs(t *testing.T) {
	tests := []struct {
		name    string
		inbound string
	}{
		{"oversized", strings.Repeat("a", maxRequestIDLen+1)},
		{"control characters", "abc\ndef"},
		{"non-ascii", "réquest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctxID, _ := tagged(t, tt.inbound)
			if ctxID == tt.inbound {
				t.Fatalf("unusable ID %q was propagated", tt.inbound)
			}
			if _, err := uuid.Parse(ctxID); err != nil {
				t.Errorf("replacement ID %q is not a UUID: %v", ctxID, err)
			}
		})
	}
}
