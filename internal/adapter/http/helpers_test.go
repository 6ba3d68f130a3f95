package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/devdeck/devdeck/internal/domain"
)

func TestWriteDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "not found uses fallback",
			err:        fmt.Errorf("project %q: %w", "x", domain.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantMsg:    "project not found",
		},
		{
			name:       "validation detail is surfaced",
			err:        fmt.Errorf("commit message is required: %w", domain.ErrValidation),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "commit message is required",
		},
		{
			name:       "conflict detail is surfaced",
			err:        fmt.Errorf("scan already running: %w", domain.ErrConflict),
			wantStatus: http.StatusConflict,
			wantMsg:    "scan already running",
		},
		{
			name:       "unavailable maps to 503",
			err:        fmt.Errorf("catalog store not configured: %w", domain.ErrUnavailable),
			wantStatus: http.StatusServiceUnavailable,
			wantMsg:    "catalog store not configured",
		},
		{
			name:       "bare sentinel keeps its message",
			err:        domain.ErrUnavailable,
			wantStatus: http.StatusServiceUnavailable,
			wantMsg:    "unavailable",
		},
		{
			name:       "unknown errors stay opaque",
			err:        errors.New("disk on fire"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeDomainError(w, tt.err, "project not found")

			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, w.Code)
			}
			var resp errorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatal(err)
			}
			if resp.Error != tt.wantMsg {
				t.Fatalf("expected %q, got %q", tt.wantMsg, resp.Error)
			}
		})
	}
}

func TestReadJSONRejectsOversizedBody(t *testing.T) {
	big := `{"message": "` + strings.Repeat("a", maxRequestBodySize) + `"}`
	req := httptest.NewRequest("POST", "/", strings.NewReader(big))
	w := httptest.NewRecorder()

	_, ok := readJSON[map[string]string](w, req)
	if ok {
		t.Fatal("expected oversized body to be rejected")
	}
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", w.Code)
	}
}

func TestReadJSONInvalidBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader("not json"))
	w := httptest.NewRecorder()

	_, ok := readJSON[map[string]string](w, req)
	if ok {
		t.Fatal("expected invalid body to be rejected")
	}
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
