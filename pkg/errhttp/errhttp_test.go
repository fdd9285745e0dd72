package errhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	bookingdomain "github.com/ghuser/wayfare/services/booking/domain"
	catalogdomain "github.com/ghuser/wayfare/services/catalog/domain"
)

func TestWriteError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"item not found", catalogdomain.ErrItemNotFound, http.StatusNotFound},
		{"booking not found", bookingdomain.ErrBookingNotFound, http.StatusNotFound},
		{"invalid quantity", bookingdomain.ErrInvalidQuantity, http.StatusUnprocessableEntity},
		{"insufficient capacity", bookingdomain.ErrInsufficientCapacity, http.StatusConflict},
		{"invalid kind", catalogdomain.ErrInvalidKind, http.StatusBadRequest},
		{"unknown error", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tc.err)

			if w.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, w.Code)
			}
			var body map[string]string
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] == "" {
				t.Fatal("expected error message in body")
			}
		})
	}
}

// TestWriteError_WrappedSentinel verifies errors.Is matching through wrapping.
func TestWriteError_WrappedSentinel(t *testing.T) {
	wrapped := fmt.Errorf("commit booking: %w", bookingdomain.ErrInsufficientCapacity)

	w := httptest.NewRecorder()
	WriteError(w, wrapped)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for wrapped sentinel, got %d", w.Code)
	}
}
