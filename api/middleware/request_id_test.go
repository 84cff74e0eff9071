package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func requestIDRoundTrip(t *testing.T, inbound string) string {
	t.Helper()
	handler := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if inbound != "" {
		req.Header.Set("X-Request-Id", inbound)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec.Header().Get("X-Request-Id")
}

func TestRequestIDKeepsWellFormedInboundID(t *testing.T) {
	inbound := uuid.NewString()
	if got := requestIDRoundTrip(t, inbound); got != inbound {
		t.Fatalf("expected inbound id %q to be echoed, got %q", inbound, got)
	}
}

func TestRequestIDReplacesMalformedInboundID(t *testing.T) {
	got := requestIDRoundTrip(t, "not-a-uuid\r\ninjected")
	if _, err := uuid.Parse(got); err != nil {
		t.Fatalf("expected a fresh uuid, got %q: %v", got, err)
	}
}

func TestRequestIDGeneratesWhenMissing(t *testing.T) {
	got := requestIDRoundTrip(t, "")
	if _, err := uuid.Parse(got); err != nil {
		t.Fatalf("expected a generated uuid, got %q: %v", got, err)
	}
}
