package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 7, "name": "Ada"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)

	var out struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	if err := client.Get(context.Background(), "/api/employees/7", &out); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if out.ID != 7 || out.Name != "Ada" {
		t.Errorf("unexpected payload: %+v", out)
	}
}

func TestClientErrors(t *testing.T) {
	t.Run("HTTPErrorWithServerMessage", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"message": "already exists"}`))
		}))
		defer srv.Close()

		err := NewClient(srv.URL, time.Second).Get(context.Background(), "/x", nil)

		var httpErr *HTTPError
		if !errors.As(err, &httpErr) {
			t.Fatalf("expected HTTPError, got %v", err)
		}
		if httpErr.Status != http.StatusConflict {
			t.Errorf("expected status 409, got %d", httpErr.Status)
		}
		if httpErr.Message != "already exists" {
			t.Errorf("expected server message, got %q", httpErr.Message)
		}
	})

	t.Run("ParseError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer srv.Close()

		var out map[string]any
		err := NewClient(srv.URL, time.Second).Get(context.Background(), "/x", &out)

		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("expected ParseError, got %v", err)
		}
	})

	t.Run("NetworkError", func(t *testing.T) {
		// Server closed before the request: connection refused.
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		err := NewClient(srv.URL, time.Second).Get(context.Background(), "/x", nil)

		var netErr *NetworkError
		if !errors.As(err, &netErr) {
			t.Fatalf("expected NetworkError, got %v", err)
		}
	})

	t.Run("EmptyBodyIsNotParsed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		var out map[string]any
		if err := NewClient(srv.URL, time.Second).Get(context.Background(), "/x", &out); err != nil {
			t.Fatalf("expected nil error for empty body, got %v", err)
		}
	})
}

func TestClientPostEncodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("expected JSON content type, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	err := NewClient(srv.URL, time.Second).Post(context.Background(), "/x", map[string]any{"a": 1}, &out)
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if !out.OK {
		t.Error("response not decoded")
	}
}
