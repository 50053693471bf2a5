package directory

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"stafflink/internal/api"
	"stafflink/internal/models"
)

func TestListDepartmentPeers(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		if r.URL.Path != "/api/employees/department/Engineering" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 7, "name": "Grace", "surname": "Hopper", "role": "developer"},
			{"id": 5, "name": "Ada", "surname": "Lovelace", "role": "developer"},
			{"id": 3, "name": "Alan", "surname": "Turing", "role": "lead"},
			{"id": 9, "name": "Edsger", "surname": "Dijkstra", "role": "developer"}
		]`))
	}))
	defer srv.Close()

	self := models.Identity{ID: 5, Department: "Engineering"}
	provider := NewProvider(context.Background(), api.NewClient(srv.URL, time.Second), time.Minute)

	peers, err := provider.ListDepartmentPeers(context.Background(), self)
	if err != nil {
		t.Fatalf("ListDepartmentPeers failed: %v", err)
	}

	if len(peers) != 3 {
		t.Fatalf("expected 3 peers excluding self, got %d", len(peers))
	}

	// Server order must be preserved after the self-exclusion.
	expected := []int64{7, 3, 9}
	for i, id := range expected {
		if peers[i].ID != id {
			t.Errorf("index %d: expected peer %d, got %d", i, id, peers[i].ID)
		}
	}

	t.Run("SecondCallServedFromCache", func(t *testing.T) {
		if _, err := provider.ListDepartmentPeers(context.Background(), self); err != nil {
			t.Fatalf("cached call failed: %v", err)
		}
		if got := atomic.LoadInt64(&calls); got != 1 {
			t.Errorf("expected 1 upstream call, got %d", got)
		}
	})

	t.Run("CacheSharedAcrossIdentities", func(t *testing.T) {
		other := models.Identity{ID: 7, Department: "Engineering"}
		peers, err := provider.ListDepartmentPeers(context.Background(), other)
		if err != nil {
			t.Fatalf("ListDepartmentPeers failed: %v", err)
		}
		for _, peer := range peers {
			if peer.ID == 7 {
				t.Error("self not excluded for second identity")
			}
		}
		if got := atomic.LoadInt64(&calls); got != 1 {
			t.Errorf("expected cache hit, got %d upstream calls", got)
		}
	})
}

func TestListDepartmentPeersErrors(t *testing.T) {
	t.Run("MissingDepartment", func(t *testing.T) {
		provider := NewProvider(context.Background(), api.NewClient("http://localhost:0", time.Second), time.Minute)

		_, err := provider.ListDepartmentPeers(context.Background(), models.Identity{ID: 1})

		var validationErr *api.ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("expected ValidationError, got %v", err)
		}
	})

	t.Run("NonListPayload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error": "wrapped object"}`))
		}))
		defer srv.Close()

		provider := NewProvider(context.Background(), api.NewClient(srv.URL, time.Second), time.Minute)
		_, err := provider.ListDepartmentPeers(context.Background(), models.Identity{ID: 1, Department: "HR"})

		var parseErr *api.ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("expected ParseError, got %v", err)
		}
	})

	t.Run("UpstreamFailure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		provider := NewProvider(context.Background(), api.NewClient(srv.URL, time.Second), time.Minute)
		_, err := provider.ListDepartmentPeers(context.Background(), models.Identity{ID: 1, Department: "HR"})

		var httpErr *api.HTTPError
		if !errors.As(err, &httpErr) {
			t.Errorf("expected HTTPError, got %v", err)
		}
	})
}

func TestListMessagingPeersUsesVariantEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/employees/department-messages/Engineering" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	provider := NewProvider(context.Background(), api.NewClient(srv.URL, time.Second), time.Minute)
	if _, err := provider.ListMessagingPeers(context.Background(), models.Identity{ID: 5, Department: "Engineering"}); err != nil {
		t.Fatalf("ListMessagingPeers failed: %v", err)
	}
}
