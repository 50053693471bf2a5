package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stafflink/internal/api"
	"stafflink/internal/models"
)

func TestListAttendance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/attendance/5" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode([]models.AttendanceRecord{
			{ID: 1, EmployeeID: 5, Date: "2024-03-01", CheckIn: "09:02", CheckOut: "17:31"},
			{ID: 2, EmployeeID: 5, Date: "2024-03-02", CheckIn: "08:55"},
		})
	}))
	defer srv.Close()

	records, err := NewService(api.NewClient(srv.URL, time.Second)).ListAttendance(context.Background(), 5)
	if err != nil {
		t.Fatalf("ListAttendance failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Date != "2024-03-01" {
		t.Errorf("order not preserved: %+v", records)
	}
}

func TestApplyLeave(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var request models.LeaveRequest
		_ = json.NewDecoder(r.Body).Decode(&request)
		request.ID = 42
		request.Status = "pending"
		_ = json.NewEncoder(w).Encode(request)
	}))
	defer srv.Close()

	service := NewService(api.NewClient(srv.URL, time.Second))

	t.Run("Valid", func(t *testing.T) {
		created, err := service.ApplyLeave(context.Background(), models.LeaveRequest{
			EmployeeID: 5,
			Type:       "annual",
			StartDate:  "2024-04-01",
			EndDate:    "2024-04-05",
		})
		if err != nil {
			t.Fatalf("ApplyLeave failed: %v", err)
		}
		if created.ID != 42 || created.Status != "pending" {
			t.Errorf("server record not returned: %+v", created)
		}
	})

	invalid := []struct {
		name    string
		request models.LeaveRequest
	}{
		{"MissingType", models.LeaveRequest{StartDate: "2024-04-01", EndDate: "2024-04-02"}},
		{"BlankType", models.LeaveRequest{Type: "  ", StartDate: "2024-04-01", EndDate: "2024-04-02"}},
		{"MissingDates", models.LeaveRequest{Type: "annual"}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.ApplyLeave(context.Background(), tt.request)
			var validationErr *api.ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}
