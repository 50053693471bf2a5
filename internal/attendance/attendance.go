package attendance

import (
	"context"
	"fmt"
	"strings"

	"stafflink/internal/api"
	"stafflink/internal/models"
)

// Service reads attendance and leave records and submits leave requests.
// Thin by design: every call is a single upstream round trip and the local
// view just reflects the last successful fetch.
type Service struct {
	api *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{api: client}
}

// ListAttendance returns the employee's attendance records in server order.
func (s *Service) ListAttendance(ctx context.Context, employeeID int64) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	path := fmt.Sprintf("/api/attendance/%d", employeeID)
	if err := s.api.Get(ctx, path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ListLeave returns the employee's leave requests in server order.
func (s *Service) ListLeave(ctx context.Context, employeeID int64) ([]models.LeaveRequest, error) {
	var requests []models.LeaveRequest
	path := fmt.Sprintf("/api/leaves/%d", employeeID)
	if err := s.api.Get(ctx, path, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// ApplyLeave submits a new leave request and returns the created record.
func (s *Service) ApplyLeave(ctx context.Context, request models.LeaveRequest) (models.LeaveRequest, error) {
	if strings.TrimSpace(request.Type) == "" {
		return models.LeaveRequest{}, &api.ValidationError{Reason: "leave type is required"}
	}
	if request.StartDate == "" || request.EndDate == "" {
		return models.LeaveRequest{}, &api.ValidationError{Reason: "leave dates are required"}
	}

	var created models.LeaveRequest
	if err := s.api.Post(ctx, "/api/leaves", request, &created); err != nil {
		return models.LeaveRequest{}, err
	}
	return created, nil
}
