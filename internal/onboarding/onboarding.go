package onboarding

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"

	"stafflink/internal/api"
	"stafflink/internal/models"

	"github.com/h2non/filetype"
)

// DefaultPageSize matches the review screens: five submissions per page.
const DefaultPageSize = 5

// Service is the HR-side onboarding review client: list submissions, filter
// by status, approve/reject, and push detail edits with document uploads.
type Service struct {
	api      *api.Client
	pageSize int
}

func NewService(client *api.Client, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{api: client, pageSize: pageSize}
}

// List fetches every onboarding submission. Filtering happens client-side;
// the list reflects the last successful fetch, nothing more.
func (s *Service) List(ctx context.Context) ([]models.OnboardingRecord, error) {
	var records []models.OnboardingRecord
	if err := s.api.Get(ctx, "/api/onboarding", &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ListPending returns submissions still awaiting review.
func (s *Service) ListPending(ctx context.Context) ([]models.OnboardingRecord, error) {
	return s.listByStatus(ctx, models.OnboardingPending)
}

// ListApproved returns submissions already accepted.
func (s *Service) ListApproved(ctx context.Context) ([]models.OnboardingRecord, error) {
	return s.listByStatus(ctx, models.OnboardingApproved)
}

func (s *Service) listByStatus(ctx context.Context, status int) ([]models.OnboardingRecord, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var filtered []models.OnboardingRecord
	for _, record := range all {
		if record.Onboarded == status {
			filtered = append(filtered, record)
		}
	}
	return filtered, nil
}

// Page slices one page out of records. Pages are 1-based; out-of-range pages
// yield an empty slice.
func (s *Service) Page(records []models.OnboardingRecord, page int) []models.OnboardingRecord {
	if page < 1 {
		return nil
	}
	start := (page - 1) * s.pageSize
	if start >= len(records) {
		return nil
	}
	end := start + s.pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

// Pages returns how many pages records spans.
func (s *Service) Pages(records []models.OnboardingRecord) int {
	return (len(records) + s.pageSize - 1) / s.pageSize
}

// Approve accepts a submission.
func (s *Service) Approve(ctx context.Context, id int64) error {
	return s.api.Put(ctx, fmt.Sprintf("/api/onboarding/%d/approve", id), nil, nil)
}

// Reject declines a submission.
func (s *Service) Reject(ctx context.Context, id int64) error {
	return s.api.Put(ctx, fmt.Sprintf("/api/onboarding/%d/reject", id), nil, nil)
}

// Document is one file attached to a detail update.
type Document struct {
	Field    string
	FileName string
	Data     []byte
}

// UpdateDetails pushes edited fields and uploaded documents for a submission
// as one multipart request. Each document's content type is sniffed from its
// bytes rather than trusted from the file name.
func (s *Service) UpdateDetails(ctx context.Context, id int64, fields map[string]string, documents []Document) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return fmt.Errorf("failed to write field %s: %w", name, err)
		}
	}

	for _, document := range documents {
		if len(document.Data) == 0 {
			return &api.ValidationError{Reason: "empty document " + document.FileName}
		}

		contentType := "application/octet-stream"
		if kind, err := filetype.Match(document.Data); err == nil && kind != filetype.Unknown {
			contentType = kind.MIME.Value
		}

		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, document.Field, document.FileName))
		header.Set("Content-Type", contentType)

		part, err := writer.CreatePart(header)
		if err != nil {
			return fmt.Errorf("failed to create part for %s: %w", document.FileName, err)
		}
		if _, err := part.Write(document.Data); err != nil {
			return fmt.Errorf("failed to write document %s: %w", document.FileName, err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize upload: %w", err)
	}

	path := fmt.Sprintf("/api/onboarding/%d", id)
	return s.api.DoReader(ctx, "PUT", path, writer.FormDataContentType(), &body, nil)
}
