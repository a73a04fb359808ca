package reports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fdg312/eatpal/internal/blob"
	"github.com/fdg312/eatpal/internal/storage"
	"github.com/google/uuid"
)

// Service handles reports business logic
type Service struct {
	reportsStorage  storage.ReportsStorage
	generator       *Generator
	blobStore       blob.Store
	maxRangeDays    int
	presignTTL      int
	localMode       bool   // true if no S3 configured
	publicBaseURL   string // S3 public base URL (if prefer_public_url mode)
	preferPublicURL bool   // if true, use public URLs instead of presigned
}

// NewService creates a new reports service
func NewService(
	reportsStorage storage.ReportsStorage,
	diaryStorage storage.DiaryStorage,
	goals GoalSource,
	blobStore blob.Store,
	maxRangeDays int,
	presignTTL int,
	publicBaseURL string,
	preferPublicURL bool,
) *Service {
	generator := NewGenerator(diaryStorage, goals)

	localMode := (blobStore == nil)

	return &Service{
		reportsStorage:  reportsStorage,
		generator:       generator,
		blobStore:       blobStore,
		maxRangeDays:    maxRangeDays,
		presignTTL:      presignTTL,
		localMode:       localMode,
		publicBaseURL:   publicBaseURL,
		preferPublicURL: preferPublicURL,
	}
}

// CreateReport creates a new report
func (s *Service) CreateReport(ctx context.Context, userID string, req CreateReportRequest) (*Report, error) {
	// Validate format
	if req.Format != FormatPDF && req.Format != FormatCSV {
		return nil, ErrInvalidFormat
	}

	// Validate dates
	fromDate, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		return nil, ErrInvalidDate
	}

	toDate, err := time.Parse("2006-01-02", req.To)
	if err != nil {
		return nil, ErrInvalidDate
	}

	if fromDate.After(toDate) {
		return nil, ErrInvalidDateRange
	}

	// Check max range
	daysDiff := int(toDate.Sub(fromDate).Hours() / 24)
	if daysDiff > s.maxRangeDays {
		return nil, ErrRangeTooLarge
	}

	// Generate report
	data, err := s.generator.GenerateReport(ctx, userID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}

	// Create report metadata
	report := &storage.ReportMeta{
		UserID:    userID,
		Format:    req.Format,
		FromDate:  req.From,
		ToDate:    req.To,
		SizeBytes: int64(len(data)),
		Status:    StatusReady,
	}

	// Upload to S3 or store locally
	if s.localMode {
		// Local mode: store data in memory
		report.Data = data
	} else {
		// S3 mode: upload to object storage
		objectKey := fmt.Sprintf("reports/%s/%s_%s_%s.%s",
			userID,
			req.From,
			req.To,
			uuid.New().String(),
			req.Format,
		)

		contentType := "application/pdf"
		if req.Format == FormatCSV {
			contentType = "text/csv"
		}

		_, err = s.blobStore.PutObject(ctx, objectKey, data, contentType)
		if err != nil {
			return nil, fmt.Errorf("failed to upload to S3: %w", err)
		}

		report.ObjectKey = &objectKey
	}

	// Save metadata
	if err := s.reportsStorage.CreateReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to save report metadata: %w", err)
	}

	// Convert to Report model
	return s.toReport(report), nil
}

// GetReport retrieves a report by ID
func (s *Service) GetReport(ctx context.Context, userID string, id uuid.UUID) (*Report, error) {
	meta, err := s.ownedReport(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	return s.toReport(meta), nil
}

// ListReports lists reports for a user
func (s *Service) ListReports(ctx context.Context, userID string, limit, offset int) ([]Report, error) {
	metaList, err := s.reportsStorage.ListReports(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	reports := make([]Report, len(metaList))
	for i, meta := range metaList {
		reports[i] = *s.toReport(&meta)
	}

	return reports, nil
}

// DeleteReport deletes a report
func (s *Service) DeleteReport(ctx context.Context, userID string, id uuid.UUID) error {
	meta, err := s.ownedReport(ctx, userID, id)
	if err != nil {
		return err
	}

	// Delete from S3 if applicable
	if !s.localMode && meta.ObjectKey != nil {
		if err := s.blobStore.DeleteObject(ctx, *meta.ObjectKey); err != nil {
			// Log but don't fail - metadata deletion is more important
			fmt.Printf("warning: failed to delete S3 object: %v\n", err)
		}
	}

	// Delete metadata
	if err := s.reportsStorage.DeleteReport(ctx, id); err != nil {
		return fmt.Errorf("failed to delete report metadata: %w", err)
	}

	return nil
}

// GetReportDownloadURL generates a download URL for a report
func (s *Service) GetReportDownloadURL(ctx context.Context, userID string, id uuid.UUID, baseURL string) (string, error) {
	meta, err := s.ownedReport(ctx, userID, id)
	if err != nil {
		return "", err
	}

	if s.localMode {
		// Local mode: return direct download endpoint
		return fmt.Sprintf("%s/v1/reports/%s/download", strings.TrimSuffix(baseURL, "/"), id.String()), nil
	}

	// S3 mode
	if meta.ObjectKey == nil {
		return "", fmt.Errorf("object key is missing")
	}

	// If prefer public URL mode, construct public URL directly
	if s.preferPublicURL && s.publicBaseURL != "" {
		publicURL := strings.TrimSuffix(s.publicBaseURL, "/") + "/" + *meta.ObjectKey
		return publicURL, nil
	}

	// Otherwise, generate presigned URL
	presignedURL, err := s.blobStore.PresignGet(ctx, *meta.ObjectKey, s.presignTTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return presignedURL, nil
}

// GetReportData retrieves the raw report data (for local mode download)
func (s *Service) GetReportData(ctx context.Context, userID string, id uuid.UUID) ([]byte, string, error) {
	meta, err := s.ownedReport(ctx, userID, id)
	if err != nil {
		return nil, "", err
	}

	contentType := "application/pdf"
	if meta.Format == FormatCSV {
		contentType = "text/csv"
	}

	if s.localMode {
		// Return data from memory
		return meta.Data, contentType, nil
	}

	// S3 mode: download goes through the presigned URL redirect
	return nil, contentType, fmt.Errorf("S3 mode should use presigned URL redirect")
}

// ownedReport loads report metadata and hides reports of other users.
func (s *Service) ownedReport(ctx context.Context, userID string, id uuid.UUID) (*storage.ReportMeta, error) {
	meta, err := s.reportsStorage.GetReport(ctx, id)
	if err != nil {
		return nil, ErrReportNotFound
	}
	if meta.UserID != userID {
		return nil, ErrReportNotFound
	}
	return meta, nil
}

// toReport converts ReportMeta to Report model
func (s *Service) toReport(meta *storage.ReportMeta) *Report {
	return &Report{
		ID:        meta.ID,
		UserID:    meta.UserID,
		Format:    meta.Format,
		FromDate:  meta.FromDate,
		ToDate:    meta.ToDate,
		ObjectKey: meta.ObjectKey,
		SizeBytes: meta.SizeBytes,
		Status:    meta.Status,
		Error:     meta.Error,
		CreatedAt: meta.CreatedAt,
		UpdatedAt: meta.UpdatedAt,
		Data:      meta.Data,
	}
}

// Errors
var (
	ErrInvalidFormat    = fmt.Errorf("invalid format")
	ErrInvalidDate      = fmt.Errorf("invalid date format")
	ErrInvalidDateRange = fmt.Errorf("from date must be before to date")
	ErrRangeTooLarge    = fmt.Errorf("date range too large")
	ErrReportNotFound   = fmt.Errorf("report not found")
)
