package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/taskmanager-pro/service-booking-api/internal/models"
	appErrors "github.com/taskmanager-pro/service-booking-api/pkg/errors"
	"github.com/taskmanager-pro/service-booking-api/pkg/export"
)

// ExportFormat selects the booking report output encoding.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// Report is a rendered booking export ready to stream to the client.
type Report struct {
	FileName    string
	ContentType string
	Content     []byte
}

type bookingLister interface {
	List(ctx context.Context, filter models.BookingFilter) ([]models.BookingDetail, int, error)
}

// ReportService renders admin booking exports.
type ReportService struct {
	bookings bookingLister
	logger   *zap.Logger
}

// NewReportService constructs a ReportService.
func NewReportService(bookings bookingLister, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{bookings: bookings, logger: logger}
}

// ExportBookings renders the booking listing in the requested format.
func (s *ReportService) ExportBookings(ctx context.Context, identity models.Identity, status *models.BookingStatus, format ExportFormat) (*Report, error) {
	if err := requireRole(identity, models.RoleAdmin); err != nil {
		return nil, err
	}
	if format != FormatCSV && format != FormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown export format, expected csv or pdf")
	}
	if status != nil && !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown booking status")
	}

	// Exports are unpaginated within the repository's hard page cap.
	filter := models.BookingFilter{Status: status, Page: 1, PageSize: 100}
	var rows [][]string
	for {
		bookings, total, err := s.bookings.List(ctx, filter)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bookings")
		}
		for _, b := range bookings {
			rows = append(rows, bookingRow(b))
		}
		if filter.Page*filter.PageSize >= total || len(bookings) == 0 {
			break
		}
		filter.Page++
	}

	table := export.Table{
		Title:   "Booking Report",
		Columns: []string{"Booking ID", "Customer", "Worker", "Category", "Date", "Time", "Status", "Amount"},
		Rows:    rows,
	}

	var content []byte
	var contentType, ext string
	var err error
	switch format {
	case FormatCSV:
		content, err = export.RenderCSV(table)
		contentType, ext = "text/csv", "csv"
	case FormatPDF:
		content, err = export.RenderPDF(table)
		contentType, ext = "application/pdf", "pdf"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	s.logger.Info("booking report exported",
		zap.String("format", string(format)),
		zap.Int("rows", len(rows)),
		zap.String("admin_id", identity.UserID))

	name := fmt.Sprintf("bookings-%s.%s", time.Now().UTC().Format("20060102-150405"), ext)
	return &Report{FileName: name, ContentType: contentType, Content: content}, nil
}

func bookingRow(b models.BookingDetail) []string {
	worker := ""
	if b.WorkerName != nil {
		worker = *b.WorkerName
	}
	category := ""
	if b.CategoryName != nil {
		category = *b.CategoryName
	}
	return []string{
		b.ID,
		b.CustomerName,
		worker,
		category,
		b.ServiceDate,
		b.ServiceTime,
		string(b.Status),
		strconv.FormatFloat(b.TotalAmount, 'f', 2, 64),
	}
}
