package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/campushall/hallbook-api/internal/listing"
	"github.com/campushall/hallbook-api/internal/models"
	appErrors "github.com/campushall/hallbook-api/pkg/errors"
	"github.com/campushall/hallbook-api/pkg/export"
)

// ExportFormat selects the rendering of a bookings export.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// ExportFile is a rendered document ready to be served as a download.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

type bookingLister interface {
	List(ctx context.Context, q ListBookingsQuery) ([]models.Booking, error)
}

// ExportService renders booking tables into downloadable documents and
// serves the import template.
type ExportService struct {
	bookings bookingLister
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewExportService creates an export service.
func NewExportService(bookings bookingLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		bookings: bookings,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

var bookingExportHeaders = []string{
	"Event Name", "Coordinator", "Organizing Club", "Hall", "Date", "Time", "Department", "Status", "Rejection Reason",
}

// ExportBookings renders the filtered booking table as CSV or PDF. Rows use
// the same derived date/time text the on-screen tables display.
func (s *ExportService) ExportBookings(ctx context.Context, q ListBookingsQuery, format ExportFormat) (*ExportFile, error) {
	bookings, err := s.bookings.List(ctx, q)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{Headers: bookingExportHeaders}
	for _, b := range bookings {
		reason := ""
		if b.RejectionReason != nil {
			reason = *b.RejectionReason
		}
		data.Rows = append(data.Rows, map[string]string{
			"Event Name":       b.EventName,
			"Coordinator":      b.EventManager,
			"Organizing Club":  b.OrganizingClub,
			"Hall":             b.BookedHallName,
			"Date":             listing.DateText(b),
			"Time":             listing.TimeText(b),
			"Department":       b.Department,
			"Status":           string(b.IsApproved),
			"Rejection Reason": reason,
		})
	}

	switch format {
	case FormatCSV:
		content, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{Filename: "bookings.csv", ContentType: "text/csv", Content: content}, nil
	case FormatPDF:
		content, err := s.pdf.Render(data, "Hall Bookings")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{Filename: "bookings.pdf", ContentType: "application/pdf", Content: content}, nil
	}
	return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
}

// ImportTemplate serves the blank CSV the bulk importer expects, header row
// plus one illustrative record.
func (s *ExportService) ImportTemplate() (*ExportFile, error) {
	data := export.Dataset{
		Headers: ImportColumns,
		Rows: []map[string]string{{
			"eventName":      "Orientation Day",
			"eventManager":   "A. Coordinator",
			"organizingClub": "Student Council",
			"bookedHallName": "Room 101",
			"eventDateType":  string(models.DateTypeHalf),
			"eventDate":      "15-09-2026",
			"startTime":      "10:00",
			"endTime":        "12:30",
		}},
	}
	content, err := s.csv.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render template")
	}
	return &ExportFile{Filename: "booking-import-template.csv", ContentType: "text/csv", Content: content}, nil
}

// ParseExportFormat maps a query parameter onto a supported format,
// defaulting to CSV.
func ParseExportFormat(raw string) ExportFormat {
	switch ExportFormat(strings.ToLower(raw)) {
	case FormatPDF:
		return FormatPDF
	}
	return FormatCSV
}
