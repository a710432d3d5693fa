package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushall/hallbook-api/internal/models"
)

type staticBookingLister struct {
	bookings []models.Booking
}

func (s *staticBookingLister) List(ctx context.Context, q ListBookingsQuery) ([]models.Booking, error) {
	return s.bookings, nil
}

func TestExportBookingsCSV(t *testing.T) {
	date := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	lister := &staticBookingLister{bookings: []models.Booking{{
		ID:             "b1",
		EventName:      "Tech Fest",
		EventManager:   "Asha Rao",
		BookedHallName: "Room 101",
		EventDateType:  models.DateTypeHalf,
		EventDate:      &date,
		StartTime:      "10:00",
		EndTime:        "12:30",
		Department:     "CSE",
		IsApproved:     models.StatusApprovedByAdmin,
	}}}
	svc := NewExportService(lister, zap.NewNop())

	file, err := svc.ExportBookings(context.Background(), ListBookingsQuery{}, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "bookings.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)

	body := string(file.Content)
	assert.Contains(t, body, "Tech Fest")
	assert.Contains(t, body, "15-09-2026")
	assert.Contains(t, body, "10:00 AM - 12:30 PM")
	assert.Contains(t, body, "APPROVED_BY_ADMIN")
}

func TestExportBookingsPDF(t *testing.T) {
	svc := NewExportService(&staticBookingLister{}, zap.NewNop())

	file, err := svc.ExportBookings(context.Background(), ListBookingsQuery{}, FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Content, []byte("%PDF")))
}

func TestImportTemplateHeaderRow(t *testing.T) {
	svc := NewExportService(&staticBookingLister{}, zap.NewNop())

	file, err := svc.ImportTemplate()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(file.Content)), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, strings.Join(ImportColumns, ","), strings.TrimSpace(lines[0]))
}

func TestParseExportFormat(t *testing.T) {
	assert.Equal(t, FormatCSV, ParseExportFormat(""))
	assert.Equal(t, FormatCSV, ParseExportFormat("xml"))
	assert.Equal(t, FormatPDF, ParseExportFormat("PDF"))
}
