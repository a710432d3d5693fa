package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/campushall/hallbook-api/internal/models"
	appErrors "github.com/campushall/hallbook-api/pkg/errors"
)

type mockHallNames struct {
	halls map[string]*models.Hall
}

func (m *mockHallNames) FindByName(ctx context.Context, institution, name string) (*models.Hall, error) {
	if h, ok := m.halls[strings.ToLower(name)]; ok && h.Institution == institution {
		copy := *h
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func newImportService(repo *mockBookingRepo) *ImportService {
	halls := &mockHallNames{halls: map[string]*models.Hall{
		"room 101": {ID: "h1", Name: "Room 101", Institution: "iiit"},
		"room 102": {ID: "h2", Name: "Room 102", Institution: "iiit"},
	}}
	return NewImportService(repo, halls, zap.NewNop())
}

const importHeader = "eventName,eventManager,organizingClub,bookedHallName,eventDateType,eventDate,startTime,endTime,eventStartDate,eventEndDate,department"

func csvFile(rows ...string) *strings.Reader {
	return strings.NewReader(importHeader + "\n" + strings.Join(rows, "\n") + "\n")
}

func TestImportRejectsUnknownHallRowOnly(t *testing.T) {
	repo := &mockBookingRepo{}
	svc := newImportService(repo)

	file := csvFile(
		"Tech Fest,Asha,,Room 101,full,15-09-2026,,,,,CSE",
		"Guest Talk,Ravi,,Room 102,full,16-09-2026,,,,,CSE",
		"Workshop,Maya,,Grand Pavilion,full,17-09-2026,,,,,ECE",
		"Seminar,Kiran,,Room 101,half,18-09-2026,10:00,12:30,,,CSE",
		"Hackathon,Devi,,Room 102,multiple,,,,19-09-2026,21-09-2026,CSE",
	)

	result, err := svc.ImportFile(context.Background(), "bookings.csv", file, "iiit", "admin@iiit.ac.in")
	require.NoError(t, err)
	assert.Len(t, result.Accepted, 4)
	require.Len(t, result.RejectedRows, 1)
	assert.Equal(t, 3, result.RejectedRows[0].RowIndex)
	assert.Equal(t, RowReasonUnknownHall, result.RejectedRows[0].Reason)

	for _, b := range result.Accepted {
		assert.Equal(t, models.StatusRequestSent, b.IsApproved)
		assert.Equal(t, "admin@iiit.ac.in", b.RequestedBy)
	}
	assert.Equal(t, 4, repo.createN)
}

func TestImportRowReasons(t *testing.T) {
	cases := []struct {
		name   string
		row    string
		reason string
	}{
		{"missing event name", ",Asha,,Room 101,full,15-09-2026,,,,,CSE", RowReasonMissingField},
		{"missing date type", "Tech Fest,Asha,,Room 101,,15-09-2026,,,,,CSE", RowReasonMissingField},
		{"unknown date type", "Tech Fest,Asha,,Room 101,weekly,15-09-2026,,,,,CSE", RowReasonUnknownDateType},
		{"unparseable date", "Tech Fest,Asha,,Room 101,full,2026-09-15,,,,,CSE", RowReasonInvalidDate},
		{"half day without times", "Tech Fest,Asha,,Room 101,half,15-09-2026,,,,,CSE", RowReasonInvalidDate},
		{"range end before start", "Tech Fest,Asha,,Room 101,multiple,,,,21-09-2026,19-09-2026,CSE", RowReasonInvalidDate},
		{"unknown hall", "Tech Fest,Asha,,Nowhere,full,15-09-2026,,,,,CSE", RowReasonUnknownHall},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockBookingRepo{}
			svc := newImportService(repo)

			result, err := svc.ImportFile(context.Background(), "bookings.csv", csvFile(tc.row), "iiit", "admin@iiit.ac.in")
			require.NoError(t, err)
			assert.Empty(t, result.Accepted)
			require.Len(t, result.RejectedRows, 1)
			assert.Equal(t, 1, result.RejectedRows[0].RowIndex)
			assert.Equal(t, tc.reason, result.RejectedRows[0].Reason)
			assert.Zero(t, repo.createN)
		})
	}
}

func TestImportUnsupportedExtension(t *testing.T) {
	svc := newImportService(&mockBookingRepo{})

	_, err := svc.ImportFile(context.Background(), "bookings.txt", csvFile(), "iiit", "admin@iiit.ac.in")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMalformedFile.Code, appErrors.FromError(err).Code)
}

func TestImportMalformedCSV(t *testing.T) {
	svc := newImportService(&mockBookingRepo{})

	file := strings.NewReader(`eventName,"unterminated`)
	_, err := svc.ImportFile(context.Background(), "bookings.csv", file, "iiit", "admin@iiit.ac.in")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrMalformedFile.Code, appErrors.FromError(err).Code)
}

func TestImportHonoursCancellation(t *testing.T) {
	repo := &mockBookingRepo{}
	svc := newImportService(repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.ImportFile(ctx, "bookings.csv", csvFile("Tech Fest,Asha,,Room 101,full,15-09-2026,,,,,CSE"), "iiit", "admin@iiit.ac.in")
	require.Error(t, err)
	assert.Zero(t, repo.createN)
}

func TestImportReadsWorkbook(t *testing.T) {
	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	require.NoError(t, book.SetSheetRow(sheet, "A1", &[]interface{}{
		"eventName", "eventManager", "organizingClub", "bookedHallName",
		"eventDateType", "eventDate", "startTime", "endTime",
		"eventStartDate", "eventEndDate", "department",
	}))
	require.NoError(t, book.SetSheetRow(sheet, "A2", &[]interface{}{
		"Tech Fest", "Asha", "", "Room 101", "full", "15-09-2026", "", "", "", "", "CSE",
	}))

	buf, err := book.WriteToBuffer()
	require.NoError(t, err)

	repo := &mockBookingRepo{}
	svc := newImportService(repo)

	result, err := svc.ImportFile(context.Background(), "bookings.xlsx", buf, "iiit", "admin@iiit.ac.in")
	require.NoError(t, err)
	require.Len(t, result.Accepted, 1)
	assert.Empty(t, result.RejectedRows)
	assert.Equal(t, "Tech Fest", result.Accepted[0].EventName)
}
