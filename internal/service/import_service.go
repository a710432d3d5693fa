package service

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/campushall/hallbook-api/internal/listing"
	"github.com/campushall/hallbook-api/internal/models"
	appErrors "github.com/campushall/hallbook-api/pkg/errors"
)

// Row-level rejection reasons. The batch always completes; these are
// reported, never thrown.
const (
	RowReasonMissingField    = "MissingField"
	RowReasonUnknownDateType = "UnknownDateType"
	RowReasonInvalidDate     = "InvalidDate"
	RowReasonUnknownHall     = "UnknownHall"
)

// ImportColumns is the expected header row of an upload, also served as the
// downloadable template.
var ImportColumns = []string{
	"eventName", "eventManager", "organizingClub", "bookedHallName",
	"eventDateType", "eventDate", "startTime", "endTime",
	"eventStartDate", "eventEndDate", "department",
}

// RejectedRow reports one row the reconciler refused. RowIndex is 1-based
// over the data rows, the header excluded.
type RejectedRow struct {
	RowIndex int    `json:"rowIndex"`
	Reason   string `json:"reason"`
}

// ImportResult is the outcome of one upload: what landed and what was
// refused, row by row.
type ImportResult struct {
	Accepted     []models.Booking `json:"accepted"`
	RejectedRows []RejectedRow    `json:"rejectedRows"`
}

type importHallResolver interface {
	FindByName(ctx context.Context, institution, name string) (*models.Hall, error)
}

// ImportService reconciles spreadsheet uploads into booking records. Rows
// are validated independently: a bad row never blocks the valid rows around
// it, and rows accepted before a later failure stay in the store.
type ImportService struct {
	bookings bookingStore
	halls    importHallResolver
	logger   *zap.Logger
}

// NewImportService creates an import service.
func NewImportService(bookings bookingStore, halls importHallResolver, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{bookings: bookings, halls: halls, logger: logger}
}

// ImportFile parses an uploaded .xlsx or .csv file and inserts every valid
// row as a REQUEST_SENT booking on behalf of requestedBy. It fails outright
// only when the file cannot be read as tabular data; per-row failures are
// collected in the result.
func (s *ImportService) ImportFile(ctx context.Context, filename string, r io.Reader, institution, requestedBy string) (*ImportResult, error) {
	rows, err := readTable(filename, r)
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, appErrors.ErrMalformedFile
	}

	columns := headerIndex(rows[0])
	result := &ImportResult{}

	for i, row := range rows[1:] {
		// Uploads are user-controlled input: honour cancellation between rows
		// so a caller-imposed timeout bounds the batch.
		if err := ctx.Err(); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "import cancelled")
		}

		rowIndex := i + 1
		booking, reason, err := s.reconcileRow(ctx, columns, row, institution, requestedBy)
		if err != nil {
			return nil, err
		}
		if reason != "" {
			result.RejectedRows = append(result.RejectedRows, RejectedRow{RowIndex: rowIndex, Reason: reason})
			continue
		}
		if err := s.bookings.Create(ctx, booking); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store imported booking")
		}
		result.Accepted = append(result.Accepted, *booking)
	}

	s.logger.Info("import_completed",
		zap.String("filename", filename),
		zap.Int("accepted", len(result.Accepted)),
		zap.Int("rejected", len(result.RejectedRows)))
	return result, nil
}

// reconcileRow validates one candidate booking. A non-empty reason means the
// row is rejected; a non-nil error aborts the batch (store failures only).
func (s *ImportService) reconcileRow(ctx context.Context, columns map[string]int, row []string, institution, requestedBy string) (*models.Booking, string, error) {
	cell := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	eventName := cell("eventname")
	eventManager := cell("eventmanager")
	hallName := cell("bookedhallname")
	rawType := cell("eventdatetype")
	if eventName == "" || eventManager == "" || hallName == "" || rawType == "" {
		return nil, RowReasonMissingField, nil
	}

	dateType := models.DateType(strings.ToLower(rawType))
	if !dateType.Valid() {
		return nil, RowReasonUnknownDateType, nil
	}

	spec, ok := parseRowDates(dateType, cell)
	if !ok {
		return nil, RowReasonInvalidDate, nil
	}

	hall, err := s.halls.FindByName(ctx, institution, hallName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, RowReasonUnknownHall, nil
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve hall")
	}

	booking := &models.Booking{
		EventName:      eventName,
		EventManager:   eventManager,
		OrganizingClub: cell("organizingclub"),
		BookedHallID:   hall.ID,
		BookedHallName: hall.Name,
		Institution:    institution,
		Department:     cell("department"),
		IsApproved:     models.StatusRequestSent,
		RequestedBy:    requestedBy,
	}
	booking.ApplyDateSpec(spec)
	return booking, "", nil
}

// parseRowDates builds the DateSpec the declared type requires. Any
// missing or unparseable date field of that type rejects the row.
func parseRowDates(dateType models.DateType, cell func(string) string) (models.DateSpec, bool) {
	spec := models.DateSpec{Type: dateType}

	switch dateType {
	case models.DateTypeFull, models.DateTypeHalf:
		date, err := listing.ParseDate(cell("eventdate"))
		if err != nil {
			return spec, false
		}
		spec.Date = &date
		if dateType == models.DateTypeHalf {
			start, err := listing.ParseClock(cell("starttime"))
			if err != nil {
				return spec, false
			}
			end, err := listing.ParseClock(cell("endtime"))
			if err != nil {
				return spec, false
			}
			spec.StartTime = start
			spec.EndTime = end
		}
	case models.DateTypeMultiple:
		start, err := listing.ParseDate(cell("eventstartdate"))
		if err != nil {
			return spec, false
		}
		end, err := listing.ParseDate(cell("eventenddate"))
		if err != nil {
			return spec, false
		}
		if end.Before(start) {
			return spec, false
		}
		spec.StartDate = &start
		spec.EndDate = &end
	}
	return spec, true
}

// readTable extracts the raw cell grid from an upload. Only the first sheet
// of a workbook is read.
func readTable(filename string, r io.Reader) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return readWorkbook(r)
	case ".csv":
		return readCSV(r)
	}
	return nil, appErrors.ErrMalformedFile
}

func readWorkbook(r io.Reader) ([][]string, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, appErrors.ErrMalformedFile
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, appErrors.ErrMalformedFile
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, appErrors.ErrMalformedFile
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, appErrors.ErrMalformedFile
	}
	return rows, nil
}

// headerIndex maps lowercased header names onto column positions.
func headerIndex(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if key != "" {
			columns[key] = i
		}
	}
	return columns
}
