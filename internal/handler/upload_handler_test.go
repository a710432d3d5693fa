package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushall/hallbook-api/internal/middleware"
	"github.com/campushall/hallbook-api/internal/models"
	"github.com/campushall/hallbook-api/internal/service"
)

type fakeHallByName struct {
	halls map[string]*models.Hall
}

func (f *fakeHallByName) FindByName(ctx context.Context, institution, name string) (*models.Hall, error) {
	if h, ok := f.halls[strings.ToLower(name)]; ok {
		copy := *h
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func newUploadFixture(store *fakeBookingStore, maxBytes int64) *UploadHandler {
	halls := &fakeHallByName{halls: map[string]*models.Hall{
		"room 101": {ID: "h1", Name: "Room 101", Institution: "iiit"},
	}}
	imports := service.NewImportService(store, halls, zap.NewNop())
	exports := service.NewExportService(&noopLister{}, zap.NewNop())
	return NewUploadHandler(imports, exports, nil, maxBytes, time.Minute)
}

type noopLister struct{}

func (noopLister) List(ctx context.Context, q service.ListBookingsQuery) ([]models.Booking, error) {
	return nil, nil
}

func multipartUpload(t *testing.T, filename, content string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("institution", "iiit"))
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodPost, "/upload", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Email: "admin@iiit.ac.in", UserType: models.RoleAdmin})
	return c, w
}

const uploadCSV = `eventName,eventManager,organizingClub,bookedHallName,eventDateType,eventDate,startTime,endTime,eventStartDate,eventEndDate,department
Tech Fest,Asha,,Room 101,full,15-09-2026,,,,,CSE
Workshop,Maya,,Grand Pavilion,full,17-09-2026,,,,,ECE
`

func TestUploadHandlerImportsCSV(t *testing.T) {
	store := &fakeBookingStore{}
	handler := newUploadFixture(store, 1<<20)

	c, w := multipartUpload(t, "bookings.csv", uploadCSV)
	handler.Upload(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data service.ImportResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data.Accepted, 1)
	require.Len(t, envelope.Data.RejectedRows, 1)
	assert.Equal(t, 2, envelope.Data.RejectedRows[0].RowIndex)
	assert.Equal(t, service.RowReasonUnknownHall, envelope.Data.RejectedRows[0].Reason)
	assert.Len(t, store.bookings, 1)
}

func TestUploadHandlerRejectsOversizeFile(t *testing.T) {
	handler := newUploadFixture(&fakeBookingStore{}, 16)

	c, w := multipartUpload(t, "bookings.csv", uploadCSV)
	handler.Upload(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadHandlerRejectsUnknownFormat(t *testing.T) {
	handler := newUploadFixture(&fakeBookingStore{}, 1<<20)

	c, w := multipartUpload(t, "bookings.txt", uploadCSV)
	handler.Upload(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadHandlerTemplate(t *testing.T) {
	handler := newUploadFixture(&fakeBookingStore{}, 1<<20)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodGet, "/upload/template", nil)
	require.NoError(t, err)
	c.Request = req

	handler.Template(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "booking-import-template.csv")
	assert.True(t, strings.HasPrefix(w.Body.String(), "eventName,"))
}
