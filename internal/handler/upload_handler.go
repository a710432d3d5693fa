package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campushall/hallbook-api/internal/service"
	appErrors "github.com/campushall/hallbook-api/pkg/errors"
	"github.com/campushall/hallbook-api/pkg/response"
)

// UploadHandler accepts spreadsheet uploads for the bulk import reconciler.
type UploadHandler struct {
	imports  *service.ImportService
	exports  *service.ExportService
	metrics  *service.MetricsService
	maxBytes int64
	timeout  time.Duration
}

// NewUploadHandler creates a new handler. maxBytes caps the accepted file
// size; timeout bounds one import batch. metrics may be nil.
func NewUploadHandler(imports *service.ImportService, exports *service.ExportService, metrics *service.MetricsService, maxBytes int64, timeout time.Duration) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &UploadHandler{imports: imports, exports: exports, metrics: metrics, maxBytes: maxBytes, timeout: timeout}
}

// Upload godoc
// @Summary Import bookings from spreadsheet
// @Description Parse an .xlsx or .csv upload; valid rows become REQUEST_SENT bookings, rejected rows are reported per row
// @Tags Import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Spreadsheet file"
// @Param institution formData string false "Institution scope"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "file field required"))
		return
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file exceeds %d bytes", h.maxBytes)))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	result, err := h.imports.ImportFile(ctx, header.Filename, file, c.PostForm("institution"), claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordImport(len(result.Accepted), len(result.RejectedRows))
	response.JSON(c, http.StatusOK, result, nil, map[string]interface{}{
		"message": fmt.Sprintf("%d rows imported, %d rejected", len(result.Accepted), len(result.RejectedRows)),
	})
}

// Template godoc
// @Summary Download import template
// @Description Blank CSV with the header row the importer expects
// @Tags Import
// @Produce text/csv
// @Success 200 {file} binary
// @Router /upload/template [get]
func (h *UploadHandler) Template(c *gin.Context) {
	file, err := h.exports.ImportTemplate()
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
