package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushall/hallbook-api/internal/models"
	"github.com/campushall/hallbook-api/internal/service"
	appErrors "github.com/campushall/hallbook-api/pkg/errors"
	"github.com/campushall/hallbook-api/pkg/response"
)

// HallHandler wires HTTP endpoints to the hall registry.
type HallHandler struct {
	service *service.HallService
}

// NewHallHandler creates a new handler.
func NewHallHandler(svc *service.HallService) *HallHandler {
	return &HallHandler{service: svc}
}

// List godoc
// @Summary List halls
// @Description Returns halls filtered by query, ordered by embedded hall number
// @Tags Halls
// @Produce json
// @Param institution query string false "Institution scope"
// @Param q query string false "Free-text search"
// @Success 200 {object} response.Envelope
// @Router /halls [get]
func (h *HallHandler) List(c *gin.Context) {
	halls, err := h.service.List(c.Request.Context(), models.HallFilter{
		Institution: c.Query("institution"),
		Search:      c.Query("q"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"halls": halls}, nil)
}

// Get godoc
// @Summary Get hall
// @Tags Halls
// @Produce json
// @Param id path string true "Hall id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /halls/{id} [get]
func (h *HallHandler) Get(c *gin.Context) {
	hall, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"hall": hall}, nil)
}

// Create godoc
// @Summary Register hall
// @Description Create a hall; name must be unique within the institution
// @Tags Halls
// @Accept json
// @Produce json
// @Param payload body service.CreateHallRequest true "Hall payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /halls [post]
func (h *HallHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreateHallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid hall payload"))
		return
	}

	hall, err := h.service.Create(c.Request.Context(), req, claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, hall)
}

// Update godoc
// @Summary Update hall
// @Description Edit a hall; creator or master admin only
// @Tags Halls
// @Accept json
// @Produce json
// @Param id path string true "Hall id"
// @Param payload body service.UpdateHallRequest true "Hall payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /halls/{id} [put]
func (h *HallHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.UpdateHallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid hall payload"))
		return
	}

	hall, err := h.service.Update(c.Request.Context(), c.Param("id"), req, claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"hall": hall}, nil)
}

// Delete godoc
// @Summary Delete hall
// @Description Delete a hall; refused while active bookings reference it
// @Tags Halls
// @Produce json
// @Param id path string true "Hall id"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /halls/{id} [delete]
func (h *HallHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claims.Email); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
