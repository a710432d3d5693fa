package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushall/hallbook-api/internal/models"
	"github.com/campushall/hallbook-api/internal/service"
	appErrors "github.com/campushall/hallbook-api/pkg/errors"
	"github.com/campushall/hallbook-api/pkg/response"
)

// UserHandler wires HTTP endpoints to the user service.
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a new handler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// List godoc
// @Summary List users
// @Description Returns users ordered by role precedence for the management view
// @Tags Users
// @Produce json
// @Param userType query string false "Filter by user type"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /getuser [get]
func (h *UserHandler) List(c *gin.Context) {
	filter := models.UserFilter{Search: c.Query("q")}
	if raw := c.Query("userType"); raw != "" {
		role := models.UserRole(raw)
		filter.UserType = &role
	}

	users, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"users": users}, nil)
}

// Register godoc
// @Summary Register user
// @Description Create a new account
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body service.RegisterUserRequest true "User payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req service.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid user payload"))
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, user)
}

// Delete godoc
// @Summary Delete user
// @Description Permanently remove an account
// @Tags Users
// @Produce json
// @Param id path string true "User id"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /deleteuser/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
