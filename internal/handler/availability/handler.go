package availability

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/telecare/scheduling-api/internal/model"
	"github.com/telecare/scheduling-api/internal/service/availability"
	apperrors "github.com/telecare/scheduling-api/pkg/errors"
	"github.com/telecare/scheduling-api/pkg/httputil"
)

type Handler struct {
	service *availability.Service
}

func NewHandler(service *availability.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	windows := r.Group("/availability")
	{
		windows.POST("", h.SetAvailability)
		windows.GET("/:id", h.GetWindow)
		windows.DELETE("/:id", h.DeleteAvailability)
	}
	r.GET("/doctors/:id/availability", h.GetDoctorAvailability)
}

// SetAvailability creates a window, or updates one in place when the
// request carries an availability_id.
func (h *Handler) SetAvailability(c *gin.Context) {
	var req model.SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	window, err := h.service.SetAvailability(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if req.AvailabilityID != nil {
		httputil.RespondWithSuccess(c, window)
		return
	}
	httputil.RespondWithCreated(c, window)
}

func (h *Handler) GetWindow(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid availability ID"))
		return
	}

	window, err := h.service.GetWindow(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, window)
}

func (h *Handler) DeleteAvailability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid availability ID"))
		return
	}

	if err := h.service.DeleteAvailability(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) GetDoctorAvailability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid doctor ID"))
		return
	}

	windows, err := h.service.GetAvailability(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, windows)
}
