package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/telecare/scheduling-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents API error
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithCreated sends a success response for a newly created resource
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError maps the error's kind to an HTTP status and sends it.
// Validation problems are the caller's fault, scheduling conflicts are
// reported as 409 so clients can tell them apart from bad input.
func RespondWithError(c *gin.Context, err error) {
	kind := errors.KindOf(err)

	var statusCode int
	switch kind {
	case errors.KindValidation, errors.KindNoChangeRequested:
		statusCode = http.StatusBadRequest
	case errors.KindNotFound:
		statusCode = http.StatusNotFound
	case errors.KindNoAvailability, errors.KindOutsideAvailability,
		errors.KindSlotOverlap, errors.KindAvailabilityConflict:
		statusCode = http.StatusConflict
	default:
		statusCode = http.StatusInternalServerError
	}

	message := "Internal server error"
	if appErr, ok := err.(*errors.AppError); ok && kind != errors.KindStorage {
		message = appErr.Message
	}

	c.JSON(statusCode, Response{
		Success: false,
		Error: &Error{
			Code:    kind.String(),
			Message: message,
		},
	})
}
