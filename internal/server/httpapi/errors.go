package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/fittrack/internal/common"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Message string `json:"message"`
	TraceID string `json:"trace_id"`
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail aborts the request with the status err maps to. Server-side failures
// are logged and answered with a fixed message.
func (h *Handler) fail(c *gin.Context, err error) {
	status := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error(c.Request.Context(), "request failed",
			"error", err.Error(), "path", c.FullPath(), "trace_id", TraceID(c))
		msg = common.ErrInternal.Error()
	}
	abortWithError(c, status, msg)
}

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Message: msg, TraceID: TraceID(c)})
}

func badRequest(c *gin.Context, msg string) {
	abortWithError(c, http.StatusBadRequest, msg)
}
