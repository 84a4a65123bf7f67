package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/plantap/internal/core/domain"
)

// APIError is the body of every error response.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope wraps an APIError.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respondError(c *gin.Context, err error) {
	status, code := classify(err)
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{Message: err.Error(), Code: code},
	})
}

// classify maps domain errors to an HTTP status and a stable code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrCrossOrigin):
		return http.StatusForbidden, "cross_origin"
	case errors.Is(err, domain.ErrUnknownMessage):
		return http.StatusBadRequest, "unknown_message"
	case errors.Is(err, domain.ErrInvalidPayload):
		return http.StatusBadRequest, "invalid_payload"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, domain.ErrNoProjectContext):
		return http.StatusUnprocessableEntity, "no_project_context"
	case errors.Is(err, domain.ErrServiceClosed):
		return http.StatusServiceUnavailable, "closed"
	case errors.Is(err, domain.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, "storage_unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
