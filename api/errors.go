package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Domenick1991/airfare/internal/domain"
	"github.com/Domenick1991/airfare/internal/reference"
	"github.com/gin-gonic/gin"
)

const (
	CodeNotFound            = "not_found"
	CodeValidation          = "validation"
	CodeCapacityExceeded    = "capacity_exceeded"
	CodeConflict            = "conflict"
	CodeGenerationExhausted = "generation_exhausted"
	CodeRateLimited         = "rate_limited"
	CodeInternal            = "internal"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusOf maps a domain error kind onto an HTTP status and stable code.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, CodeValidation
	case errors.Is(err, domain.ErrCapacityExceeded):
		return http.StatusConflict, CodeCapacityExceeded
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, CodeConflict
	case errors.Is(err, reference.ErrGenerationExhausted):
		return http.StatusServiceUnavailable, CodeGenerationExhausted
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

func writeError(c *gin.Context, err error) {
	status, code := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.FullPath(), "request_id", c.GetString(requestIDKey), "error", err)
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: msg, Code: code})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: msg, Code: CodeValidation})
}
