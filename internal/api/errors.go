package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/algocanvas/algocanvas/internal/httputil"
	"github.com/algocanvas/algocanvas/internal/metrics"
	"github.com/algocanvas/algocanvas/internal/models"
	"github.com/algocanvas/algocanvas/internal/session"
	"github.com/algocanvas/algocanvas/internal/store"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest  = "invalid_request"
	ErrCodeNotFound        = "not_found"
	ErrCodeInternalError   = "internal_error"
	ErrCodeConflict        = "conflict"
	ErrCodeRateLimited     = "rate_limited"
	ErrCodeValidationError = "validation_error"
	ErrCodeUnavailable     = "unavailable"
)

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// respondDomainError maps sentinel errors from the session, store and model
// layers onto HTTP responses. It reports false when err is not recognised so
// the caller can log it and answer 500.
func respondDomainError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrClosed):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "session not found")
	case errors.Is(err, session.ErrTooMany):
		respondError(c, http.StatusTooManyRequests, ErrCodeRateLimited, "too many sessions")
	case errors.Is(err, session.ErrRunInProgress):
		respondError(c, http.StatusConflict, ErrCodeConflict, "a run is already in progress")
	case errors.Is(err, store.ErrNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "graph not found")
	case errors.Is(err, store.ErrInvalidName):
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, "graph name must match [A-Za-z0-9_-]{1,64}")
	case errors.Is(err, models.ErrMalformedGraphFile), errors.Is(err, models.ErrInvalidMode):
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
	default:
		return false
	}

	return true
}

// respondFailure answers err, logging it when it is not a known domain error.
func respondFailure(c *gin.Context, log *logrus.Logger, err error, msg string) {
	if respondDomainError(c, err) {
		return
	}

	log.WithError(err).Error(msg)
	respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
}
