package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/thedreamteamconsultancy/workstatus/internal/logger"
	"github.com/thedreamteamconsultancy/workstatus/internal/service"
	"github.com/thedreamteamconsultancy/workstatus/internal/telemetry"
)

func handleBusinessError(w http.ResponseWriter, err error) bool {
	var businessErr *service.BusinessError
	if !errors.As(err, &businessErr) {
		return false
	}
	statusCode := mapBusinessErrorToHTTP(businessErr.Code)

	if statusCode >= http.StatusInternalServerError {
		telemetry.StoreWriteFailuresTotal.WithLabelValues(businessErr.Code).Inc()
		logger.Error("HTTP: store failure", err,
			zap.String("error_code", businessErr.Code),
			zap.Int("http_status", statusCode))
	} else {
		logger.Warn("HTTP: business error",
			zap.String("error_code", businessErr.Code),
			zap.Int("http_status", statusCode))
	}

	responseWithJSON(w, statusCode,
		toPayload("error", businessErr.Code),
		toPayload("message", businessErr.Message),
		toPayload("details", businessErr.Details),
	)
	return true
}

// handleServiceError answers err as a business error when it is one and
// as an opaque 500 otherwise.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, op string) {
	if handleBusinessError(w, err) {
		return
	}
	logger.Error("HTTP: service error", err,
		zap.String("operation", op),
		zap.String("client_ip", r.RemoteAddr))
	responseWithError(w, http.StatusInternalServerError, "internal error")
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation:
		return http.StatusBadRequest
	case service.CodeInvalidTransition, service.CodeVersionConflict:
		return http.StatusConflict
	case service.CodeNotEligible:
		return http.StatusUnprocessableEntity
	case service.CodeStoreWriteFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}
