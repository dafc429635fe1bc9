package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"whisp/internal/service"
	"whisp/internal/store"
	"whisp/models"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided: http.StatusBadRequest,
	service.ErrInvalidTTL:          http.StatusBadRequest,
	service.ErrPayloadTooLarge:     http.StatusRequestEntityTooLarge,
	service.ErrWrongPassword:       http.StatusUnauthorized,

	store.ErrWhispNotFound:      http.StatusNotFound,
	store.ErrBlobNotFound:       http.StatusNotFound,
	store.ErrWhispAlreadyExists: http.StatusConflict,

	store.ErrBuildingSQLQuery:   http.StatusInternalServerError,
	store.ErrExecutingQuery:     http.StatusInternalServerError,
	store.ErrExecutingStatement: http.StatusInternalServerError,
	store.ErrScanningRow:        http.StatusInternalServerError,
	store.ErrScanningRows:       http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError renders err as the API's JSON error body. Server-side failures
// are reported without detail.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusFromError(err)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = "internal server error"
	}

	h.writeJSON(w, status, models.ErrorResponse{Error: message})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Err(err).Str("func", "*Handler.writeJSON").Msg("failed to encode response body")
	}
}
