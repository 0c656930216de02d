package commons

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	apperrors "biosen/internal/errors"
)

type errorResponse struct {
	Message string                       `json:"message"`
	Errors  []apperrors.ValidationDetail `json:"errors,omitempty"`
}

func WriteJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func WriteMessage(w http.ResponseWriter, logger *zap.Logger, status int, message string) {
	WriteJSON(w, logger, status, map[string]string{"message": message})
}

// WriteError maps service errors onto the API's status contract:
// validation 422, forbidden 403, not found 404, invalid transition 400,
// referential conflict 409, everything else 500.
func WriteError(w http.ResponseWriter, logger *zap.Logger, err error) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		WriteJSON(w, logger, http.StatusUnprocessableEntity, errorResponse{
			Message: ve.Message,
			Errors:  ve.Details,
		})
		return
	}

	if fe, ok := apperrors.IsForbiddenError(err); ok {
		WriteJSON(w, logger, http.StatusForbidden, errorResponse{Message: fe.Message})
		return
	}

	if nfe, ok := apperrors.IsNotFoundError(err); ok {
		WriteJSON(w, logger, http.StatusNotFound, errorResponse{Message: nfe.Message})
		return
	}

	if ise, ok := apperrors.IsInvalidStateError(err); ok {
		WriteJSON(w, logger, http.StatusBadRequest, errorResponse{Message: ise.Message})
		return
	}

	if ce, ok := apperrors.IsConflictError(err); ok {
		WriteJSON(w, logger, http.StatusConflict, errorResponse{Message: ce.Message})
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	WriteJSON(w, logger, http.StatusInternalServerError, errorResponse{
		Message: "an unexpected error occurred",
	})
}

func DecodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.NewValidationError("invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
	}
	return nil
}
