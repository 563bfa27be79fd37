package api

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/crowdchain-engine/internal/errors"
	"github.com/crowdchain-engine/internal/types"
)

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error types.ServiceError `json:"error"`
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, statusCode int, code, message string, details map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error: types.ServiceError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}

	json.NewEncoder(w).Encode(response)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// parseJSONBody parses JSON request body.
func parseJSONBody(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// respondServiceError maps a service-layer error onto the wire. The
// category on a CategorizedError drives the status code; anything else is
// a plain 500.
func respondServiceError(w http.ResponseWriter, err error) {
	var categorized *apperrors.CategorizedError
	if errors.As(err, &categorized) {
		svcErr := categorized.ToServiceError()
		respondError(w, apperrors.GetHTTPStatusCode(categorized), svcErr.Code, svcErr.Message, svcErr.Details)
		return
	}

	respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred", nil)
}
