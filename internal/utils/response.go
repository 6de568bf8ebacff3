package utils

import (
	"encoding/json"
	"net/http"

	"AMESAI_BACK-END/internal/dto"
)

// WriteJSONResponse writes a JSON response to the HTTP response writer
func WriteJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteErrorResponse writes a JSON error response with the given status
func WriteErrorResponse(w http.ResponseWriter, status int, errMsg, detail string) {
	WriteJSONResponse(w, status, dto.ErrorResponse{Error: errMsg, Message: detail})
}

// WriteValidationErrorResponse writes a 400 response carrying field-level
// validation messages
func WriteValidationErrorResponse(w http.ResponseWriter, fields map[string]string) {
	WriteJSONResponse(w, http.StatusBadRequest, dto.ValidationErrorResponse{
		Error:  "Validation failed",
		Fields: fields,
	})
}
