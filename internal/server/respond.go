package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tartampluch/go-birthday-server/internal/config"
)

// apiError is the unified error body every endpoint returns on failure.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes a success payload.
func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}

// writeError encodes a failure in the unified format.
func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, apiError{Code: code, Message: message})
}

// writeInternalError hides the fault detail from the client; the cause is
// already in the logs.
func writeInternalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, config.CodeInternal, config.MsgInternal)
}
