package server

import (
	"encoding/json"
	"net/http"

	"github.com/123ibadullah/MusicWebApplication/logger"
)

// respondJSON writes payload as JSON with the given status code.
func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

// respondSuccess writes a {success: true, ...} envelope merged with extra.
func respondSuccess(w http.ResponseWriter, message string, extra map[string]interface{}) {
	payload := map[string]interface{}{"success": true}
	if message != "" {
		payload["message"] = message
	}
	for k, v := range extra {
		payload[k] = v
	}
	respondJSON(w, http.StatusOK, payload)
}

// respondError writes a {success: false, message} envelope.
func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]interface{}{
		"success": false,
		"message": message,
	})
}
