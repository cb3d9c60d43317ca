package rest

import (
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// writeError emits the ok=false variant of the song contract. Every
// failure path goes through here; nothing propagates unhandled.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, songResponse{OK: false, Message: message})
}
