package middleware

import (
	"encoding/json"
	"net/http"
)

// writeError sends {"error": message}. Handlers use the richer helpers in
// the handler package; middleware only needs this much.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
