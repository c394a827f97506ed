// internal/handlers/health.go
package handlers

import (
	"encoding/json"
	"net/http"
)

// HealthHandler is the liveness endpoint. Browser clients poll it cross-origin
// before opening the WebSocket, hence the permissive CORS header.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
