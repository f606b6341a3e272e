package handlers

import (
	"net/http"
	"time"
)

type healthResponse struct {
	OK bool   `json:"ok"`
	TS string `json:"ts"`
}

// Health reports liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		OK: true,
		TS: time.Now().UTC().Format(time.RFC3339),
	})
}
