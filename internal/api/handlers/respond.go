package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/markdave123-py/fatura-gateway/internal/core/result"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError answers with the failure body clients of the service expect.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{result.FailureKey: message})
}
