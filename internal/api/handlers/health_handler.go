package handlers

import "net/http"

const (
	healthOKMessage    = "invoice analysis service is running"
	healthErrorMessage = "invoice analysis service could not be started"
)

// Readiness reports whether an analysis engine is bound.
type Readiness interface {
	Ready() bool
}

type HealthHandler struct {
	readiness Readiness
}

func NewHealthHandler(r Readiness) *HealthHandler {
	return &HealthHandler{readiness: r}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.readiness == nil || !h.readiness.Ready() {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "ERROR", "message": healthErrorMessage})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK", "message": healthOKMessage})
}
