package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/markdave123-py/fatura-gateway/internal/services"
)

type AnalysisHandler struct {
	svc    *services.AnalysisService
	logger zerolog.Logger
}

func NewAnalysisHandler(svc *services.AnalysisService, logger zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{svc: svc, logger: logger}
}

// ListAnalyses handles GET /analyses?limit=N.
func (h *AnalysisHandler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	recs, err := h.svc.ListRecent(r.Context(), limit)
	if errors.Is(err, services.ErrAuditDisabled) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("list analyses failed")
		writeError(w, http.StatusInternalServerError, "server error: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, recs)
}
