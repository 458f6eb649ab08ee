package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/markdave123-py/fatura-gateway/internal/config"
	"github.com/markdave123-py/fatura-gateway/internal/core/ingestion_engine"
	"github.com/markdave123-py/fatura-gateway/internal/core/result"
)

// form data above this size spills to temp files
const multipartMemory = 8 << 20

// InvoiceProcessor runs one upload through the ingestion pipeline.
type InvoiceProcessor interface {
	Ready() bool
	Process(ctx context.Context, up ingestion_engine.Upload) (result.Outcome, error)
}

type InvoiceHandler struct {
	pipeline InvoiceProcessor
	logger   zerolog.Logger
}

func NewInvoiceHandler(p InvoiceProcessor, logger zerolog.Logger) *InvoiceHandler {
	return &InvoiceHandler{pipeline: p, logger: logger}
}

// ParseInvoice handles POST /parse_invoice: a multipart upload in field
// "file", answered with the engine's structured fields.
func (h *InvoiceHandler) ParseInvoice(w http.ResponseWriter, r *http.Request) {
	if !h.pipeline.Ready() {
		writeError(w, http.StatusInternalServerError, ingestion_engine.ErrCapabilityUnavailable.Error())
		return
	}
	if r.ContentLength > config.MaxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, tooLargeMessage())
		return
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if isTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, tooLargeMessage())
			return
		}
		writeError(w, http.StatusBadRequest, ingestion_engine.ErrNoFilePart.Error())
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		// a part named "file" without a filename is parsed as a plain value
		if _, ok := r.MultipartForm.Value["file"]; ok {
			writeError(w, http.StatusBadRequest, ingestion_engine.ErrNoFileSelected.Error())
			return
		}
		writeError(w, http.StatusBadRequest, ingestion_engine.ErrNoFilePart.Error())
		return
	}
	defer file.Close()

	outcome, err := h.pipeline.Process(r.Context(), ingestion_engine.Upload{Filename: header.Filename, Body: file})
	if err != nil {
		h.writeProcessError(w, err)
		return
	}
	if outcome.IsFailure() {
		writeError(w, http.StatusInternalServerError, outcome.Message)
		return
	}
	writeJSON(w, http.StatusOK, outcome.Fields)
}

func (h *InvoiceHandler) writeProcessError(w http.ResponseWriter, err error) {
	switch {
	case ingestion_engine.IsValidationError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ingestion_engine.ErrCapabilityUnavailable):
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		h.logger.Error().Err(err).Msg("parse invoice failed")
		writeError(w, http.StatusInternalServerError, "server error: "+err.Error())
	}
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large")
}

func tooLargeMessage() string {
	return fmt.Sprintf("file too large; limit is %d MiB", config.MaxUploadBytes>>20)
}
