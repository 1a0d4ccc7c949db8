package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/sinhaadyant/pdf-to-word/internal/core/domain"
)

type documentConverter interface {
	Convert(ctx context.Context, uploadName string, r io.Reader) (domain.Document, error)
}

type ConvertHandler struct {
	converter      documentConverter
	maxUploadBytes int64
	log            *slog.Logger
}

func NewConvertHandler(converter documentConverter, maxUploadBytes int64, log *slog.Logger) *ConvertHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ConvertHandler{converter: converter, maxUploadBytes: maxUploadBytes, log: log}
}

// Convert accepts a multipart PDF upload and responds with the converted
// document's metadata.
func (h *ConvertHandler) Convert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds the %d byte limit", maxBytesErr.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	doc, err := h.converter.Convert(r.Context(), header.Filename, file)
	if err != nil {
		h.respondConversionError(w, header.Filename, err)
		return
	}

	writeJSON(w, http.StatusCreated, newDocumentPayload(doc))
}

func (h *ConvertHandler) respondConversionError(w http.ResponseWriter, uploadName string, err error) {
	switch {
	case domain.IsInvalidUpload(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrConversionTimeout):
		h.log.Warn("conversion timed out", "upload", uploadName)
		writeError(w, http.StatusGatewayTimeout, "conversion timed out")
	default:
		h.log.Error("conversion failed", "upload", uploadName, "error", err)
		writeError(w, http.StatusInternalServerError, "conversion failed")
	}
}
