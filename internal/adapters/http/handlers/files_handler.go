package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sinhaadyant/pdf-to-word/internal/core/domain"
	"github.com/sinhaadyant/pdf-to-word/internal/core/ports"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

type FilesHandler struct {
	files ports.FileStore
	log   *slog.Logger
}

func NewFilesHandler(files ports.FileStore, log *slog.Logger) *FilesHandler {
	if log == nil {
		log = slog.Default()
	}
	return &FilesHandler{files: files, log: log}
}

func (h *FilesHandler) List(w http.ResponseWriter, _ *http.Request) {
	docs, err := h.files.ListDocuments()
	if err != nil {
		h.log.Error("list documents failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list documents")
		return
	}

	payload := make([]documentPayload, 0, len(docs))
	for _, doc := range docs {
		payload = append(payload, newDocumentPayload(doc))
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": payload})
}

func (h *FilesHandler) Download(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	rc, doc, err := h.files.OpenDocument(name)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		h.log.Error("open document failed", "document", name, "error", err)
		writeError(w, http.StatusInternalServerError, "could not open document")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", docxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	http.ServeContent(w, r, doc.FileName, doc.CreatedAt, rc)
}
