// Package handlers groups the HTTP handlers of the conversion API.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sinhaadyant/pdf-to-word/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

type documentPayload struct {
	ID          string    `json:"id"`
	FileName    string    `json:"fileName"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
	DownloadURL string    `json:"downloadUrl"`
}

func newDocumentPayload(doc domain.Document) documentPayload {
	return documentPayload{
		ID:          doc.ID,
		FileName:    doc.FileName,
		Size:        doc.Size,
		CreatedAt:   doc.CreatedAt,
		DownloadURL: "/api/files/" + doc.FileName,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
