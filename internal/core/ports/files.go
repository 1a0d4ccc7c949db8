package ports

import (
	"io"
	"time"

	"github.com/sinhaadyant/pdf-to-word/internal/core/domain"
)

// FileStore owns the upload and output directories on disk.
type FileStore interface {
	// SaveUpload writes an incoming PDF under the upload directory and
	// returns its full path. Uploads are transient.
	SaveUpload(name string, r io.Reader) (string, error)

	// RemoveUpload deletes a stored upload; a missing file is not an error.
	RemoveUpload(path string) error

	// Document resolves a converted document by file name.
	Document(name string) (domain.Document, error)

	// ListDocuments returns all converted documents, newest first.
	ListDocuments() ([]domain.Document, error)

	// OpenDocument opens a converted document for download.
	OpenDocument(name string) (io.ReadSeekCloser, domain.Document, error)

	// RemoveDocumentsOlderThan deletes converted documents past the given
	// age, returning how many were removed.
	RemoveDocumentsOlderThan(age time.Duration) (int, error)
}
