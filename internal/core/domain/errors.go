package domain

import "errors"

var (
	ErrEmptyFile         = errors.New("uploaded file is empty")
	ErrNotPDF            = errors.New("uploaded file is not a PDF")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrConversionFailed  = errors.New("conversion engine failed")
	ErrConversionTimeout = errors.New("conversion engine timed out")
)

// IsInvalidUpload reports whether err rejects the uploaded payload itself,
// as opposed to a failure while processing it.
func IsInvalidUpload(err error) bool {
	return errors.Is(err, ErrEmptyFile) || errors.Is(err, ErrNotPDF)
}
