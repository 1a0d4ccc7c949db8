package ports

import "context"

// Converter turns a stored PDF into a DOCX document, returning the path of
// the produced file inside the configured output directory.
type Converter interface {
	Convert(ctx context.Context, inputPath string) (string, error)
}
