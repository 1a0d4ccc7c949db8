package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/sinhaadyant/pdf-to-word/internal/core/domain"
	"github.com/sinhaadyant/pdf-to-word/internal/core/ports"
)

// sniffLen is how many leading bytes file type detection needs.
const sniffLen = 261

type ConversionService struct {
	files  ports.FileStore
	engine ports.Converter
	log    *slog.Logger
}

func NewConversionService(files ports.FileStore, engine ports.Converter, log *slog.Logger) (*ConversionService, error) {
	if files == nil {
		return nil, errors.New("conversion service: file store is required")
	}
	if engine == nil {
		return nil, errors.New("conversion service: converter is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &ConversionService{files: files, engine: engine, log: log}, nil
}

// Convert validates that the upload is a PDF, stores it under a fresh name,
// runs the engine and returns the resulting document. The stored upload is
// removed once the engine finishes, whatever the outcome.
func (s *ConversionService) Convert(ctx context.Context, uploadName string, r io.Reader) (domain.Document, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		if errors.Is(err, io.EOF) {
			return domain.Document{}, domain.ErrEmptyFile
		}
		return domain.Document{}, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	if !filetype.Is(head, "pdf") {
		return domain.Document{}, domain.ErrNotPDF
	}

	id := uuid.NewString()
	inputPath, err := s.files.SaveUpload(id+".pdf", io.MultiReader(bytes.NewReader(head), r))
	if err != nil {
		return domain.Document{}, fmt.Errorf("store upload: %w", err)
	}
	defer func() {
		if err := s.files.RemoveUpload(inputPath); err != nil {
			s.log.Warn("failed to remove upload", "path", inputPath, "error", err)
		}
	}()

	outputPath, err := s.engine.Convert(ctx, inputPath)
	if err != nil {
		return domain.Document{}, err
	}

	doc, err := s.files.Document(filepath.Base(outputPath))
	if err != nil {
		return domain.Document{}, fmt.Errorf("locate converted document: %w", err)
	}

	s.log.Info("converted document",
		"upload", uploadName,
		"document", doc.FileName,
		"size", doc.Size,
	)
	return doc, nil
}
