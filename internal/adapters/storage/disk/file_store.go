// Package disk stores uploads and converted documents on the filesystem.
package disk

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sinhaadyant/pdf-to-word/internal/core/domain"
	"github.com/sinhaadyant/pdf-to-word/internal/core/ports"
)

const documentExt = ".docx"

type Store struct {
	uploadDir string
	outputDir string
}

var _ ports.FileStore = (*Store)(nil)

// New creates the upload and output directories if they do not exist.
func New(uploadDir, outputDir string) (*Store, error) {
	for _, dir := range []string{uploadDir, outputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return &Store{uploadDir: uploadDir, outputDir: outputDir}, nil
}

// OutputDir is where the conversion engine writes documents.
func (s *Store) OutputDir() string {
	return s.outputDir
}

func (s *Store) SaveUpload(name string, r io.Reader) (string, error) {
	path := filepath.Join(s.uploadDir, filepath.Base(name))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close upload: %w", err)
	}
	return path, nil
}

func (s *Store) RemoveUpload(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) Document(name string) (domain.Document, error) {
	path, err := s.documentPath(name)
	if err != nil {
		return domain.Document{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Document{}, domain.ErrDocumentNotFound
		}
		return domain.Document{}, err
	}
	return documentFromInfo(info), nil
}

func (s *Store) ListDocuments() ([]domain.Document, error) {
	entries, err := os.ReadDir(s.outputDir)
	if err != nil {
		return nil, fmt.Errorf("read output directory: %w", err)
	}

	docs := make([]domain.Document, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), documentExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		docs = append(docs, documentFromInfo(info))
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	return docs, nil
}

func (s *Store) OpenDocument(name string) (io.ReadSeekCloser, domain.Document, error) {
	doc, err := s.Document(name)
	if err != nil {
		return nil, domain.Document{}, err
	}

	f, err := os.Open(filepath.Join(s.outputDir, doc.FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.Document{}, domain.ErrDocumentNotFound
		}
		return nil, domain.Document{}, err
	}
	return f, doc, nil
}

func (s *Store) RemoveDocumentsOlderThan(age time.Duration) (int, error) {
	entries, err := os.ReadDir(s.outputDir)
	if err != nil {
		return 0, fmt.Errorf("read output directory: %w", err)
	}

	cutoff := time.Now().Add(-age)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), documentExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.outputDir, entry.Name())); err != nil && !os.IsNotExist(err) {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// documentPath accepts only a plain .docx base name; anything else (path
// separators, traversal, other extensions) is treated as unknown.
func (s *Store) documentPath(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || !strings.HasSuffix(name, documentExt) {
		return "", domain.ErrDocumentNotFound
	}
	return filepath.Join(s.outputDir, name), nil
}

func documentFromInfo(info os.FileInfo) domain.Document {
	name := info.Name()
	return domain.Document{
		ID:        strings.TrimSuffix(name, documentExt),
		FileName:  name,
		Size:      info.Size(),
		CreatedAt: info.ModTime(),
	}
}
