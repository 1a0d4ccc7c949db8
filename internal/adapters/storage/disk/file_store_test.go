package disk

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sinhaadyant/pdf-to-word/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "uploads"), filepath.Join(t.TempDir(), "converted"))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return store
}

func writeDocument(t *testing.T, store *Store, name, content string) {
	t.Helper()

	if err := os.WriteFile(filepath.Join(store.OutputDir(), name), []byte(content), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
}

func TestStore_SaveUploadWritesFile(t *testing.T) {
	store := newTestStore(t)

	path, err := store.SaveUpload("report.pdf", strings.NewReader("pdf bytes"))
	if err != nil {
		t.Fatalf("SaveUpload returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved upload: %v", err)
	}
	if string(data) != "pdf bytes" {
		t.Fatalf("saved content = %q, want %q", data, "pdf bytes")
	}
}

func TestStore_SaveUploadStripsDirectories(t *testing.T) {
	store := newTestStore(t)

	path, err := store.SaveUpload("../escape.pdf", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("SaveUpload returned error: %v", err)
	}
	if filepath.Dir(path) != store.uploadDir {
		t.Fatalf("upload written to %s, want it inside %s", path, store.uploadDir)
	}
}

func TestStore_RemoveUploadIgnoresMissing(t *testing.T) {
	store := newTestStore(t)

	if err := store.RemoveUpload(filepath.Join(store.uploadDir, "gone.pdf")); err != nil {
		t.Fatalf("RemoveUpload returned error: %v", err)
	}
}

func TestStore_DocumentReturnsMetadata(t *testing.T) {
	store := newTestStore(t)
	writeDocument(t, store, "abc123.docx", "converted")

	doc, err := store.Document("abc123.docx")
	if err != nil {
		t.Fatalf("Document returned error: %v", err)
	}
	if doc.ID != "abc123" || doc.FileName != "abc123.docx" || doc.Size != int64(len("converted")) {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestStore_DocumentRejectsUnsafeNames(t *testing.T) {
	store := newTestStore(t)

	for _, name := range []string{"", "../secret.docx", "dir/file.docx", "notes.txt", "report.pdf"} {
		if _, err := store.Document(name); !errors.Is(err, domain.ErrDocumentNotFound) {
			t.Fatalf("Document(%q) error = %v, want ErrDocumentNotFound", name, err)
		}
	}
}

func TestStore_ListDocumentsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	writeDocument(t, store, "old.docx", "a")
	writeDocument(t, store, "new.docx", "b")
	writeDocument(t, store, "skipped.txt", "c")

	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(filepath.Join(store.OutputDir(), "old.docx"), past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	docs, err := store.ListDocuments()
	if err != nil {
		t.Fatalf("ListDocuments returned error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("ListDocuments returned %d documents, want 2", len(docs))
	}
	if docs[0].FileName != "new.docx" || docs[1].FileName != "old.docx" {
		t.Fatalf("unexpected order: %s, %s", docs[0].FileName, docs[1].FileName)
	}
}

func TestStore_OpenDocumentStreamsContent(t *testing.T) {
	store := newTestStore(t)
	writeDocument(t, store, "abc123.docx", "converted bytes")

	rc, doc, err := store.OpenDocument("abc123.docx")
	if err != nil {
		t.Fatalf("OpenDocument returned error: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	if string(data) != "converted bytes" {
		t.Fatalf("content = %q, want %q", data, "converted bytes")
	}
	if doc.FileName != "abc123.docx" {
		t.Fatalf("doc.FileName = %q, want abc123.docx", doc.FileName)
	}
}

func TestStore_OpenDocumentMissing(t *testing.T) {
	store := newTestStore(t)

	if _, _, err := store.OpenDocument("nope.docx"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("OpenDocument error = %v, want ErrDocumentNotFound", err)
	}
}

func TestStore_RemoveDocumentsOlderThan(t *testing.T) {
	store := newTestStore(t)
	writeDocument(t, store, "stale.docx", "a")
	writeDocument(t, store, "fresh.docx", "b")

	past := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(filepath.Join(store.OutputDir(), "stale.docx"), past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	removed, err := store.RemoveDocumentsOlderThan(24 * time.Hour)
	if err != nil {
		t.Fatalf("RemoveDocumentsOlderThan returned error: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}

	if _, err := store.Document("stale.docx"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("stale document still present: %v", err)
	}
	if _, err := store.Document("fresh.docx"); err != nil {
		t.Fatalf("fresh document removed: %v", err)
	}
}
