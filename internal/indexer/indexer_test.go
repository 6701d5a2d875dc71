package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/docdex/internal/storage"
)

// stubExtractor maps file paths to canned pages, erroring on anything
// listed in fail.
type stubExtractor struct {
	pages map[string][]string
	fail  map[string]bool
}

func (s *stubExtractor) ExtractPages(_ context.Context, path string) ([]string, error) {
	if s.fail[path] {
		return nil, fmt.Errorf("extracting %s: malformed file", path)
	}
	if pages, ok := s.pages[path]; ok {
		return pages, nil
	}
	return nil, fmt.Errorf("extracting %s: no stub pages", path)
}

func newTestStore(t *testing.T) *storage.Storage {
	t.Helper()
	s, err := storage.New(filepath.Join(t.TempDir(), "docdex.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// writePDF creates a file on disk whose bytes drive identity and change
// detection; extracted text comes from the stub.
func writePDF(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	return abs
}

func TestIngestBatch_IndexesAndSkipsUnchanged(t *testing.T) {
	store := newTestStore(t)
	dir := t.TempDir()
	ctx := context.Background()

	path := writePDF(t, dir, "report.pdf", "%PDF-1.4 report bytes")
	ext := &stubExtractor{pages: map[string][]string{
		path: {"quarterly revenue grew", "expenses held flat"},
	}}
	ix := New(store, ext)

	stats, err := ix.IngestBatch(ctx, []string{path}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Indexed)
	assert.Equal(t, 0, stats.Skipped)
	assert.Empty(t, stats.Errors)

	doc, err := store.GetDocumentByPath(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", doc.Filename)

	n, err := store.CountChunks(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "two small pages merge into one chunk")

	// Second run without changes is a no-op.
	stats, err = ix.IngestBatch(ctx, []string{path}, false)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Indexed)
	assert.Equal(t, 1, stats.Skipped)

	// Force reingests regardless.
	stats, err = ix.IngestBatch(ctx, []string{path}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Indexed)
	assert.Equal(t, 0, stats.Skipped)
}

func TestIngestBatch_ReindexesChangedFile(t *testing.T) {
	store := newTestStore(t)
	dir := t.TempDir()
	ctx := context.Background()

	path := writePDF(t, dir, "doc.pdf", "version one")
	ext := &stubExtractor{pages: map[string][]string{
		path: {"first edition text"},
	}}
	ix := New(store, ext)

	_, err := ix.IngestBatch(ctx, []string{path}, false)
	require.NoError(t, err)
	before, err := store.GetDocumentByPath(ctx, path)
	require.NoError(t, err)

	// Different size guarantees a change regardless of mtime granularity.
	require.NoError(t, os.WriteFile(path, []byte("version two, longer"), 0o644))
	ext.pages[path] = []string{"second edition text"}

	stats, err := ix.IngestBatch(ctx, []string{path}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Indexed)

	after, err := store.GetDocumentByPath(ctx, path)
	require.NoError(t, err)
	assert.NotEqual(t, before.ContentHash, after.ContentHash)

	results, err := store.SearchChunks(ctx, "second", 10, 20)
	require.NoError(t, err)
	require.Len(t, results, 1)

	results, err = store.SearchChunks(ctx, "first", 10, 20)
	require.NoError(t, err)
	assert.Empty(t, results, "superseded content no longer searchable")
}

func TestIngestBatch_FailedFileDoesNotAbortBatch(t *testing.T) {
	store := newTestStore(t)
	dir := t.TempDir()
	ctx := context.Background()

	good1 := writePDF(t, dir, "good1.pdf", "aaa")
	bad := writePDF(t, dir, "bad.pdf", "bbb")
	good2 := writePDF(t, dir, "good2.pdf", "ccc")
	missing := filepath.Join(dir, "missing.pdf")

	ext := &stubExtractor{
		pages: map[string][]string{
			good1: {"alpha content"},
			good2: {"gamma content"},
		},
		fail: map[string]bool{bad: true},
	}
	ix := New(store, ext, WithWorkers(2))

	stats, err := ix.IngestBatch(ctx, []string{good1, bad, good2, missing}, false)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Indexed)
	assert.Equal(t, 0, stats.Skipped)
	require.Len(t, stats.Errors, 2)

	// Errors keep input order.
	assert.Equal(t, bad, stats.Errors[0].File)
	assert.Contains(t, stats.Errors[0].Error, "malformed")
	assert.Equal(t, missing, stats.Errors[1].File)

	// Failed files leave no trace in the store.
	_, err = store.GetDocumentByPath(ctx, bad)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIngestBatch_IdenticalContentUnderTwoPaths(t *testing.T) {
	store := newTestStore(t)
	dir := t.TempDir()
	ctx := context.Background()

	pathA := writePDF(t, dir, "a.pdf", "identical bytes")
	pathB := writePDF(t, dir, "b.pdf", "identical bytes")
	ext := &stubExtractor{pages: map[string][]string{
		pathA: {"shared text"},
		pathB: {"shared text"},
	}}
	ix := New(store, ext)

	stats, err := ix.IngestBatch(ctx, []string{pathA, pathB}, false)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Indexed)

	docA, err := store.GetDocumentByPath(ctx, pathA)
	require.NoError(t, err)
	docB, err := store.GetDocumentByPath(ctx, pathB)
	require.NoError(t, err)
	assert.Equal(t, docA.ID, docB.ID, "byte-identical files share a content-derived ID")
	assert.NotEqual(t, docA.Path, docB.Path)
}

func TestIngestBatch_EmptyDocumentIndexesWithZeroChunks(t *testing.T) {
	store := newTestStore(t)
	dir := t.TempDir()
	ctx := context.Background()

	path := writePDF(t, dir, "scanned.pdf", "image only")
	ext := &stubExtractor{pages: map[string][]string{
		path: {"", "", ""},
	}}
	ix := New(store, ext)

	stats, err := ix.IngestBatch(ctx, []string{path}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Indexed)

	n, err := store.CountChunks(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestIngestBatch_CancelledContext(t *testing.T) {
	store := newTestStore(t)
	dir := t.TempDir()

	path := writePDF(t, dir, "doc.pdf", "bytes")
	ext := &stubExtractor{pages: map[string][]string{path: {"text"}}}
	ix := New(store, ext)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ix.IngestBatch(ctx, []string{path}, false)
	assert.Error(t, err)
}
