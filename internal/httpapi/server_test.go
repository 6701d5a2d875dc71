package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dshills/docdex/internal/config"
	"github.com/dshills/docdex/internal/indexer"
	"github.com/dshills/docdex/internal/searcher"
	"github.com/dshills/docdex/internal/storage"
)

// stubExtractor serves canned pages per path.
type stubExtractor struct {
	pages map[string][]string
}

func (s *stubExtractor) ExtractPages(_ context.Context, path string) ([]string, error) {
	if pages, ok := s.pages[path]; ok {
		return pages, nil
	}
	return nil, fmt.Errorf("extracting %s: no stub pages", path)
}

type testHarness struct {
	server  *Server
	ext     *stubExtractor
	docsDir string
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	store, err := storage.New(filepath.Join(t.TempDir(), "docdex.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	docsDir := t.TempDir()
	settings := &config.Settings{
		DocsDir:      docsDir,
		TopK:         config.DefaultTopK,
		SnippetChars: config.DefaultSnippetChars,
	}

	ext := &stubExtractor{pages: map[string][]string{}}
	ix := indexer.New(store, ext)
	se := searcher.New(store)

	return &testHarness{
		server:  NewServer(ix, se, store, settings, zap.NewNop()),
		ext:     ext,
		docsDir: docsDir,
	}
}

// addPDF drops a file into the docs dir and registers its stub pages.
func (h *testHarness) addPDF(t *testing.T, name, content string, pages ...string) string {
	t.Helper()
	path := filepath.Join(h.docsDir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	h.ext.pages[abs] = pages
	return abs
}

func (h *testHarness) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestRootAndHealth(t *testing.T) {
	h := newTestHarness(t)

	w := h.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	root := decode[map[string]any](t, w)
	assert.Equal(t, "docdex", root["service"])
	assert.Equal(t, Version, root["version"])

	w = h.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestIngestAndQuery(t *testing.T) {
	h := newTestHarness(t)
	h.addPDF(t, "policy.pdf", "policy bytes",
		"monetary policy remained restrictive", "inflation eased gradually")

	w := h.do(t, http.MethodPost, "/ingest", map[string]any{})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	ingest := decode[ingestResponse](t, w)
	assert.Equal(t, 1, ingest.Indexed)
	assert.Equal(t, 0, ingest.Skipped)
	assert.Empty(t, ingest.Errors)
	assert.NotEmpty(t, ingest.StorageLocation)

	w = h.do(t, http.MethodPost, "/query", map[string]any{"query": "inflation"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	query := decode[queryResponse](t, w)
	assert.Equal(t, "inflation", query.Query)
	assert.Equal(t, config.DefaultTopK, query.TopK)
	require.Equal(t, 1, query.TotalResults)
	result := query.Results[0]
	assert.Equal(t, "policy.pdf", result.Filename)
	assert.Equal(t, []int{1, 2}, result.Pages)
	assert.Contains(t, result.Snippet, "[inflation]")
}

func TestIngestSecondRunSkips(t *testing.T) {
	h := newTestHarness(t)
	h.addPDF(t, "a.pdf", "bytes", "some text")

	w := h.do(t, http.MethodPost, "/ingest", map[string]any{})
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(t, http.MethodPost, "/ingest", map[string]any{})
	require.Equal(t, http.StatusOK, w.Code)
	ingest := decode[ingestResponse](t, w)
	assert.Equal(t, 0, ingest.Indexed)
	assert.Equal(t, 1, ingest.Skipped)

	w = h.do(t, http.MethodPost, "/ingest", map[string]any{"force": true})
	require.Equal(t, http.StatusOK, w.Code)
	ingest = decode[ingestResponse](t, w)
	assert.Equal(t, 1, ingest.Indexed)
}

func TestIngestExplicitFiles(t *testing.T) {
	h := newTestHarness(t)
	path := h.addPDF(t, "one.pdf", "bytes", "alpha")
	h.addPDF(t, "two.pdf", "bytes2", "beta")

	w := h.do(t, http.MethodPost, "/ingest", map[string]any{
		"files": []string{path, filepath.Join(h.docsDir, "missing.pdf")},
	})
	require.Equal(t, http.StatusOK, w.Code)
	ingest := decode[ingestResponse](t, w)
	assert.Equal(t, 1, ingest.Indexed, "only the named file, not the whole directory")
	require.Len(t, ingest.Errors, 1)
	assert.Contains(t, ingest.Errors[0].File, "missing.pdf")
}

func TestIngestMissingDirectory(t *testing.T) {
	h := newTestHarness(t)

	w := h.do(t, http.MethodPost, "/ingest", map[string]any{
		"input_dir": filepath.Join(h.docsDir, "nope"),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueryBlankIsBadRequest(t *testing.T) {
	h := newTestHarness(t)

	for _, body := range []map[string]any{
		{"query": ""},
		{"query": "   "},
		{},
	} {
		w := h.do(t, http.MethodPost, "/query", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestQueryTopKOverride(t *testing.T) {
	h := newTestHarness(t)
	h.addPDF(t, "a.pdf", "a-bytes", "shared term here")
	h.addPDF(t, "b.pdf", "b-bytes", "shared term there")
	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/ingest", map[string]any{}).Code)

	w := h.do(t, http.MethodPost, "/query", map[string]any{"query": "shared", "top_k": 1})
	require.Equal(t, http.StatusOK, w.Code)
	query := decode[queryResponse](t, w)
	assert.Equal(t, 1, query.TopK)
	assert.Equal(t, 1, query.TotalResults)
}

func TestQueryCacheInvalidatedByIngest(t *testing.T) {
	h := newTestHarness(t)
	h.addPDF(t, "a.pdf", "a-bytes", "target phrase")
	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/ingest", map[string]any{}).Code)

	body := map[string]any{"query": "target"}
	first := decode[queryResponse](t, h.do(t, http.MethodPost, "/query", body))
	assert.False(t, first.CacheHit)
	second := decode[queryResponse](t, h.do(t, http.MethodPost, "/query", body))
	assert.True(t, second.CacheHit)

	h.addPDF(t, "b.pdf", "b-bytes", "another target mention")
	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/ingest", map[string]any{}).Code)

	third := decode[queryResponse](t, h.do(t, http.MethodPost, "/query", body))
	assert.False(t, third.CacheHit)
	assert.Equal(t, 2, third.TotalResults)
}

func TestListDocs(t *testing.T) {
	h := newTestHarness(t)
	h.addPDF(t, "a.pdf", "a-bytes", "page one", "page two")
	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/ingest", map[string]any{}).Code)

	w := h.do(t, http.MethodGet, "/docs", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Documents []docEntry `json:"documents"`
		Total     int        `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "a.pdf", resp.Documents[0].Filename)
	assert.Equal(t, 1, resp.Documents[0].Chunks)

	w = h.do(t, http.MethodGet, "/docs?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
