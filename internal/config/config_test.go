package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultDBPath, s.DBPath)
	assert.Equal(t, DefaultDocsDir, s.DocsDir)
	assert.Equal(t, DefaultMaxChunkChars, s.MaxChunkChars)
	assert.Equal(t, DefaultMinChunkChars, s.MinChunkChars)
	assert.Equal(t, DefaultMaxPagesPerChunk, s.MaxPagesPerChunk)
	assert.Equal(t, DefaultTopK, s.TopK)
	assert.Equal(t, DefaultSnippetChars, s.SnippetChars)
	assert.Equal(t, DefaultWorkers, s.Workers)
	assert.Equal(t, "127.0.0.1:8000", s.Addr())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DOCDEX_DB_PATH", "/var/lib/docdex/index.db")
	t.Setenv("DOCDEX_MAX_CHUNK_CHARS", "4000")
	t.Setenv("DOCDEX_MIN_CHUNK_CHARS", "500")
	t.Setenv("DOCDEX_HTTP_PORT", "9090")
	t.Setenv("DOCDEX_WORKERS", "8")

	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/docdex/index.db", s.DBPath)
	assert.Equal(t, 4000, s.MaxChunkChars)
	assert.Equal(t, 500, s.MinChunkChars)
	assert.Equal(t, 9090, s.HTTPPort)
	assert.Equal(t, 8, s.Workers)
}

func TestLoad_RejectsNonInteger(t *testing.T) {
	t.Setenv("DOCDEX_HTTP_PORT", "eighty")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DOCDEX_HTTP_PORT")
}

func TestLoad_RejectsMinAboveMax(t *testing.T) {
	t.Setenv("DOCDEX_MAX_CHUNK_CHARS", "1000")
	t.Setenv("DOCDEX_MIN_CHUNK_CHARS", "2000")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsBadPort(t *testing.T) {
	t.Setenv("DOCDEX_HTTP_PORT", "70000")

	_, err := Load()
	assert.Error(t, err)
}
