// Package config loads runtime settings from the environment, with an
// optional .env file for development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultDBPath           = "./data/docdex.db"
	DefaultDocsDir          = "./docs"
	DefaultMaxChunkChars    = 8000
	DefaultMinChunkChars    = 1200
	DefaultMaxPagesPerChunk = 3
	DefaultTopK             = 5
	DefaultSnippetChars     = 800
	DefaultHTTPHost         = "127.0.0.1"
	DefaultHTTPPort         = 8000
	DefaultWorkers          = 4
)

// Settings holds everything configurable from the environment.
type Settings struct {
	// DBPath is the SQLite database file location.
	DBPath string

	// DocsDir is the default directory scanned by ingestion when the
	// request names no input.
	DocsDir string

	// Chunking limits.
	MaxChunkChars    int
	MinChunkChars    int
	MaxPagesPerChunk int

	// Query defaults.
	TopK         int
	SnippetChars int

	// HTTP bind address.
	HTTPHost string
	HTTPPort int

	// Workers bounds concurrent extraction during ingestion.
	Workers int
}

// Load reads settings from the environment. A .env file in the working
// directory is applied first when present; real environment variables
// win over it.
func Load() (*Settings, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	s := &Settings{
		DBPath:   envString("DOCDEX_DB_PATH", DefaultDBPath),
		DocsDir:  envString("DOCDEX_DOCS_DIR", DefaultDocsDir),
		HTTPHost: envString("DOCDEX_HTTP_HOST", DefaultHTTPHost),
	}

	var err error
	if s.MaxChunkChars, err = envInt("DOCDEX_MAX_CHUNK_CHARS", DefaultMaxChunkChars); err != nil {
		return nil, err
	}
	if s.MinChunkChars, err = envInt("DOCDEX_MIN_CHUNK_CHARS", DefaultMinChunkChars); err != nil {
		return nil, err
	}
	if s.MaxPagesPerChunk, err = envInt("DOCDEX_MAX_PAGES_PER_CHUNK", DefaultMaxPagesPerChunk); err != nil {
		return nil, err
	}
	if s.TopK, err = envInt("DOCDEX_DEFAULT_TOP_K", DefaultTopK); err != nil {
		return nil, err
	}
	if s.SnippetChars, err = envInt("DOCDEX_DEFAULT_SNIPPET_CHARS", DefaultSnippetChars); err != nil {
		return nil, err
	}
	if s.HTTPPort, err = envInt("DOCDEX_HTTP_PORT", DefaultHTTPPort); err != nil {
		return nil, err
	}
	if s.Workers, err = envInt("DOCDEX_WORKERS", DefaultWorkers); err != nil {
		return nil, err
	}

	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Addr is the host:port the HTTP server binds to.
func (s *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.HTTPHost, s.HTTPPort)
}

func (s *Settings) validate() error {
	if s.MaxChunkChars <= 0 {
		return fmt.Errorf("DOCDEX_MAX_CHUNK_CHARS must be positive, got %d", s.MaxChunkChars)
	}
	if s.MinChunkChars <= 0 || s.MinChunkChars > s.MaxChunkChars {
		return fmt.Errorf("DOCDEX_MIN_CHUNK_CHARS must be in (0, %d], got %d", s.MaxChunkChars, s.MinChunkChars)
	}
	if s.MaxPagesPerChunk <= 0 {
		return fmt.Errorf("DOCDEX_MAX_PAGES_PER_CHUNK must be positive, got %d", s.MaxPagesPerChunk)
	}
	if s.TopK <= 0 {
		return fmt.Errorf("DOCDEX_DEFAULT_TOP_K must be positive, got %d", s.TopK)
	}
	if s.SnippetChars <= 0 {
		return fmt.Errorf("DOCDEX_DEFAULT_SNIPPET_CHARS must be positive, got %d", s.SnippetChars)
	}
	if s.HTTPPort <= 0 || s.HTTPPort > 65535 {
		return fmt.Errorf("DOCDEX_HTTP_PORT must be a valid port, got %d", s.HTTPPort)
	}
	if s.Workers <= 0 {
		return fmt.Errorf("DOCDEX_WORKERS must be positive, got %d", s.Workers)
	}
	return nil
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", key, v)
	}
	return n, nil
}
