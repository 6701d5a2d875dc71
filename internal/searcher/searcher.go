package searcher

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dshills/docdex/internal/storage"
	"github.com/dshills/docdex/pkg/types"
)

// Bounds applied to incoming requests.
const (
	MinTopK = 1
	MaxTopK = 100

	DefaultTopK         = 5
	DefaultSnippetChars = 800

	// FTS5 snippet budgets are counted in tokens and capped at 64 by the
	// engine; requested character budgets map through charsPerToken.
	charsPerToken    = 4
	minSnippetTokens = 10
	maxSnippetTokens = 64

	cacheSize       = 1000
	defaultCacheTTL = time.Minute
)

// Request is one search invocation. Zero TopK and SnippetChars take the
// defaults; out-of-range values are clamped rather than rejected.
type Request struct {
	Query        string
	TopK         int
	SnippetChars int
}

// Response carries the results plus query metadata.
type Response struct {
	Results      []types.SearchResult
	TotalResults int
	Duration     time.Duration
	CacheHit     bool
}

// cacheEntry is a cached result set with its expiration time.
type cacheEntry struct {
	results   []types.SearchResult
	expiresAt time.Time
}

// Searcher validates and executes full-text queries against the store.
type Searcher struct {
	storage *storage.Storage
	cache   *lru.Cache[[32]byte, *cacheEntry]
	cacheMu sync.RWMutex
	ttl     time.Duration
}

// New creates a Searcher over the given store.
func New(store *storage.Storage) *Searcher {
	cache, err := lru.New[[32]byte, *cacheEntry](cacheSize)
	if err != nil {
		// Only possible with a non-positive size.
		panic(fmt.Sprintf("failed to create query cache: %v", err))
	}
	return &Searcher{
		storage: store,
		cache:   cache,
		ttl:     defaultCacheTTL,
	}
}

// Search runs one full-text query. The query string reaches the index
// unmodified, so FTS5 phrase and boolean syntax works; a blank query is
// rejected with types.ErrEmptyQuery.
func (s *Searcher) Search(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return nil, types.ErrEmptyQuery
	}
	req.TopK = clamp(orDefault(req.TopK, DefaultTopK), MinTopK, MaxTopK)
	req.SnippetChars = orDefault(req.SnippetChars, DefaultSnippetChars)
	snippetTokens := clamp(req.SnippetChars/charsPerToken, minSnippetTokens, maxSnippetTokens)

	key := cacheKey(req)
	if results, ok := s.lookup(key); ok {
		return &Response{
			Results:      results,
			TotalResults: len(results),
			Duration:     time.Since(start),
			CacheHit:     true,
		}, nil
	}

	results, err := s.storage.SearchChunks(ctx, req.Query, req.TopK, snippetTokens)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	s.store(key, results)

	return &Response{
		Results:      results,
		TotalResults: len(results),
		Duration:     time.Since(start),
	}, nil
}

// InvalidateCache drops all cached queries. Called after ingestion so
// results never reflect superseded chunks.
func (s *Searcher) InvalidateCache() {
	s.cacheMu.Lock()
	s.cache.Purge()
	s.cacheMu.Unlock()
}

// lookup returns a live cached result set for the key.
func (s *Searcher) lookup(key [32]byte) ([]types.SearchResult, bool) {
	s.cacheMu.RLock()
	entry, found := s.cache.Get(key)
	if !found {
		s.cacheMu.RUnlock()
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		s.cacheMu.RUnlock()
		s.cacheMu.Lock()
		s.cache.Remove(key)
		s.cacheMu.Unlock()
		return nil, false
	}
	results := copyResults(entry.results)
	s.cacheMu.RUnlock()
	return results, true
}

// store caches a result set with the configured TTL.
func (s *Searcher) store(key [32]byte, results []types.SearchResult) {
	entry := &cacheEntry{
		results:   copyResults(results),
		expiresAt: time.Now().Add(s.ttl),
	}
	s.cacheMu.Lock()
	s.cache.Add(key, entry)
	s.cacheMu.Unlock()
}

// cacheKey hashes the normalised request parameters.
func cacheKey(req Request) [32]byte {
	return sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%d", req.Query, req.TopK, req.SnippetChars)))
}

// copyResults shields cached slices from caller mutation.
func copyResults(src []types.SearchResult) []types.SearchResult {
	if src == nil {
		return nil
	}
	dst := make([]types.SearchResult, len(src))
	copy(dst, src)
	return dst
}

func clamp(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
