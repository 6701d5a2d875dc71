package indexer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/docdex/internal/chunker"
	"github.com/dshills/docdex/internal/extractor"
	"github.com/dshills/docdex/internal/identity"
	"github.com/dshills/docdex/internal/storage"
	"github.com/dshills/docdex/pkg/types"
)

// DefaultWorkers bounds concurrent extract+chunk work when the caller
// doesn't choose a pool size.
const DefaultWorkers = 4

// FileError records a single file that failed to ingest.
type FileError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// Stats summarises one ingestion batch.
type Stats struct {
	Indexed  int           `json:"indexed"`
	Skipped  int           `json:"skipped"`
	Errors   []FileError   `json:"errors"`
	Duration time.Duration `json:"duration"`
}

// Indexer runs the ingestion pipeline against a storage backend.
type Indexer struct {
	storage   *storage.Storage
	extractor extractor.PageExtractor
	limits    chunker.Limits
	workers   int
	logger    *zap.Logger
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithLimits overrides the default chunking limits.
func WithLimits(limits chunker.Limits) Option {
	return func(ix *Indexer) { ix.limits = limits }
}

// WithWorkers sets the extraction worker pool size.
func WithWorkers(n int) Option {
	return func(ix *Indexer) {
		if n > 0 {
			ix.workers = n
		}
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(logger *zap.Logger) Option {
	return func(ix *Indexer) { ix.logger = logger }
}

// New creates an Indexer over the given store and page extractor.
func New(store *storage.Storage, ext extractor.PageExtractor, opts ...Option) *Indexer {
	ix := &Indexer{
		storage:   store,
		extractor: ext,
		workers:   DefaultWorkers,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// fileOutcome is the per-file result slot. Exactly one of skipped,
// failErr, or a committed document applies.
type fileOutcome struct {
	path    string
	skipped bool
	failErr error
}

// IngestBatch ingests the given files, skipping unchanged ones unless
// force is set. Files are extracted and chunked in parallel; commits are
// serialised by the storage layer. A failed file is recorded in the
// returned stats and never cancels the batch; only context cancellation
// aborts early.
func (ix *Indexer) IngestBatch(ctx context.Context, paths []string, force bool) (*Stats, error) {
	start := time.Now()
	outcomes := make([]fileOutcome, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = ix.ingestOne(gctx, path, force)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &Stats{}
	for _, out := range outcomes {
		switch {
		case out.failErr != nil:
			stats.Errors = append(stats.Errors, FileError{File: out.path, Error: out.failErr.Error()})
		case out.skipped:
			stats.Skipped++
		default:
			stats.Indexed++
		}
	}
	stats.Duration = time.Since(start)

	ix.logger.Info("ingestion batch complete",
		zap.Int("indexed", stats.Indexed),
		zap.Int("skipped", stats.Skipped),
		zap.Int("errors", len(stats.Errors)),
		zap.Duration("duration", stats.Duration))

	return stats, nil
}

// ingestOne runs the full pipeline for a single file.
func (ix *Indexer) ingestOne(ctx context.Context, path string, force bool) fileOutcome {
	out := fileOutcome{path: path}

	abs, err := filepath.Abs(path)
	if err != nil {
		out.failErr = err
		return out
	}
	out.path = abs

	info, err := os.Stat(abs)
	if err != nil {
		out.failErr = err
		return out
	}
	mtimeNS := info.ModTime().UnixNano()
	sizeBytes := info.Size()

	existing, err := ix.storage.GetDocumentByPath(ctx, abs)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		out.failErr = err
		return out
	}

	if !shouldReindex(existing, mtimeNS, sizeBytes, force) {
		ix.logger.Debug("unchanged, skipping", zap.String("path", abs))
		out.skipped = true
		return out
	}

	id, err := identity.FromFile(abs)
	if err != nil {
		out.failErr = err
		return out
	}

	pages, err := ix.extractor.ExtractPages(ctx, abs)
	if err != nil {
		out.failErr = err
		return out
	}

	chunks := chunker.Split(pages, ix.limits)
	for i := range chunks {
		chunks[i].ID = uuid.NewString()
		chunks[i].DocumentID = id.StableID
		chunks[i].DocumentPath = abs
	}

	doc := &types.Document{
		ID:          id.StableID,
		Path:        abs,
		Filename:    filepath.Base(abs),
		ContentHash: id.ContentHash,
		MtimeNS:     mtimeNS,
		SizeBytes:   sizeBytes,
		IndexedAt:   time.Now().UTC(),
	}

	if err := ix.storage.ReplaceDocument(ctx, doc, chunks); err != nil {
		out.failErr = err
		return out
	}

	ix.logger.Debug("indexed",
		zap.String("path", abs),
		zap.Int("pages", len(pages)),
		zap.Int("chunks", len(chunks)))
	return out
}
