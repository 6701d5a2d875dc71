package chunker

import (
	"strings"

	"github.com/dshills/docdex/internal/textutil"
	"github.com/dshills/docdex/pkg/types"
)

// Default limits, used when a Limits field is unset.
const (
	DefaultMaxChars         = 8000
	DefaultMinChars         = 1200
	DefaultMaxPagesPerChunk = 3
)

// Limits bounds the size and page span of produced chunks.
type Limits struct {
	// MaxChars caps the joined character length of a chunk. A chunk may
	// exceed it only via the MinChars relaxation or a single oversized
	// page.
	MaxChars int

	// MinChars is the size below which a chunk prefers to absorb one
	// more page instead of being flushed as a runt.
	MinChars int

	// MaxPagesPerChunk caps the page span (counted by page position,
	// including empty pages inside the range).
	MaxPagesPerChunk int
}

// withDefaults fills unset fields.
func (l Limits) withDefaults() Limits {
	if l.MaxChars <= 0 {
		l.MaxChars = DefaultMaxChars
	}
	if l.MinChars <= 0 {
		l.MinChars = DefaultMinChars
	}
	if l.MaxPagesPerChunk <= 0 {
		l.MaxPagesPerChunk = DefaultMaxPagesPerChunk
	}
	return l
}

// accumulator is the chunk-in-progress state: buffered page texts plus the
// 1-based page range they cover.
type accumulator struct {
	buf       []string
	bufLen    int // joined length of buf, including separators
	startPage int
	endPage   int
}

// start begins a new chunk at the given page.
func (a *accumulator) start(page int, text string) {
	a.buf = append(a.buf[:0], text)
	a.bufLen = len(text)
	a.startPage = page
	a.endPage = page
}

// extend appends a page to the chunk in progress.
func (a *accumulator) extend(page int, text string) {
	a.buf = append(a.buf, text)
	a.bufLen += 1 + len(text)
	a.endPage = page
}

// span is the number of pages the chunk would cover if extended to page,
// counted by page position rather than by pages accumulated.
func (a *accumulator) span(page int) int {
	return page - a.startPage + 1
}

// flush emits the buffered pages as a completed chunk and resets the
// accumulator. Returns nil when the buffer is empty or normalises to
// nothing (whitespace-only pages are filtered before buffering, so the
// latter is defensive).
func (a *accumulator) flush() *types.Chunk {
	if len(a.buf) == 0 {
		return nil
	}
	text := textutil.Normalize(strings.Join(a.buf, "\n"))
	chunk := (*types.Chunk)(nil)
	if text != "" {
		chunk = &types.Chunk{
			PageStart: a.startPage,
			PageEnd:   a.endPage,
			Text:      text,
		}
	}
	a.buf = a.buf[:0]
	a.bufLen = 0
	return chunk
}

// Split partitions pages into chunks honouring the limits. pages[i] is the
// normalised text of page i+1. Chunks come back in page order with
// non-overlapping ranges covering every non-empty page exactly once.
// An entirely empty document yields zero chunks, which is valid.
func Split(pages []string, limits Limits) []types.Chunk {
	limits = limits.withDefaults()

	var chunks []types.Chunk
	var acc accumulator

	emit := func() {
		if c := acc.flush(); c != nil {
			chunks = append(chunks, *c)
		}
	}

	for i, text := range pages {
		page := i + 1

		// Empty pages neither start nor extend a chunk. The in-progress
		// range stays open across them.
		if strings.TrimSpace(text) == "" {
			continue
		}

		if len(acc.buf) == 0 {
			acc.start(page, text)
			continue
		}

		candidateLen := acc.bufLen + 1 + len(text)
		switch {
		case candidateLen <= limits.MaxChars && acc.span(page) <= limits.MaxPagesPerChunk:
			acc.extend(page, text)
		case acc.bufLen < limits.MinChars && acc.span(page) <= limits.MaxPagesPerChunk:
			// Oversized beats undersized: absorb the page and close
			// the chunk out so ranges never overlap.
			acc.extend(page, text)
			emit()
		default:
			emit()
			acc.start(page, text)
		}
	}

	emit()
	return chunks
}
