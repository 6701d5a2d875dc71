// Package chunker partitions a document's per-page text into page-bounded
// chunks suitable for full-text indexing.
//
// Pages are accumulated greedily, in order, until adding the next page
// would exceed the character budget or the page-span budget. A chunk that
// is still below the minimum size when it hits a limit absorbs one more
// page rather than being emitted as a runt, at the cost of occasionally
// exceeding the character budget. Pages are never split: a single page
// larger than the budget becomes its own one-page chunk.
//
// Empty pages neither start nor extend a chunk, but they still count
// toward the page span of the chunk they fall inside, so page ranges stay
// contiguous and never overlap.
package chunker
