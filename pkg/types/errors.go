package types

import "errors"

// Domain errors shared across the pipeline
var (
	// ErrEmptyQuery is returned when a search query is empty or blank
	// after trimming. It is an input error, not a zero-result match.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrInvalidPageRange is returned when a chunk's page range is not a
	// valid inclusive 1-based range.
	ErrInvalidPageRange = errors.New("page_start must be >= 1 and <= page_end")

	// ErrEmptyChunkText is returned when a chunk carries no text.
	ErrEmptyChunkText = errors.New("chunk text cannot be empty")
)

// Validate checks the chunk's structural invariants.
func (c *Chunk) Validate() error {
	if c.PageStart < 1 || c.PageEnd < c.PageStart {
		return ErrInvalidPageRange
	}
	if c.Text == "" {
		return ErrEmptyChunkText
	}
	return nil
}
