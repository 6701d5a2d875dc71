// Package identity derives stable, content-addressed identifiers for
// documents from their bytes.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// hashBufferSize is the block size used when streaming file bytes through
// the hash, so large PDFs are never held in memory whole.
const hashBufferSize = 1 << 20

// Identity captures the content-derived ID and staleness metadata for one
// file at a point in time.
type Identity struct {
	// ContentHash is the hex SHA-256 digest of the full file bytes.
	ContentHash string

	// StableID is the content-addressed identifier. It is defined as
	// ContentHash: byte-identical files receive the identical ID
	// regardless of path.
	StableID string

	SizeBytes int64
	MtimeNS   int64
}

// FromFile computes the identity of the file at path, streaming its bytes
// in fixed-size blocks. Only I/O failures are possible.
func FromFile(path string) (Identity, error) {
	f, err := os.Open(path)
	if err != nil {
		return Identity{}, fmt.Errorf("opening file: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return Identity{}, fmt.Errorf("stat file: %w", err)
	}

	h := sha256.New()
	buf := make([]byte, hashBufferSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return Identity{}, fmt.Errorf("hashing file: %w", err)
	}

	digest := hex.EncodeToString(h.Sum(nil))
	return Identity{
		ContentHash: digest,
		StableID:    digest,
		SizeBytes:   info.Size(),
		MtimeNS:     info.ModTime().UnixNano(),
	}, nil
}
