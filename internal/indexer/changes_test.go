package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/docdex/pkg/types"
)

func TestShouldReindex(t *testing.T) {
	stored := &types.Document{MtimeNS: 1000, SizeBytes: 50}

	tests := []struct {
		name     string
		existing *types.Document
		mtimeNS  int64
		size     int64
		force    bool
		want     bool
	}{
		{"never seen", nil, 1000, 50, false, true},
		{"unchanged", stored, 1000, 50, false, false},
		{"mtime moved", stored, 1001, 50, false, true},
		{"size changed", stored, 1000, 51, false, true},
		{"both changed", stored, 2000, 99, false, true},
		{"force overrides unchanged", stored, 1000, 50, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldReindex(tt.existing, tt.mtimeNS, tt.size, tt.force))
		})
	}
}
