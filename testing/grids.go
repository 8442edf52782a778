package testing

import (
	"io"
	"math/rand"
	"testing"

	"github.com/dargueta/tilecrunch"
	"github.com/dargueta/tilecrunch/utilities/compression"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

// CreateRandomGrid creates a grid whose tiles are drawn from [0, alphabet). The
// same seed always gives the same grid. It is guaranteed to either return a
// valid grid or fail the test and abort.
func CreateRandomGrid(t *testing.T, width, height, alphabet int, seed int64) tilecrunch.TileGrid {
	require.Greater(t, alphabet, 0, "alphabet must have at least one tile")

	source := rand.New(rand.NewSource(seed))
	tiles := make([]int, width*height)
	for i := range tiles {
		tiles[i] = source.Intn(alphabet)
	}

	grid, err := tilecrunch.NewTileGrid(width, height, tiles)
	require.NoErrorf(t, err, "failed to create random %dx%d grid", width, height)
	return grid
}

// CreateSequentialGrid creates a grid where tile i (row-major) is `i`, so every
// tile is distinct and its value gives its position.
func CreateSequentialGrid(t *testing.T, width, height int) tilecrunch.TileGrid {
	tiles := make([]int, width*height)
	for i := range tiles {
		tiles[i] = i
	}

	grid, err := tilecrunch.NewTileGrid(width, height, tiles)
	require.NoErrorf(t, err, "failed to create sequential %dx%d grid", width, height)
	return grid
}

// CreateBlockGrid lays out 2x2 patterns on a grid `blocksWide` by `blocksHigh`
// blocks in size. `layout` gives the index into `patterns` of each block, in
// row-major block order.
//
// Arguments:
//
//   - blocksWide, blocksHigh: The size of the grid in blocks, not tiles.
//   - layout: One pattern index per block. Must have exactly
//     `blocksWide * blocksHigh` elements.
//   - patterns: The distinct blocks to choose from.
//   - `t`: The testing fixture.
func CreateBlockGrid(
	t *testing.T,
	blocksWide,
	blocksHigh int,
	layout []int,
	patterns []compression.Block,
) tilecrunch.TileGrid {
	require.Len(t, layout, blocksWide*blocksHigh, "layout doesn't cover the grid")

	width := blocksWide * tilecrunch.BlockWidth
	height := blocksHigh * tilecrunch.BlockHeight
	tiles := make([]int, width*height)

	for i, patternIndex := range layout {
		require.Less(t, patternIndex, len(patterns), "block %d uses a missing pattern", i)
		block := patterns[patternIndex]
		x := (i % blocksWide) * tilecrunch.BlockWidth
		y := (i / blocksWide) * tilecrunch.BlockHeight
		tiles[y*width+x] = block[0]
		tiles[y*width+x+1] = block[1]
		tiles[(y+1)*width+x] = block[2]
		tiles[(y+1)*width+x+1] = block[3]
	}

	grid, err := tilecrunch.NewTileGrid(width, height, tiles)
	require.NoError(t, err, "failed to create block grid")
	return grid
}

// CreateDistinctBlockGrid creates a grid of `blocksWide` by `blocksHigh` blocks
// where the first `distinct` blocks are all different and every block after
// that repeats the first one. If `distinct` is 0 every block is the same.
func CreateDistinctBlockGrid(t *testing.T, blocksWide, blocksHigh, distinct int) tilecrunch.TileGrid {
	total := blocksWide * blocksHigh
	require.LessOrEqual(t, distinct, total, "more distinct blocks than the grid holds")

	patterns := make([]compression.Block, distinct+1)
	for i := range patterns {
		patterns[i] = compression.Block{i % 256, i / 256, 0, 0}
	}

	layout := make([]int, total)
	for i := 0; i < distinct; i++ {
		layout[i] = i
	}
	return CreateBlockGrid(t, blocksWide, blocksHigh, layout, patterns)
}

// NewBankStream returns an in-memory stream of exactly `size` zeroed bytes.
//
//   - While the stream can be written to, its size is fixed. Attempting to write
//     past the end will trigger an error.
//   - Seek back to the start before reading what was written.
func NewBankStream(size int) io.ReadWriteSeeker {
	return bytesextra.NewReadWriteSeeker(make([]byte, size))
}
