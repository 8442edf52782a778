package compression

import (
	"fmt"

	"github.com/dargueta/tilecrunch"
)

// BlockPayload is a grid encoded as one dictionary index per 2x2 block, in
// row-major block order. The indices only make sense with the dictionary they
// were built against.
type BlockPayload struct {
	Indices    []int
	Dictionary []Block
	// BlocksWide and BlocksHigh give the size of the grid in blocks.
	BlocksWide int
	BlocksHigh int
}

// DictionaryUnits gives the size of the flattened dictionary.
func (p BlockPayload) DictionaryUnits() int {
	return len(p.Dictionary) * tilecrunch.BlockTiles
}

// EncodeBlocks replaces every 2x2 block of the grid with its index in a
// dictionary built on the fly. Both dimensions of the grid must be even.
//
// Each call starts from an empty dictionary. If the grid has more than
// [tilecrunch.MaxDictionaryEntries] distinct blocks, it fails with
// [tilecrunch.ErrDictionaryOverflow].
func EncodeBlocks(grid tilecrunch.TileGrid) (BlockPayload, error) {
	width := grid.Width()
	height := grid.Height()
	if width <= 0 || height <= 0 || width%tilecrunch.BlockWidth != 0 || height%tilecrunch.BlockHeight != 0 {
		return BlockPayload{}, tilecrunch.ErrInvalidBlockGrid.WithMessage(
			fmt.Sprintf("%dx%d grid has an odd dimension", width, height))
	}

	blocksWide := width / tilecrunch.BlockWidth
	blocksHigh := height / tilecrunch.BlockHeight
	dictionary := NewBlockDictionary()
	indices := make([]int, 0, blocksWide*blocksHigh)

	for y := 0; y < height; y += tilecrunch.BlockHeight {
		for x := 0; x < width; x += tilecrunch.BlockWidth {
			block := Block{
				grid.At(x, y),
				grid.At(x+1, y),
				grid.At(x, y+1),
				grid.At(x+1, y+1),
			}

			index, inserted := dictionary.InsertOrGet(block)
			if inserted && dictionary.Len() > tilecrunch.MaxDictionaryEntries {
				return BlockPayload{}, tilecrunch.ErrDictionaryOverflow.WithMessage(
					fmt.Sprintf(
						"block %v at (%d, %d) is distinct block number %d, limit is %d",
						block,
						x,
						y,
						dictionary.Len(),
						tilecrunch.MaxDictionaryEntries,
					))
			}
			indices = append(indices, index)
		}
	}

	return BlockPayload{
		Indices:    indices,
		Dictionary: dictionary.Entries(),
		BlocksWide: blocksWide,
		BlocksHigh: blocksHigh,
	}, nil
}

// DecodeBlocks rebuilds the grid a [BlockPayload] was encoded from.
func DecodeBlocks(payload BlockPayload) (tilecrunch.TileGrid, error) {
	if payload.BlocksWide <= 0 || payload.BlocksHigh <= 0 {
		return tilecrunch.TileGrid{}, tilecrunch.ErrMalformedStream.WithMessage(
			fmt.Sprintf("bad block dimensions %dx%d", payload.BlocksWide, payload.BlocksHigh))
	}
	if len(payload.Indices) != payload.BlocksWide*payload.BlocksHigh {
		return tilecrunch.TileGrid{}, tilecrunch.ErrMalformedStream.WithMessage(
			fmt.Sprintf(
				"%dx%d blocks need %d indices, got %d",
				payload.BlocksWide,
				payload.BlocksHigh,
				payload.BlocksWide*payload.BlocksHigh,
				len(payload.Indices),
			))
	}

	width := payload.BlocksWide * tilecrunch.BlockWidth
	height := payload.BlocksHigh * tilecrunch.BlockHeight
	tiles := make([]int, width*height)

	for i, index := range payload.Indices {
		if index < 0 || index >= len(payload.Dictionary) {
			return tilecrunch.TileGrid{}, tilecrunch.ErrMalformedStream.WithMessage(
				fmt.Sprintf(
					"block %d refers to entry %d of a %d-entry dictionary",
					i,
					index,
					len(payload.Dictionary),
				))
		}

		block := payload.Dictionary[index]
		x := (i % payload.BlocksWide) * tilecrunch.BlockWidth
		y := (i / payload.BlocksWide) * tilecrunch.BlockHeight
		tiles[y*width+x] = block[0]
		tiles[y*width+x+1] = block[1]
		tiles[(y+1)*width+x] = block[2]
		tiles[(y+1)*width+x+1] = block[3]
	}

	return tilecrunch.NewTileGrid(width, height, tiles)
}
