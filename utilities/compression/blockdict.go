package compression

import (
	"github.com/dargueta/tilecrunch"
)

// Block is a 2x2 group of tiles in the order top-left, top-right, bottom-left,
// bottom-right. Two blocks are the same only if all four tiles match in the
// same positions, so rotations and reflections are distinct.
type Block [tilecrunch.BlockTiles]int

// BlockDictionary assigns consecutive indices to distinct blocks in the order
// they're first inserted. Indices are never reused or reordered.
//
// A dictionary is meant to be owned by a single encoding pass and is not safe
// for concurrent use.
type BlockDictionary struct {
	indices map[Block]int
	entries []Block
}

func NewBlockDictionary() *BlockDictionary {
	return &BlockDictionary{indices: make(map[Block]int)}
}

// InsertOrGet returns the index of `block`, adding it to the end of the
// dictionary first if it isn't there yet. `inserted` is true if the block was
// added by this call.
func (d *BlockDictionary) InsertOrGet(block Block) (index int, inserted bool) {
	if index, ok := d.indices[block]; ok {
		return index, false
	}

	index = len(d.entries)
	d.indices[block] = index
	d.entries = append(d.entries, block)
	return index, true
}

// Lookup returns the index of `block` without modifying the dictionary.
func (d *BlockDictionary) Lookup(block Block) (int, bool) {
	index, ok := d.indices[block]
	return index, ok
}

// Len gives the number of distinct blocks in the dictionary.
func (d *BlockDictionary) Len() int {
	return len(d.entries)
}

// At returns the block with the given index.
func (d *BlockDictionary) At(index int) Block {
	return d.entries[index]
}

// Entries returns a copy of the blocks in index order.
func (d *BlockDictionary) Entries() []Block {
	entries := make([]Block, len(d.entries))
	copy(entries, d.entries)
	return entries
}

// Flatten returns the tiles of every block in index order, four per block.
func (d *BlockDictionary) Flatten() []int {
	return FlattenBlocks(d.entries)
}

// Units gives the size of the flattened dictionary.
func (d *BlockDictionary) Units() int {
	return len(d.entries) * tilecrunch.BlockTiles
}

// FlattenBlocks expands a list of blocks into their tiles, four per block.
func FlattenBlocks(blocks []Block) []int {
	tiles := make([]int, 0, len(blocks)*tilecrunch.BlockTiles)
	for _, block := range blocks {
		tiles = append(tiles, block[:]...)
	}
	return tiles
}
