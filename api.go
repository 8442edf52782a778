package tilecrunch

import "fmt"

const (
	// MaxRunLength is the longest run a single RLE run token can describe.
	MaxRunLength = 255
	// MaxLiteralLength is the most tiles a single literal-escape token can carry.
	MaxLiteralLength = 255
	// MaxDictionaryEntries is the largest block dictionary whose indices still
	// fit in one byte.
	MaxDictionaryEntries = 255
	// MaxTileValue is the largest tile index that can be stored in a one-byte
	// slot of a bank image.
	MaxTileValue = 255
	// BankSize is the payload ceiling for one output artifact, in size units.
	// It matches the 8 KiB ROM bank of the target.
	BankSize = 8192

	BlockWidth  = 2
	BlockHeight = 2
	BlockTiles  = BlockWidth * BlockHeight
)

// TileGrid is an immutable rectangular grid of tile indices stored row-major,
// i.e. the tile at (x, y) lives at index `y*width + x`.
//
// The zero value is an empty grid and is not valid input for any codec. Use
// [NewTileGrid] to construct one.
type TileGrid struct {
	width  int
	height int
	tiles  []int
}

// NewTileGrid validates its arguments and returns a grid holding a copy of
// `tiles`. Modifying the slice afterwards does not affect the grid.
func NewTileGrid(width, height int, tiles []int) (TileGrid, error) {
	if width <= 0 || height <= 0 {
		return TileGrid{}, ErrInvalidGrid.WithMessage(
			fmt.Sprintf("dimensions must be positive, got %dx%d", width, height))
	}
	if len(tiles) != width*height {
		return TileGrid{}, ErrInvalidGrid.WithMessage(
			fmt.Sprintf(
				"%dx%d grid needs %d tiles, got %d",
				width,
				height,
				width*height,
				len(tiles),
			))
	}

	for i, tile := range tiles {
		if tile < 0 {
			return TileGrid{}, ErrInvalidGrid.WithMessage(
				fmt.Sprintf("tile %d at (%d, %d) is negative", tile, i%width, i/width))
		}
	}

	copied := make([]int, len(tiles))
	copy(copied, tiles)
	return TileGrid{width: width, height: height, tiles: copied}, nil
}

// MustNewTileGrid is like [NewTileGrid] but panics on invalid input. It's
// intended for fixtures and literals known to be well-formed.
func MustNewTileGrid(width, height int, tiles []int) TileGrid {
	grid, err := NewTileGrid(width, height, tiles)
	if err != nil {
		panic(err)
	}
	return grid
}

func (g TileGrid) Width() int {
	return g.width
}

func (g TileGrid) Height() int {
	return g.height
}

// Len gives the number of tiles in the grid.
func (g TileGrid) Len() int {
	return len(g.tiles)
}

// At returns the tile at column x, row y. It panics if the coordinates are out
// of bounds, like indexing a slice would.
func (g TileGrid) At(x, y int) int {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		panic(fmt.Sprintf("tile (%d, %d) outside %dx%d grid", x, y, g.width, g.height))
	}
	return g.tiles[y*g.width+x]
}

// Tiles returns a copy of the grid's tiles in row-major order.
func (g TileGrid) Tiles() []int {
	copied := make([]int, len(g.tiles))
	copy(copied, g.tiles)
	return copied
}

// Row returns a copy of row y.
func (g TileGrid) Row(y int) []int {
	row := make([]int, g.width)
	copy(row, g.tiles[y*g.width:(y+1)*g.width])
	return row
}

// Crop copies the w by h rectangle whose top-left corner is at (x, y) into a
// new grid.
func (g TileGrid) Crop(x, y, w, h int) (TileGrid, error) {
	if w <= 0 || h <= 0 || x < 0 || y < 0 || x+w > g.width || y+h > g.height {
		return TileGrid{}, ErrInvalidGrid.WithMessage(
			fmt.Sprintf(
				"rectangle %dx%d at (%d, %d) is outside the %dx%d grid",
				w, h, x, y, g.width, g.height,
			))
	}

	tiles := make([]int, 0, w*h)
	for row := y; row < y+h; row++ {
		offset := row*g.width + x
		tiles = append(tiles, g.tiles[offset:offset+w]...)
	}
	return TileGrid{width: w, height: h, tiles: tiles}, nil
}

// Equal returns true if both grids have the same dimensions and tiles.
func (g TileGrid) Equal(other TileGrid) bool {
	if g.width != other.width || g.height != other.height {
		return false
	}
	for i := range g.tiles {
		if g.tiles[i] != other.tiles[i] {
			return false
		}
	}
	return true
}

func (g TileGrid) String() string {
	return fmt.Sprintf("TileGrid(%dx%d)", g.width, g.height)
}

// Room is a fixed-size piece of a larger grid. It owns a copy of its tiles; the
// index and origin only record where it came from.
type Room struct {
	TileGrid
	// Index is the position of the room in the partition's enumeration order.
	Index int
	// OriginX and OriginY give the room's top-left corner in the parent grid,
	// in tiles.
	OriginX int
	OriginY int
}
