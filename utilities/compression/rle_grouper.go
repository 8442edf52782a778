package compression

import (
	"io"
)

// TileRun represents a single run of a particular tile value.
type TileRun struct {
	// Tile is the tile value for this run.
	Tile int
	// RunLength gives the number of times the tile occurs in the run (not the
	// number of times it's repeated).
	//
	// A valid run will always have this be 1 or greater. A value less than 1
	// indicates the end of the input was reached.
	RunLength int
}

// InvalidTileRun is returned by [RunLengthGrouper] once the input is exhausted.
var InvalidTileRun = TileRun{Tile: -1, RunLength: 0}

// RunLengthGrouper is a cursor over a tile sequence that groups consecutive
// identical tiles into runs.
type RunLengthGrouper struct {
	tiles    []int
	position int
}

func NewRunLengthGrouper(tiles []int) *RunLengthGrouper {
	return &RunLengthGrouper{tiles: tiles}
}

// Position gives the index of the next tile to be consumed.
func (grouper *RunLengthGrouper) Position() int {
	return grouper.position
}

// Remaining gives the number of tiles not consumed yet.
func (grouper *RunLengthGrouper) Remaining() int {
	return len(grouper.tiles) - grouper.position
}

// PeekRun returns the run starting at the current position without consuming
// it. Runs are cut off at `maxLength` tiles. At the end of the input it returns
// [InvalidTileRun] and [io.EOF].
func (grouper *RunLengthGrouper) PeekRun(maxLength int) (TileRun, error) {
	if grouper.position >= len(grouper.tiles) {
		return InvalidTileRun, io.EOF
	}

	firstTile := grouper.tiles[grouper.position]
	runLength := 1
	for grouper.position+runLength < len(grouper.tiles) &&
		runLength < maxLength &&
		grouper.tiles[grouper.position+runLength] == firstTile {
		runLength++
	}
	return TileRun{Tile: firstTile, RunLength: runLength}, nil
}

// GetNextRun returns a [TileRun] for the next tile or run of tiles in the
// sequence and consumes it.
func (grouper *RunLengthGrouper) GetNextRun(maxLength int) (TileRun, error) {
	run, err := grouper.PeekRun(maxLength)
	if err != nil {
		return run, err
	}
	grouper.position += run.RunLength
	return run, nil
}

// LiteralSpan gives the number of tiles, starting at the current position,
// that belong in a literal-escape token. It never returns more than
// `maxLength`, and returns 0 only at the end of the input.
//
// The span keeps going over isolated pairs of equal tiles and stops at the
// third tile of a triple, looking back across the start of the span if need
// be. If the span then ends in the middle of a repeat, it's shortened so that
// the whole repeat goes to the next token.
func (grouper *RunLengthGrouper) LiteralSpan(maxLength int) int {
	start := grouper.position
	size := len(grouper.tiles)
	if start >= size {
		return 0
	}

	tiles := grouper.tiles
	end := start + 1
	for end < size && end-start < maxLength &&
		(tiles[end] != tiles[end-1] || (end > 1 && tiles[end] != tiles[end-2])) {
		end++
	}

	for end < size && end > start+1 && tiles[end] == tiles[end-1] {
		end--
	}
	return end - start
}

// Take consumes the next `count` tiles and returns them as a new slice. It
// returns [io.ErrUnexpectedEOF] and consumes nothing if fewer than `count`
// tiles remain.
func (grouper *RunLengthGrouper) Take(count int) ([]int, error) {
	if count > grouper.Remaining() {
		return nil, io.ErrUnexpectedEOF
	}

	taken := make([]int, count)
	copy(taken, grouper.tiles[grouper.position:grouper.position+count])
	grouper.position += count
	return taken, nil
}
