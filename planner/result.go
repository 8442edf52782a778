package planner

import (
	"github.com/dargueta/tilecrunch/utilities/compression"
)

// Result is the encoded form of one region: the whole grid, or a single room.
type Result struct {
	// Region is the index of the room in partition order, or 0 for whole-grid
	// modes.
	Region int
	// OriginX and OriginY give the region's top-left corner in the grid.
	OriginX int
	OriginY int
	Width   int
	Height  int

	// Stream is the payload: tiles for raw mode, the flattened token stream for
	// RLE modes, dictionary indices for block modes.
	Stream []int
	// Dictionary is only set in block modes.
	Dictionary []compression.Block

	StreamUnits     int
	DictionaryUnits int
	// ElementBytes gives the size of one Stream element in a bank image.
	ElementBytes int
}

// TotalSize gives the size of the region, payload plus dictionary, in size
// units.
func (r Result) TotalSize() int {
	return r.StreamUnits + r.DictionaryUnits
}

// Artifact is everything written out for one grid in one mode.
type Artifact struct {
	Mode       Mode
	Width      int
	Height     int
	RoomWidth  int
	RoomHeight int
	// Results holds one entry per region, in partition order.
	Results []Result
	// TotalSize is the sum of TotalSize over all results.
	TotalSize int
	// SourceUnits is the size of the grid before compression, one unit per
	// tile.
	SourceUnits int
}

// Ratio gives the compression ratio, i.e. how many times smaller the artifact
// is than the raw grid.
func (a Artifact) Ratio() float64 {
	if a.TotalSize == 0 {
		return 0
	}
	return float64(a.SourceUnits) / float64(a.TotalSize)
}

// DictionaryEntries gives the largest dictionary of any region.
func (a Artifact) DictionaryEntries() int {
	largest := 0
	for _, result := range a.Results {
		if len(result.Dictionary) > largest {
			largest = len(result.Dictionary)
		}
	}
	return largest
}

// Attempt is the outcome of planning one mode, successful or not.
type Attempt struct {
	Mode     Mode
	Artifact Artifact
	Err      error
}
