package planner

import (
	"fmt"
	"strings"

	"github.com/dargueta/tilecrunch"
)

// Mode selects how an artifact is encoded.
type Mode int

const (
	// ModeRaw stores the tiles as they are, one unit per tile.
	ModeRaw Mode = iota
	// ModeWholeRLE run-length encodes the whole grid as one stream.
	ModeWholeRLE
	// ModeWholeBlock encodes the whole grid with one block dictionary. Indices
	// are stored as 16-bit words.
	ModeWholeBlock
	// ModeRoomsRLE splits the grid into rooms and run-length encodes each one.
	ModeRoomsRLE
	// ModeRoomsBlock splits the grid into rooms and gives each one its own
	// block dictionary. Indices are stored as single bytes.
	ModeRoomsBlock
)

var modeNames = []string{
	ModeRaw:        "raw",
	ModeWholeRLE:   "whole-rle",
	ModeWholeBlock: "whole-block",
	ModeRoomsRLE:   "rooms-rle",
	ModeRoomsBlock: "rooms-block",
}

// Modes returns every mode in numerical order.
func Modes() []Mode {
	return []Mode{ModeRaw, ModeWholeRLE, ModeWholeBlock, ModeRoomsRLE, ModeRoomsBlock}
}

// ModeNames returns the names accepted by [ParseMode], in numerical order.
func ModeNames() []string {
	names := make([]string, len(modeNames))
	copy(names, modeNames)
	return names
}

// ParseMode converts a mode name such as "rooms-block" into a [Mode]. Matching
// ignores case and surrounding whitespace.
func ParseMode(name string) (Mode, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i, modeName := range modeNames {
		if modeName == normalized {
			return Mode(i), nil
		}
	}
	return 0, tilecrunch.ErrInvalidMode.WithMessage(
		fmt.Sprintf("%q is not one of %s", name, strings.Join(modeNames, ", ")))
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// IsValid returns true if m is one of the defined modes.
func (m Mode) IsValid() bool {
	return m >= 0 && int(m) < len(modeNames)
}

// UsesRooms returns true if the mode splits the grid into rooms first.
func (m Mode) UsesRooms() bool {
	return m == ModeRoomsRLE || m == ModeRoomsBlock
}

// UsesBlocks returns true if the mode uses the block dictionary codec.
func (m Mode) UsesBlocks() bool {
	return m == ModeWholeBlock || m == ModeRoomsBlock
}

// UsesRLE returns true if the mode uses the run-length codec.
func (m Mode) UsesRLE() bool {
	return m == ModeWholeRLE || m == ModeRoomsRLE
}

// ElementBytes gives the size in bytes of one element of the mode's payload
// stream in a bank image. Dictionary tiles always take one byte.
func (m Mode) ElementBytes() int {
	switch m {
	case ModeWholeRLE, ModeRoomsRLE:
		// Literal counts go down to -255 so they need a full word, but they're
		// still accounted as one unit each.
		return 2
	case ModeWholeBlock:
		return 2
	default:
		return 1
	}
}

// StreamUnitsPerElement gives how many size units each payload element counts
// for when checking the ceiling.
func (m Mode) StreamUnitsPerElement() int {
	if m == ModeWholeBlock {
		return 2
	}
	return 1
}
