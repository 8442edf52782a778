package planner

import (
	"fmt"

	"github.com/dargueta/tilecrunch"
	"github.com/dargueta/tilecrunch/partition"
	"github.com/dargueta/tilecrunch/utilities/compression"
)

// Decode rebuilds the grid an artifact was planned from.
func (p *Planner) Decode(artifact Artifact) (tilecrunch.TileGrid, error) {
	if !artifact.Mode.IsValid() {
		return tilecrunch.TileGrid{}, tilecrunch.ErrInvalidMode.WithMessage(artifact.Mode.String())
	}
	p.logger.Trace("decoding artifact", "mode", artifact.Mode, "regions", len(artifact.Results))

	if !artifact.Mode.UsesRooms() {
		if len(artifact.Results) != 1 {
			return tilecrunch.TileGrid{}, tilecrunch.ErrMalformedStream.WithMessage(
				fmt.Sprintf("%s artifact has %d regions, expected 1", artifact.Mode, len(artifact.Results)))
		}
		return DecodeResult(artifact.Mode, artifact.Results[0])
	}

	rooms := make([]tilecrunch.Room, 0, len(artifact.Results))
	for _, result := range artifact.Results {
		grid, err := DecodeResult(artifact.Mode, result)
		if err != nil {
			return tilecrunch.TileGrid{}, fmt.Errorf("room %d: %w", result.Region, err)
		}
		rooms = append(rooms, tilecrunch.Room{
			TileGrid: grid,
			Index:    result.Region,
			OriginX:  result.OriginX,
			OriginY:  result.OriginY,
		})
	}
	return partition.Assemble(artifact.Width, artifact.Height, rooms)
}

// DecodeResult rebuilds a single region.
func DecodeResult(mode Mode, result Result) (tilecrunch.TileGrid, error) {
	var tiles []int

	switch {
	case mode == ModeRaw:
		tiles = result.Stream
	case mode.UsesRLE():
		decoded, err := compression.DecodeRLE(result.Stream)
		if err != nil {
			return tilecrunch.TileGrid{}, err
		}
		tiles = decoded
	case mode.UsesBlocks():
		return compression.DecodeBlocks(compression.BlockPayload{
			Indices:    result.Stream,
			Dictionary: result.Dictionary,
			BlocksWide: result.Width / tilecrunch.BlockWidth,
			BlocksHigh: result.Height / tilecrunch.BlockHeight,
		})
	default:
		return tilecrunch.TileGrid{}, tilecrunch.ErrInvalidMode.WithMessage(mode.String())
	}

	if len(tiles) != result.Width*result.Height {
		return tilecrunch.TileGrid{}, tilecrunch.ErrMalformedStream.WithMessage(
			fmt.Sprintf(
				"%dx%d region decoded to %d tiles",
				result.Width,
				result.Height,
				len(tiles),
			))
	}
	return tilecrunch.NewTileGrid(result.Width, result.Height, tiles)
}
