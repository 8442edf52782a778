// Package partition splits tile grids into fixed-size rooms and puts them back
// together.
//
// Rooms are enumerated column by column: all the rooms in the leftmost column
// of rooms from top to bottom, then the next column, and so on. Consumers look
// rooms up by position in this order, so it must not change.
package partition

import (
	"fmt"

	"github.com/boljen/go-bitmap"
	"github.com/dargueta/tilecrunch"
)

// Count validates the room size against the grid size and returns the number
// of columns and rows of rooms.
func Count(width, height, roomWidth, roomHeight int) (columns, rows int, err error) {
	if roomWidth <= 0 || roomHeight <= 0 {
		return 0, 0, tilecrunch.ErrInvalidPartition.WithMessage(
			fmt.Sprintf("room size must be positive, got %dx%d", roomWidth, roomHeight))
	}
	if width <= 0 || height <= 0 {
		return 0, 0, tilecrunch.ErrInvalidPartition.WithMessage(
			fmt.Sprintf("grid size must be positive, got %dx%d", width, height))
	}
	if width%roomWidth != 0 || height%roomHeight != 0 {
		return 0, 0, tilecrunch.ErrInvalidPartition.WithMessage(
			fmt.Sprintf(
				"%dx%d rooms don't evenly divide a %dx%d grid",
				roomWidth,
				roomHeight,
				width,
				height,
			))
	}
	return width / roomWidth, height / roomHeight, nil
}

// Split cuts the grid into rooms of `roomWidth` by `roomHeight` tiles. Each
// room gets its own copy of the tiles.
func Split(grid tilecrunch.TileGrid, roomWidth, roomHeight int) ([]tilecrunch.Room, error) {
	columns, rows, err := Count(grid.Width(), grid.Height(), roomWidth, roomHeight)
	if err != nil {
		return nil, err
	}

	rooms := make([]tilecrunch.Room, 0, columns*rows)
	for bx := 0; bx < columns; bx++ {
		for by := 0; by < rows; by++ {
			originX := bx * roomWidth
			originY := by * roomHeight

			// Can't fail, Count already checked the bounds.
			tiles, err := grid.Crop(originX, originY, roomWidth, roomHeight)
			if err != nil {
				return nil, err
			}
			rooms = append(rooms, tilecrunch.Room{
				TileGrid: tiles,
				Index:    len(rooms),
				OriginX:  originX,
				OriginY:  originY,
			})
		}
	}
	return rooms, nil
}

// Assemble is the inverse of [Split]: it copies every room back into a
// `width` by `height` grid at its origin. It fails if rooms overlap, stick out
// of the grid, or leave any tile uncovered.
func Assemble(width, height int, rooms []tilecrunch.Room) (tilecrunch.TileGrid, error) {
	if width <= 0 || height <= 0 {
		return tilecrunch.TileGrid{}, tilecrunch.ErrInvalidPartition.WithMessage(
			fmt.Sprintf("grid size must be positive, got %dx%d", width, height))
	}

	tiles := make([]int, width*height)
	covered := bitmap.New(width * height)
	coveredCount := 0

	for _, room := range rooms {
		if room.OriginX < 0 || room.OriginY < 0 ||
			room.OriginX+room.Width() > width ||
			room.OriginY+room.Height() > height {
			return tilecrunch.TileGrid{}, tilecrunch.ErrInvalidPartition.WithMessage(
				fmt.Sprintf(
					"room %d (%dx%d at (%d, %d)) is outside the %dx%d grid",
					room.Index,
					room.Width(),
					room.Height(),
					room.OriginX,
					room.OriginY,
					width,
					height,
				))
		}

		for y := 0; y < room.Height(); y++ {
			for x := 0; x < room.Width(); x++ {
				offset := (room.OriginY+y)*width + room.OriginX + x
				if covered.Get(offset) {
					return tilecrunch.TileGrid{}, tilecrunch.ErrInvalidPartition.WithMessage(
						fmt.Sprintf(
							"room %d overlaps another room at (%d, %d)",
							room.Index,
							room.OriginX+x,
							room.OriginY+y,
						))
				}
				covered.Set(offset, true)
				coveredCount++
				tiles[offset] = room.At(x, y)
			}
		}
	}

	if coveredCount != width*height {
		for i := 0; i < width*height; i++ {
			if !covered.Get(i) {
				return tilecrunch.TileGrid{}, tilecrunch.ErrInvalidPartition.WithMessage(
					fmt.Sprintf(
						"%d of %d tiles not covered by any room, first at (%d, %d)",
						width*height-coveredCount,
						width*height,
						i%width,
						i/width,
					))
			}
		}
	}

	return tilecrunch.NewTileGrid(width, height, tiles)
}
