// Package planner compresses a tile grid in the mode the caller asks for and
// makes sure the result fits in a ROM bank.
//
// The planner never chooses a mode on its own. [Planner.Compare] runs them all
// so a caller can pick, but nothing here decides which one is best.
package planner

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/dargueta/tilecrunch"
	"github.com/dargueta/tilecrunch/partition"
	"github.com/dargueta/tilecrunch/utilities/compression"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
)

// Options configures a [Planner]. The zero value is usable.
type Options struct {
	// Ceiling is the most size units a single artifact may take. Defaults to
	// [tilecrunch.BankSize].
	Ceiling int
	// Workers is the number of rooms encoded at the same time. Defaults to the
	// number of CPUs.
	Workers int
	// Logger defaults to a logger that discards everything.
	Logger hclog.Logger
}

// Planner encodes grids into artifacts. It holds no state between calls and is
// safe for concurrent use.
type Planner struct {
	ceiling int
	workers int
	logger  hclog.Logger
}

// region is a piece of the grid waiting to be encoded.
type region struct {
	index   int
	originX int
	originY int
	grid    tilecrunch.TileGrid
}

func New(options Options) *Planner {
	p := &Planner{
		ceiling: options.Ceiling,
		workers: options.Workers,
		logger:  options.Logger,
	}
	if p.ceiling <= 0 {
		p.ceiling = tilecrunch.BankSize
	}
	if p.workers <= 0 {
		p.workers = runtime.NumCPU()
	}
	if p.logger == nil {
		p.logger = hclog.NewNullLogger()
	}
	return p
}

// Ceiling returns the artifact size limit in effect.
func (p *Planner) Ceiling() int {
	return p.ceiling
}

// Plan encodes `grid` in the given mode. The room size is only used by room
// modes.
//
// Any failure in any region fails the whole artifact; errors from several
// rooms are combined. Possible errors include [tilecrunch.ErrInvalidPartition],
// [tilecrunch.ErrInvalidBlockGrid], [tilecrunch.ErrDictionaryOverflow],
// [tilecrunch.ErrPayloadTooLarge] and [tilecrunch.ErrInvalidMode].
func (p *Planner) Plan(grid tilecrunch.TileGrid, mode Mode, roomWidth, roomHeight int) (Artifact, error) {
	if !mode.IsValid() {
		return Artifact{}, tilecrunch.ErrInvalidMode.WithMessage(mode.String())
	}
	if grid.Len() == 0 {
		return Artifact{}, tilecrunch.ErrInvalidGrid.WithMessage("grid is empty")
	}

	artifact := Artifact{
		Mode:        mode,
		Width:       grid.Width(),
		Height:      grid.Height(),
		SourceUnits: grid.Len(),
	}

	var results []Result
	if mode.UsesRooms() {
		rooms, err := partition.Split(grid, roomWidth, roomHeight)
		if err != nil {
			return Artifact{}, err
		}
		artifact.RoomWidth = roomWidth
		artifact.RoomHeight = roomHeight

		results, err = p.encodeRooms(mode, rooms)
		if err != nil {
			return Artifact{}, err
		}
	} else {
		result, err := encodeRegion(mode, region{grid: grid})
		if err != nil {
			return Artifact{}, err
		}
		results = []Result{result}
	}

	artifact.Results = results
	for _, result := range results {
		artifact.TotalSize += result.TotalSize()
	}

	if artifact.TotalSize > p.ceiling {
		p.logger.Debug(
			"artifact over ceiling",
			"mode", mode,
			"size", artifact.TotalSize,
			"ceiling", p.ceiling,
		)
		return Artifact{}, tilecrunch.ErrPayloadTooLarge.WithMessage(
			fmt.Sprintf(
				"%s encoding of %dx%d grid takes %d units, ceiling is %d",
				mode,
				grid.Width(),
				grid.Height(),
				artifact.TotalSize,
				p.ceiling,
			))
	}

	p.logger.Debug(
		"planned artifact",
		"mode", mode,
		"regions", len(results),
		"source", artifact.SourceUnits,
		"size", artifact.TotalSize,
		"ratio", fmt.Sprintf("%.2f", artifact.Ratio()),
	)
	return artifact, nil
}

// Compare plans every mode for the same grid and reports each outcome, in
// [Modes] order.
func (p *Planner) Compare(grid tilecrunch.TileGrid, roomWidth, roomHeight int) []Attempt {
	modes := Modes()
	attempts := make([]Attempt, 0, len(modes))
	for _, mode := range modes {
		artifact, err := p.Plan(grid, mode, roomWidth, roomHeight)
		attempts = append(attempts, Attempt{Mode: mode, Artifact: artifact, Err: err})
	}
	return attempts
}

// encodeRooms encodes every room on a pool of workers. Each worker owns the
// rooms it's handed and writes only to their slots in the result slice.
func (p *Planner) encodeRooms(mode Mode, rooms []tilecrunch.Room) ([]Result, error) {
	results := make([]Result, len(rooms))
	errs := make([]error, len(rooms))

	workers := p.workers
	if workers > len(rooms) {
		workers = len(rooms)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				room := rooms[i]
				results[i], errs[i] = encodeRegion(mode, region{
					index:   room.Index,
					originX: room.OriginX,
					originY: room.OriginY,
					grid:    room.TileGrid,
				})
			}
		}()
	}

	for i := range rooms {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var merr *multierror.Error
	for i, err := range errs {
		if err != nil {
			p.logger.Debug("room failed", "mode", mode, "room", i, "error", err)
			merr = multierror.Append(merr, fmt.Errorf("room %d: %w", i, err))
		}
	}
	if err := merr.ErrorOrNil(); err != nil {
		return nil, err
	}
	return results, nil
}

func encodeRegion(mode Mode, r region) (Result, error) {
	result := Result{
		Region:       r.index,
		OriginX:      r.originX,
		OriginY:      r.originY,
		Width:        r.grid.Width(),
		Height:       r.grid.Height(),
		ElementBytes: mode.ElementBytes(),
	}

	switch {
	case mode == ModeRaw:
		result.Stream = r.grid.Tiles()
	case mode.UsesRLE():
		result.Stream = compression.EncodeRLE(r.grid.Tiles())
	case mode.UsesBlocks():
		payload, err := compression.EncodeBlocks(r.grid)
		if err != nil {
			return Result{}, err
		}
		if len(payload.Dictionary) > tilecrunch.MaxDictionaryEntries {
			return Result{}, tilecrunch.ErrDictionaryOverflow.WithMessage(
				fmt.Sprintf(
					"region %d needs %d entries, limit is %d",
					r.index,
					len(payload.Dictionary),
					tilecrunch.MaxDictionaryEntries,
				))
		}
		result.Stream = payload.Indices
		result.Dictionary = payload.Dictionary
		result.DictionaryUnits = payload.DictionaryUnits()
	default:
		return Result{}, tilecrunch.ErrInvalidMode.WithMessage(mode.String())
	}

	result.StreamUnits = len(result.Stream) * mode.StreamUnitsPerElement()
	return result, nil
}
