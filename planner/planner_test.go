package planner_test

import (
	"bytes"
	"testing"

	"github.com/dargueta/tilecrunch"
	"github.com/dargueta/tilecrunch/planner"
	dtesting "github.com/dargueta/tilecrunch/testing"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlanner(t *testing.T, options planner.Options) *planner.Planner {
	if options.Logger == nil {
		options.Logger = hclog.New(&hclog.LoggerOptions{
			Name:  t.Name(),
			Level: hclog.Trace,
		})
	}
	return planner.New(options)
}

func TestPlan__SizeAccounting(t *testing.T) {
	grid := tilecrunch.MustNewTileGrid(4, 4, make([]int, 16))
	p := newTestPlanner(t, planner.Options{})

	tests := []struct {
		Mode          planner.Mode
		ExpectedSize  int
		ExpectedRooms int
	}{
		// 16 tiles, one unit each.
		{planner.ModeRaw, 16, 1},
		// One run token: 16 0
		{planner.ModeWholeRLE, 2, 1},
		// One dictionary entry (4) plus four 16-bit indices (2 each).
		{planner.ModeWholeBlock, 12, 1},
		// Four rooms of one run token each.
		{planner.ModeRoomsRLE, 8, 4},
		// Four rooms of one dictionary entry and one one-byte index.
		{planner.ModeRoomsBlock, 20, 4},
	}

	for _, test := range tests {
		t.Run(test.Mode.String(), func(t *testing.T) {
			artifact, err := p.Plan(grid, test.Mode, 2, 2)
			require.NoError(t, err)
			assert.Equal(t, test.Mode, artifact.Mode)
			assert.Equal(t, test.ExpectedSize, artifact.TotalSize)
			assert.Len(t, artifact.Results, test.ExpectedRooms)
			assert.Equal(t, 16, artifact.SourceUnits)
			assert.InDelta(t, 16.0/float64(test.ExpectedSize), artifact.Ratio(), 1e-9)

			sum := 0
			for _, result := range artifact.Results {
				sum += result.TotalSize()
				assert.Equal(t, test.Mode.ElementBytes(), result.ElementBytes)
			}
			assert.Equal(t, artifact.TotalSize, sum)
		})
	}
}

func TestPlan__BlockResultsCarryTheirDictionary(t *testing.T) {
	grid := tilecrunch.MustNewTileGrid(4, 2, []int{
		1, 2, 3, 4,
		5, 6, 7, 8,
	})
	p := newTestPlanner(t, planner.Options{})

	artifact, err := p.Plan(grid, planner.ModeRoomsBlock, 2, 2)
	require.NoError(t, err)
	require.Len(t, artifact.Results, 2)

	// Every room has its own dictionary, so both start at index 0.
	for _, result := range artifact.Results {
		assert.Equal(t, []int{0}, result.Stream)
		assert.Len(t, result.Dictionary, 1)
		assert.Equal(t, 4, result.DictionaryUnits)
		assert.Equal(t, 1, result.StreamUnits)
	}
	assert.Equal(t, 1, artifact.DictionaryEntries())
}

func TestPlan__RoomsInColumnMajorOrder(t *testing.T) {
	grid := dtesting.CreateSequentialGrid(t, 4, 4)
	p := newTestPlanner(t, planner.Options{})

	artifact, err := p.Plan(grid, planner.ModeRoomsRLE, 2, 2)
	require.NoError(t, err)
	require.Len(t, artifact.Results, 4)

	origins := [][2]int{{0, 0}, {0, 2}, {2, 0}, {2, 2}}
	for i, result := range artifact.Results {
		assert.Equal(t, i, result.Region)
		assert.Equal(t, origins[i], [2]int{result.OriginX, result.OriginY}, "room %d", i)
	}
	assert.Equal(t, []int{-4, 8, 9, 12, 13}, artifact.Results[1].Stream)
}

func TestPlan__CeilingBoundary(t *testing.T) {
	p := newTestPlanner(t, planner.Options{})
	assert.Equal(t, tilecrunch.BankSize, p.Ceiling())

	exact := dtesting.CreateRandomGrid(t, 128, 64, 4, 1)
	artifact, err := p.Plan(exact, planner.ModeRaw, 0, 0)
	require.NoError(t, err, "8192 units should fit")
	assert.Equal(t, 8192, artifact.TotalSize)

	over := dtesting.CreateRandomGrid(t, 8193, 1, 4, 1)
	_, err = p.Plan(over, planner.ModeRaw, 0, 0)
	assert.ErrorIs(t, err, tilecrunch.ErrPayloadTooLarge)
}

func TestPlan__RLEPayloadTooLarge(t *testing.T) {
	// Almost no repeats, so RLE makes it slightly bigger than 10,000 units.
	grid := dtesting.CreateRandomGrid(t, 100, 100, 1<<16, 3)
	p := newTestPlanner(t, planner.Options{})

	_, err := p.Plan(grid, planner.ModeWholeRLE, 0, 0)
	assert.ErrorIs(t, err, tilecrunch.ErrPayloadTooLarge)

	// The same grid is fine if the ceiling is raised.
	p = newTestPlanner(t, planner.Options{Ceiling: 20000})
	artifact, err := p.Plan(grid, planner.ModeWholeRLE, 0, 0)
	require.NoError(t, err)
	assert.Greater(t, artifact.TotalSize, tilecrunch.BankSize)
}

func TestPlan__CeilingIsCumulativeOverRooms(t *testing.T) {
	grid := dtesting.CreateRandomGrid(t, 8, 8, 1<<16, 5)
	p := newTestPlanner(t, planner.Options{Ceiling: 40})

	// Each 4x4 room is one literal of 16 tiles, 17 units. Two rooms would
	// fit, four don't.
	_, err := p.Plan(grid, planner.ModeRoomsRLE, 4, 4)
	assert.ErrorIs(t, err, tilecrunch.ErrPayloadTooLarge)
}

func TestPlan__DictionaryOverflow(t *testing.T) {
	// 32x16 blocks, all distinct: both 16x16-block rooms overflow, and so does
	// the grid as a whole.
	grid := dtesting.CreateDistinctBlockGrid(t, 32, 16, 512)
	p := newTestPlanner(t, planner.Options{Ceiling: 1 << 20})

	_, err := p.Plan(grid, planner.ModeWholeBlock, 0, 0)
	assert.ErrorIs(t, err, tilecrunch.ErrDictionaryOverflow)

	_, err = p.Plan(grid, planner.ModeRoomsBlock, 32, 32)
	assert.ErrorIs(t, err, tilecrunch.ErrDictionaryOverflow)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 2, "both rooms should be reported")

	// Smaller rooms each have few enough distinct blocks.
	artifact, err := p.Plan(grid, planner.ModeRoomsBlock, 16, 16)
	require.NoError(t, err)
	assert.Len(t, artifact.Results, 8)
}

func TestPlan__InvalidInput(t *testing.T) {
	p := newTestPlanner(t, planner.Options{})
	grid := dtesting.CreateRandomGrid(t, 10, 10, 4, 1)

	_, err := p.Plan(grid, planner.ModeRoomsRLE, 3, 3)
	assert.ErrorIs(t, err, tilecrunch.ErrInvalidPartition)

	_, err = p.Plan(grid, planner.ModeRoomsBlock, 0, 0)
	assert.ErrorIs(t, err, tilecrunch.ErrInvalidPartition)

	// 5x5 rooms divide the grid but can't be split into 2x2 blocks.
	_, err = p.Plan(grid, planner.ModeRoomsBlock, 5, 5)
	assert.ErrorIs(t, err, tilecrunch.ErrInvalidBlockGrid)

	odd := dtesting.CreateRandomGrid(t, 9, 10, 4, 1)
	_, err = p.Plan(odd, planner.ModeWholeBlock, 0, 0)
	assert.ErrorIs(t, err, tilecrunch.ErrInvalidBlockGrid)

	_, err = p.Plan(grid, planner.Mode(42), 0, 0)
	assert.ErrorIs(t, err, tilecrunch.ErrInvalidMode)

	_, err = p.Plan(tilecrunch.TileGrid{}, planner.ModeRaw, 0, 0)
	assert.ErrorIs(t, err, tilecrunch.ErrInvalidGrid)

	// Whole-grid modes don't care about the room size.
	_, err = p.Plan(grid, planner.ModeWholeRLE, 3, 3)
	assert.NoError(t, err)
}

func TestPlan__SameResultWithAnyNumberOfWorkers(t *testing.T) {
	grid := dtesting.CreateRandomGrid(t, 64, 44, 3, 11)

	serial, err := newTestPlanner(t, planner.Options{Workers: 1}).Plan(grid, planner.ModeRoomsBlock, 16, 22)
	require.NoError(t, err)

	for _, workers := range []int{2, 3, 8, 64} {
		parallel, err := newTestPlanner(t, planner.Options{Workers: workers}).Plan(
			grid, planner.ModeRoomsBlock, 16, 22)
		require.NoError(t, err)
		assert.Equal(t, serial, parallel, "%d workers", workers)
	}
}

func TestPlan__RoundTripEveryMode(t *testing.T) {
	grid := dtesting.CreateRandomGrid(t, 64, 44, 3, 17)
	p := newTestPlanner(t, planner.Options{})

	for _, mode := range planner.Modes() {
		t.Run(mode.String(), func(t *testing.T) {
			artifact, err := p.Plan(grid, mode, 32, 22)
			require.NoError(t, err)

			decoded, err := p.Decode(artifact)
			require.NoError(t, err)
			assert.True(t, grid.Equal(decoded), "decoded grid differs")
		})
	}
}

func TestDecode__Malformed(t *testing.T) {
	grid := dtesting.CreateRandomGrid(t, 8, 8, 3, 17)
	p := newTestPlanner(t, planner.Options{})

	artifact, err := p.Plan(grid, planner.ModeWholeRLE, 0, 0)
	require.NoError(t, err)

	truncated := artifact
	truncated.Results = []planner.Result{artifact.Results[0]}
	truncated.Results[0].Stream = truncated.Results[0].Stream[:2]
	_, err = p.Decode(truncated)
	assert.ErrorIs(t, err, tilecrunch.ErrMalformedStream)

	noRegions := artifact
	noRegions.Results = nil
	_, err = p.Decode(noRegions)
	assert.ErrorIs(t, err, tilecrunch.ErrMalformedStream)
}

func TestCompare(t *testing.T) {
	grid := dtesting.CreateRandomGrid(t, 32, 22, 2, 23)
	p := newTestPlanner(t, planner.Options{})

	attempts := p.Compare(grid, 16, 11)
	require.Len(t, attempts, len(planner.Modes()))

	for i, attempt := range attempts {
		assert.Equal(t, planner.Modes()[i], attempt.Mode)
	}

	// 11 rows can't be split into 2x2 blocks; everything else works.
	assert.ErrorIs(t, attempts[planner.ModeRoomsBlock].Err, tilecrunch.ErrInvalidBlockGrid)
	for _, mode := range []planner.Mode{
		planner.ModeRaw, planner.ModeWholeRLE, planner.ModeWholeBlock, planner.ModeRoomsRLE,
	} {
		assert.NoError(t, attempts[mode].Err, mode.String())
		assert.Greater(t, attempts[mode].Artifact.TotalSize, 0)
	}
}

func TestPlan__Logs(t *testing.T) {
	var output bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "planner_test",
		Level:  hclog.Debug,
		Output: &output,
	})
	p := planner.New(planner.Options{Logger: logger})

	_, err := p.Plan(dtesting.CreateRandomGrid(t, 4, 4, 2, 1), planner.ModeWholeRLE, 0, 0)
	require.NoError(t, err)
	assert.Contains(t, output.String(), "planned artifact")
	assert.Contains(t, output.String(), "mode=whole-rle")
}
