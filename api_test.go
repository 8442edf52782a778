package tilecrunch_test

import (
	"testing"

	"github.com/dargueta/tilecrunch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTileGrid__Valid(t *testing.T) {
	tiles := []int{1, 2, 3, 4, 5, 6}
	grid, err := tilecrunch.NewTileGrid(3, 2, tiles)
	require.NoError(t, err)

	assert.Equal(t, 3, grid.Width())
	assert.Equal(t, 2, grid.Height())
	assert.Equal(t, 6, grid.Len())
	assert.Equal(t, 6, grid.At(2, 1))
	assert.Equal(t, 2, grid.At(1, 0))
	assert.Equal(t, []int{4, 5, 6}, grid.Row(1))

	// The grid keeps its own copy.
	tiles[0] = 100
	assert.Equal(t, 1, grid.At(0, 0))

	out := grid.Tiles()
	out[1] = 100
	assert.Equal(t, 2, grid.At(1, 0))
}

func TestNewTileGrid__Invalid(t *testing.T) {
	tests := []struct {
		Name   string
		Width  int
		Height int
		Tiles  []int
	}{
		{"zero width", 0, 2, []int{}},
		{"negative height", 2, -1, []int{}},
		{"too few tiles", 2, 2, []int{1, 2, 3}},
		{"too many tiles", 2, 1, []int{1, 2, 3}},
		{"negative tile", 2, 1, []int{1, -2}},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			_, err := tilecrunch.NewTileGrid(test.Width, test.Height, test.Tiles)
			assert.ErrorIs(t, err, tilecrunch.ErrInvalidGrid)
		})
	}
}

func TestMustNewTileGrid__Panics(t *testing.T) {
	assert.Panics(t, func() { tilecrunch.MustNewTileGrid(2, 2, []int{1}) })
}

func TestTileGrid__AtOutOfBounds(t *testing.T) {
	grid := tilecrunch.MustNewTileGrid(2, 2, []int{1, 2, 3, 4})
	assert.Panics(t, func() { grid.At(2, 0) })
	assert.Panics(t, func() { grid.At(0, -1) })
}

func TestTileGrid__Crop(t *testing.T) {
	grid := tilecrunch.MustNewTileGrid(4, 3, []int{
		0, 1, 2, 3,
		4, 5, 6, 7,
		8, 9, 10, 11,
	})

	cropped, err := grid.Crop(1, 1, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6, 9, 10}, cropped.Tiles())

	_, err = grid.Crop(3, 0, 2, 1)
	assert.ErrorIs(t, err, tilecrunch.ErrInvalidGrid)
	_, err = grid.Crop(0, 0, 0, 1)
	assert.ErrorIs(t, err, tilecrunch.ErrInvalidGrid)
}

func TestTileGrid__Equal(t *testing.T) {
	a := tilecrunch.MustNewTileGrid(2, 2, []int{1, 2, 3, 4})
	b := tilecrunch.MustNewTileGrid(2, 2, []int{1, 2, 3, 4})
	c := tilecrunch.MustNewTileGrid(4, 1, []int{1, 2, 3, 4})
	d := tilecrunch.MustNewTileGrid(2, 2, []int{1, 2, 3, 5})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c), "same tiles, different shape")
	assert.False(t, a.Equal(d))
}
