// Package tiled reads tile layers out of maps saved by the Tiled editor in its
// JSON format.
//
// Only what the compressor needs is extracted: the size of the map, the room
// size stored in the map's custom properties, and the tiles of every tile
// layer. Object groups, tilesets and everything else are skipped.
package tiled

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dargueta/tilecrunch"
)

// Property names holding the room size. "room_heigth" is a misspelling that
// older maps use.
const (
	RoomWidthProperty        = "room_width"
	RoomHeightProperty       = "room_height"
	RoomHeightPropertyLegacy = "room_heigth"
	tileLayerType            = "tilelayer"
)

// Layer is a single tile layer.
type Layer struct {
	Name    string
	Visible bool
	Grid    tilecrunch.TileGrid
}

// Map is the part of a Tiled map relevant to compression.
type Map struct {
	Width      int
	Height     int
	TileWidth  int
	TileHeight int
	// RoomWidth and RoomHeight are 0 if the map doesn't define them.
	RoomWidth  int
	RoomHeight int
	Layers     []Layer
}

// Layer returns the tile layer with the given name.
func (m *Map) Layer(name string) (Layer, bool) {
	for _, layer := range m.Layers {
		if layer.Name == name {
			return layer, true
		}
	}
	return Layer{}, false
}

type jsonMap struct {
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	TileWidth   int             `json:"tilewidth"`
	TileHeight  int             `json:"tileheight"`
	Orientation string          `json:"orientation"`
	Properties  json.RawMessage `json:"properties"`
	Layers      []jsonLayer     `json:"layers"`
}

type jsonLayer struct {
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Width    int             `json:"width"`
	Height   int             `json:"height"`
	Visible  bool            `json:"visible"`
	Encoding string          `json:"encoding"`
	Data     json.RawMessage `json:"data"`
}

// Newer versions of Tiled store properties as a list of these instead of a
// plain object.
type jsonProperty struct {
	Name  string      `json:"name"`
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

// Load reads a map from a file.
func Load(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read map file: %w", err)
	}
	defer f.Close()

	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Read decodes a map from a stream of JSON.
func Read(r io.Reader) (*Map, error) {
	var jm jsonMap
	if err := json.NewDecoder(r).Decode(&jm); err != nil {
		return nil, tilecrunch.ErrInvalidMap.Wrap(err)
	}
	if jm.Orientation != "" && jm.Orientation != "orthogonal" {
		return nil, tilecrunch.ErrInvalidMap.WithMessage(
			fmt.Sprintf("%q orientation is not supported", jm.Orientation))
	}

	properties, err := decodeProperties(jm.Properties)
	if err != nil {
		return nil, err
	}

	m := &Map{
		Width:      jm.Width,
		Height:     jm.Height,
		TileWidth:  jm.TileWidth,
		TileHeight: jm.TileHeight,
	}

	if m.RoomWidth, err = intProperty(properties, RoomWidthProperty); err != nil {
		return nil, err
	}
	if m.RoomHeight, err = intProperty(properties, RoomHeightProperty); err != nil {
		return nil, err
	}
	if m.RoomHeight == 0 {
		if m.RoomHeight, err = intProperty(properties, RoomHeightPropertyLegacy); err != nil {
			return nil, err
		}
	}

	for _, jl := range jm.Layers {
		if !strings.Contains(jl.Type, tileLayerType) {
			continue
		}

		layer, err := decodeLayer(jl)
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", jl.Name, err)
		}
		m.Layers = append(m.Layers, layer)
	}
	return m, nil
}

func decodeLayer(jl jsonLayer) (Layer, error) {
	if jl.Encoding != "" && jl.Encoding != "csv" {
		return Layer{}, tilecrunch.ErrInvalidMap.WithMessage(
			fmt.Sprintf("%q layer encoding is not supported", jl.Encoding))
	}

	var tiles []int
	if err := json.Unmarshal(jl.Data, &tiles); err != nil {
		return Layer{}, tilecrunch.ErrInvalidMap.Wrap(err)
	}

	grid, err := tilecrunch.NewTileGrid(jl.Width, jl.Height, tiles)
	if err != nil {
		return Layer{}, tilecrunch.ErrInvalidMap.Wrap(err)
	}
	return Layer{Name: jl.Name, Visible: jl.Visible, Grid: grid}, nil
}

// decodeProperties accepts both the old object form, `{"name": value}`, and the
// newer list of `{"name", "type", "value"}` objects.
func decodeProperties(raw json.RawMessage) (map[string]interface{}, error) {
	properties := make(map[string]interface{})
	if len(raw) == 0 || string(raw) == "null" {
		return properties, nil
	}

	if err := json.Unmarshal(raw, &properties); err == nil {
		return properties, nil
	}

	var list []jsonProperty
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, tilecrunch.ErrInvalidMap.Wrap(err)
	}
	for _, property := range list {
		properties[property.Name] = property.Value
	}
	return properties, nil
}

// intProperty returns the named property as an integer, or 0 if it isn't set.
// Tiled writes numbers as JSON numbers but older maps often have them as
// strings.
func intProperty(properties map[string]interface{}, name string) (int, error) {
	value, ok := properties[name]
	if !ok {
		return 0, nil
	}

	switch v := value.(type) {
	case float64:
		if v != float64(int(v)) || v < 0 {
			return 0, tilecrunch.ErrInvalidMap.WithMessage(
				fmt.Sprintf("property %q must be a non-negative integer, got %v", name, v))
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			return 0, tilecrunch.ErrInvalidMap.WithMessage(
				fmt.Sprintf("property %q must be a non-negative integer, got %q", name, v))
		}
		return n, nil
	default:
		return 0, tilecrunch.ErrInvalidMap.WithMessage(
			fmt.Sprintf("property %q has unsupported type %T", name, value))
	}
}
