package output

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/dargueta/tilecrunch"
	"github.com/dargueta/tilecrunch/planner"
	"github.com/dargueta/tilecrunch/utilities/compression"
)

// BankRegion is one region as stored in a bank image.
type BankRegion struct {
	Width        int
	Height       int
	Dictionary   []compression.Block
	Stream       []int
	ElementBytes int
}

// BankImage is the decoded contents of a bank image. It doesn't carry the size
// of the grid or the region origins; see [BankImage.Artifact].
type BankImage struct {
	Mode    planner.Mode
	Regions []BankRegion
}

// regionHeader is the fixed-size part of a region in the image.
type regionHeader struct {
	Width             uint8
	Height            uint8
	DictionaryEntries uint16
	StreamElements    uint16
	ElementBytes      uint8
}

// WriteBank serializes an artifact into a bank image. Nothing is written if any
// value in the artifact doesn't fit its slot; the error then wraps
// [tilecrunch.ErrValueOutOfRange].
func WriteBank(w io.Writer, artifact planner.Artifact) (int64, error) {
	image, err := encodeBank(artifact)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(image)
	if err == nil && n < len(image) {
		err = io.ErrShortWrite
	}
	return int64(n), err
}

func encodeBank(artifact planner.Artifact) ([]byte, error) {
	if !artifact.Mode.IsValid() {
		return nil, tilecrunch.ErrInvalidMode.WithMessage(artifact.Mode.String())
	}
	if err := checkRange("region count", len(artifact.Results), 0, math.MaxUint8); err != nil {
		return nil, err
	}

	buffer := &bytes.Buffer{}
	buffer.WriteByte(byte(artifact.Mode))
	buffer.WriteByte(byte(len(artifact.Results)))

	for _, result := range artifact.Results {
		header, err := makeRegionHeader(result)
		if err != nil {
			return nil, fmt.Errorf("region %d: %w", result.Region, err)
		}
		binary.Write(buffer, binary.LittleEndian, header)
	}

	for _, result := range artifact.Results {
		err := writeRegionBody(buffer, artifact.Mode, result)
		if err != nil {
			return nil, fmt.Errorf("region %d: %w", result.Region, err)
		}
	}
	return buffer.Bytes(), nil
}

func makeRegionHeader(result planner.Result) (regionHeader, error) {
	checks := []struct {
		name  string
		value int
		max   int
	}{
		{"width", result.Width, math.MaxUint8},
		{"height", result.Height, math.MaxUint8},
		{"dictionary size", len(result.Dictionary), math.MaxUint16},
		{"stream length", len(result.Stream), math.MaxUint16},
	}
	for _, check := range checks {
		if err := checkRange(check.name, check.value, 0, check.max); err != nil {
			return regionHeader{}, err
		}
	}
	if result.ElementBytes != 1 && result.ElementBytes != 2 {
		return regionHeader{}, tilecrunch.ErrValueOutOfRange.WithMessage(
			fmt.Sprintf("element width must be 1 or 2 bytes, got %d", result.ElementBytes))
	}

	return regionHeader{
		Width:             uint8(result.Width),
		Height:            uint8(result.Height),
		DictionaryEntries: uint16(len(result.Dictionary)),
		StreamElements:    uint16(len(result.Stream)),
		ElementBytes:      uint8(result.ElementBytes),
	}, nil
}

func writeRegionBody(buffer *bytes.Buffer, mode planner.Mode, result planner.Result) error {
	for i, block := range result.Dictionary {
		for _, tile := range block {
			if err := checkRange(fmt.Sprintf("dictionary entry %d", i), tile, 0, math.MaxUint8); err != nil {
				return err
			}
			buffer.WriteByte(byte(tile))
		}
	}

	for i, value := range result.Stream {
		name := fmt.Sprintf("stream element %d", i)
		switch {
		case result.ElementBytes == 1:
			if err := checkRange(name, value, 0, math.MaxUint8); err != nil {
				return err
			}
			buffer.WriteByte(byte(value))
		case mode.UsesRLE():
			if err := checkRange(name, value, math.MinInt16, math.MaxInt16); err != nil {
				return err
			}
			binary.Write(buffer, binary.LittleEndian, int16(value))
		default:
			if err := checkRange(name, value, 0, math.MaxUint16); err != nil {
				return err
			}
			binary.Write(buffer, binary.LittleEndian, uint16(value))
		}
	}
	return nil
}

func checkRange(name string, value, min, max int) error {
	if value < min || value > max {
		return tilecrunch.ErrValueOutOfRange.WithMessage(
			fmt.Sprintf("%s is %d, must be in [%d, %d]", name, value, min, max))
	}
	return nil
}

// ReadBank deserializes a bank image written by [WriteBank]. Truncated or
// inconsistent images fail with [tilecrunch.ErrMalformedStream].
func ReadBank(r io.Reader) (BankImage, error) {
	var prefix [2]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return BankImage{}, tilecrunch.ErrMalformedStream.Wrap(err)
	}

	image := BankImage{Mode: planner.Mode(prefix[0])}
	if !image.Mode.IsValid() {
		return BankImage{}, tilecrunch.ErrMalformedStream.WithMessage(
			fmt.Sprintf("unknown mode %d", prefix[0]))
	}

	headers := make([]regionHeader, prefix[1])
	if err := binary.Read(r, binary.LittleEndian, headers); err != nil {
		return BankImage{}, tilecrunch.ErrMalformedStream.Wrap(err)
	}

	image.Regions = make([]BankRegion, len(headers))
	for i, header := range headers {
		region, err := readRegionBody(r, image.Mode, header)
		if err != nil {
			return BankImage{}, fmt.Errorf("region %d: %w", i, err)
		}
		image.Regions[i] = region
	}
	return image, nil
}

func readRegionBody(r io.Reader, mode planner.Mode, header regionHeader) (BankRegion, error) {
	if int(header.ElementBytes) != mode.ElementBytes() {
		return BankRegion{}, tilecrunch.ErrMalformedStream.WithMessage(
			fmt.Sprintf(
				"%s regions use %d-byte elements, header says %d",
				mode,
				mode.ElementBytes(),
				header.ElementBytes,
			))
	}

	region := BankRegion{
		Width:        int(header.Width),
		Height:       int(header.Height),
		Stream:       make([]int, header.StreamElements),
		ElementBytes: int(header.ElementBytes),
	}

	if header.DictionaryEntries > 0 {
		raw := make([]byte, int(header.DictionaryEntries)*tilecrunch.BlockTiles)
		if _, err := io.ReadFull(r, raw); err != nil {
			return BankRegion{}, tilecrunch.ErrMalformedStream.Wrap(err)
		}

		region.Dictionary = make([]compression.Block, header.DictionaryEntries)
		for i := range region.Dictionary {
			for j := 0; j < tilecrunch.BlockTiles; j++ {
				region.Dictionary[i][j] = int(raw[i*tilecrunch.BlockTiles+j])
			}
		}
	}

	var err error
	switch {
	case header.ElementBytes == 1:
		raw := make([]uint8, header.StreamElements)
		err = binary.Read(r, binary.LittleEndian, raw)
		for i, value := range raw {
			region.Stream[i] = int(value)
		}
	case mode.UsesRLE():
		raw := make([]int16, header.StreamElements)
		err = binary.Read(r, binary.LittleEndian, raw)
		for i, value := range raw {
			region.Stream[i] = int(value)
		}
	default:
		raw := make([]uint16, header.StreamElements)
		err = binary.Read(r, binary.LittleEndian, raw)
		for i, value := range raw {
			region.Stream[i] = int(value)
		}
	}
	if err != nil {
		return BankRegion{}, tilecrunch.ErrMalformedStream.Wrap(err)
	}
	return region, nil
}

// Artifact rebuilds the planner artifact the image was written from, given the
// size of the original grid. Region origins are recomputed from the room order
// used by the partitioner, so the image must hold exactly one region per room.
func (image BankImage) Artifact(gridWidth, gridHeight int) (planner.Artifact, error) {
	artifact := planner.Artifact{
		Mode:        image.Mode,
		Width:       gridWidth,
		Height:      gridHeight,
		SourceUnits: gridWidth * gridHeight,
		Results:     make([]planner.Result, len(image.Regions)),
	}
	if len(image.Regions) == 0 {
		return planner.Artifact{}, tilecrunch.ErrMalformedStream.WithMessage("image has no regions")
	}

	roomsHigh := 1
	if image.Mode.UsesRooms() {
		artifact.RoomWidth = image.Regions[0].Width
		artifact.RoomHeight = image.Regions[0].Height
		if artifact.RoomWidth == 0 || artifact.RoomHeight == 0 {
			return planner.Artifact{}, tilecrunch.ErrMalformedStream.WithMessage("room has no tiles")
		}
		roomsHigh = gridHeight / artifact.RoomHeight
	}

	for i, region := range image.Regions {
		result := planner.Result{
			Width:           region.Width,
			Height:          region.Height,
			Stream:          region.Stream,
			Dictionary:      region.Dictionary,
			StreamUnits:     len(region.Stream) * image.Mode.StreamUnitsPerElement(),
			DictionaryUnits: len(region.Dictionary) * tilecrunch.BlockTiles,
			ElementBytes:    region.ElementBytes,
		}
		if image.Mode.UsesRooms() {
			result.Region = i
			if roomsHigh > 0 {
				result.OriginX = (i / roomsHigh) * artifact.RoomWidth
				result.OriginY = (i % roomsHigh) * artifact.RoomHeight
			}
		}
		artifact.Results[i] = result
		artifact.TotalSize += result.TotalSize()
	}
	return artifact, nil
}
