package compression

import (
	"errors"
	"fmt"
	"io"

	"github.com/dargueta/tilecrunch"
)

// RLEToken is a single token of an RLE stream. A run token repeats Value
// RunLength times; a literal-escape token carries its tiles verbatim in
// Literal.
type RLEToken struct {
	RunLength int
	Value     int
	Literal   []int
}

// IsLiteral returns true for literal-escape tokens.
func (token RLEToken) IsLiteral() bool {
	return token.Literal != nil
}

// Count gives the signed count that starts the token in the encoded stream:
// the run length for runs, minus the number of literal tiles for literals.
func (token RLEToken) Count() int {
	if token.IsLiteral() {
		return -len(token.Literal)
	}
	return token.RunLength
}

// Tiles gives the number of tiles the token expands to.
func (token RLEToken) Tiles() int {
	if token.IsLiteral() {
		return len(token.Literal)
	}
	return token.RunLength
}

// Units gives the number of stream elements the token is encoded as.
func (token RLEToken) Units() int {
	if token.IsLiteral() {
		return 1 + len(token.Literal)
	}
	return 2
}

// EncodeRLETokens run-length encodes a tile sequence.
//
// Runs of two or more identical tiles (up to [tilecrunch.MaxRunLength]) become
// run tokens. Everything else is grouped into literal-escape tokens of up to
// [tilecrunch.MaxLiteralLength] tiles; see [RunLengthGrouper.LiteralSpan] for
// where a literal ends.
func EncodeRLETokens(tiles []int) []RLEToken {
	grouper := NewRunLengthGrouper(tiles)
	tokens := []RLEToken{}

	for {
		run, err := grouper.PeekRun(tilecrunch.MaxRunLength)
		if errors.Is(err, io.EOF) {
			return tokens
		}

		if run.RunLength >= 2 {
			grouper.GetNextRun(tilecrunch.MaxRunLength)
			tokens = append(tokens, RLEToken{RunLength: run.RunLength, Value: run.Tile})
			continue
		}

		// LiteralSpan is always at least 1 here, and never more than what's
		// left, so Take can't fail.
		literal, _ := grouper.Take(grouper.LiteralSpan(tilecrunch.MaxLiteralLength))
		tokens = append(tokens, RLEToken{Literal: literal})
	}
}

// FlattenRLE converts tokens into the encoded stream.
func FlattenRLE(tokens []RLEToken) []int {
	units := 0
	for _, token := range tokens {
		units += token.Units()
	}

	stream := make([]int, 0, units)
	for _, token := range tokens {
		stream = append(stream, token.Count())
		if token.IsLiteral() {
			stream = append(stream, token.Literal...)
		} else {
			stream = append(stream, token.Value)
		}
	}
	return stream
}

// EncodeRLE run-length encodes a tile sequence into a flat stream of counts and
// values. The stream has no terminator.
func EncodeRLE(tiles []int) []int {
	return FlattenRLE(EncodeRLETokens(tiles))
}

// ParseRLE splits an encoded stream into tokens. A zero count ends the stream;
// anything after it is ignored.
func ParseRLE(stream []int) ([]RLEToken, error) {
	tokens := []RLEToken{}

	for i := 0; i < len(stream); {
		count := stream[i]
		i++

		switch {
		case count == 0:
			return tokens, nil
		case count > tilecrunch.MaxRunLength || -count > tilecrunch.MaxLiteralLength:
			return nil, tilecrunch.ErrMalformedStream.WithMessage(
				fmt.Sprintf("count %d at offset %d is out of range", count, i-1))
		case count > 0:
			if i >= len(stream) {
				return nil, tilecrunch.ErrMalformedStream.Wrap(
					fmt.Errorf(
						"%w: missing value for run of %d at offset %d",
						io.ErrUnexpectedEOF,
						count,
						i-1,
					))
			}
			tokens = append(tokens, RLEToken{RunLength: count, Value: stream[i]})
			i++
		default:
			length := -count
			if i+length > len(stream) {
				return nil, tilecrunch.ErrMalformedStream.Wrap(
					fmt.Errorf(
						"%w: literal of %d tiles at offset %d has only %d",
						io.ErrUnexpectedEOF,
						length,
						i-1,
						len(stream)-i,
					))
			}
			literal := make([]int, length)
			copy(literal, stream[i:i+length])
			tokens = append(tokens, RLEToken{Literal: literal})
			i += length
		}
	}
	return tokens, nil
}

// DecodeRLE expands an encoded stream back into the original tile sequence.
func DecodeRLE(stream []int) ([]int, error) {
	tokens, err := ParseRLE(stream)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, token := range tokens {
		total += token.Tiles()
	}

	tiles := make([]int, 0, total)
	for _, token := range tokens {
		if token.IsLiteral() {
			tiles = append(tiles, token.Literal...)
			continue
		}
		for j := 0; j < token.RunLength; j++ {
			tiles = append(tiles, token.Value)
		}
	}
	return tiles, nil
}
