package tilecrunch

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

type CompressionError interface {
	error
	WithMessage(message string) CompressionError
	Wrap(err error) CompressionError
}

type baseCompressionError string

const rootError = baseCompressionError("")

var ErrDictionaryOverflow = rootError.WithMessage("Block dictionary does not fit one-byte indices")
var ErrInvalidBlockGrid = rootError.WithMessage("Grid cannot be tiled by 2x2 blocks")
var ErrInvalidGrid = rootError.WithMessage("Malformed tile grid")
var ErrInvalidMap = rootError.WithMessage("Malformed map description")
var ErrInvalidMode = rootError.WithMessage("Unknown compression mode")
var ErrInvalidPartition = rootError.WithMessage("Room size does not evenly divide the grid")
var ErrMalformedStream = rootError.WithMessage("Malformed encoded stream")
var ErrPayloadTooLarge = rootError.WithMessage("Payload exceeds bank ceiling")
var ErrValueOutOfRange = rootError.WithMessage("Value does not fit its slot")

func (e baseCompressionError) Error() string {
	return string(e)
}

func (e baseCompressionError) RootCause() CompressionError {
	return e
}

func (e baseCompressionError) WithMessage(message string) CompressionError {
	return customCompressionError{
		message:       message,
		originalError: e,
	}
}

func (e baseCompressionError) Wrap(err error) CompressionError {
	return customCompressionError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

// -----------------------------------------------------------------------------

type customCompressionError struct {
	message       string
	originalError error
}

// Error implements the `error` object interface. When called, it returns a string
// describing the error.
func (e customCompressionError) Error() string {
	return e.message
}

func (e customCompressionError) WithMessage(message string) CompressionError {
	return customCompressionError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
	}
}

func (e customCompressionError) Wrap(err error) CompressionError {
	return customCompressionError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

func (e customCompressionError) Unwrap() error {
	return e.originalError
}
