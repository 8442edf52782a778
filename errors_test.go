package tilecrunch_test

import (
	"errors"
	"testing"

	"github.com/dargueta/tilecrunch"
	"github.com/stretchr/testify/assert"
)

func TestCompressionErrorWithMessage(t *testing.T) {
	newErr := tilecrunch.ErrInvalidPartition.WithMessage("asdfqwerty")
	assert.Equal(
		t,
		"Room size does not evenly divide the grid: asdfqwerty",
		newErr.Error(),
		"error message is wrong")
	assert.ErrorIs(t, newErr, tilecrunch.ErrInvalidPartition)
	assert.NotErrorIs(t, newErr, tilecrunch.ErrInvalidBlockGrid)
}

func TestCompressionErrorWrap(t *testing.T) {
	originalErr := errors.New("original error")
	newErr := tilecrunch.ErrPayloadTooLarge.Wrap(originalErr)
	expectedMessage := "Payload exceeds bank ceiling: original error"

	assert.EqualValues(t, expectedMessage, newErr.Error(), "error message is wrong")
	assert.ErrorIs(t, newErr, originalErr, "original error not set as parent")
	assert.ErrorIs(t, newErr, tilecrunch.ErrPayloadTooLarge, "sentinel not set as parent")
}

func TestCompressionErrorSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		tilecrunch.ErrDictionaryOverflow,
		tilecrunch.ErrInvalidBlockGrid,
		tilecrunch.ErrInvalidGrid,
		tilecrunch.ErrInvalidMap,
		tilecrunch.ErrInvalidMode,
		tilecrunch.ErrInvalidPartition,
		tilecrunch.ErrMalformedStream,
		tilecrunch.ErrPayloadTooLarge,
		tilecrunch.ErrValueOutOfRange,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.NotErrorIs(t, a, b, "%q matches %q", a.Error(), b.Error())
		}
	}
}
