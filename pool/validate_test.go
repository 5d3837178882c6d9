package pool

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenPool builds a pool directly from a descriptor slice so tests can
// exercise states the public API never produces.
func brokenPool(arenaSize int, blocks []block) *Pool {
	return &Pool{
		data:   make([]byte, arenaSize),
		blocks: blocks,
		head:   0,
		log:    slog.New(slog.DiscardHandler),
	}
}

func Test_Validate_CleanPoolPasses(t *testing.T) {
	p := newTestPool(t, 100)

	a, _, err := p.Alloc(30)
	require.NoError(t, err)
	_, _, err = p.Alloc(20)
	require.NoError(t, err)
	require.NoError(t, p.Free(a))

	assert.NoError(t, p.Validate(), "Pool built through the API should validate")
}

func Test_Validate_DetectsZeroLengthBlock(t *testing.T) {
	p := brokenPool(100, []block{
		{off: 0, size: 0, free: false, next: 1},
		{off: 0, size: 100, free: true, next: none},
	})

	err := p.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "BlockSize", verr.Type)
	assert.Equal(t, 0, verr.Offset)
	assert.Contains(t, err.Error(), "zero-length block")
}

func Test_Validate_DetectsPartitionGap(t *testing.T) {
	// The second block starts at 40, leaving bytes 30-39 unaccounted for.
	p := brokenPool(100, []block{
		{off: 0, size: 30, free: false, next: 1},
		{off: 40, size: 60, free: true, next: none},
	})

	err := p.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Partition", verr.Type)
	assert.Equal(t, 40, verr.Offset)
	assert.Contains(t, err.Error(), "expected 0x1E")
}

func Test_Validate_DetectsAdjacentFreeBlocks(t *testing.T) {
	p := brokenPool(100, []block{
		{off: 0, size: 30, free: true, next: 1},
		{off: 30, size: 70, free: true, next: none},
	})

	err := p.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "AdjacentFree", verr.Type)
	assert.Equal(t, 30, verr.Offset, "Error should point at the second free block")
}

func Test_Validate_DetectsCoverageShortfall(t *testing.T) {
	// Blocks tile only 70 of the 100 arena bytes.
	p := brokenPool(100, []block{
		{off: 0, size: 30, free: false, next: 1},
		{off: 30, size: 40, free: true, next: none},
	})

	err := p.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Coverage", verr.Type)
	assert.Equal(t, -1, verr.Offset)
	assert.Contains(t, err.Error(), "blocks cover 70 of 100 arena bytes")
}

func Test_Validate_ClosedPool(t *testing.T) {
	p := newTestPool(t, 100)
	require.NoError(t, p.Close())

	err := p.Validate()
	assert.ErrorIs(t, err, ErrClosed)

	var verr *ValidationError
	assert.False(t, errors.As(err, &verr), "ErrClosed is not a ValidationError")
}

func Test_ValidationError_Format(t *testing.T) {
	withOffset := &ValidationError{Type: "Partition", Message: "gap", Offset: 0x40}
	assert.Equal(t, "Partition at offset 0x40: gap", withOffset.Error())

	noOffset := &ValidationError{Type: "Coverage", Message: "short", Offset: -1}
	assert.Equal(t, "Coverage: short", noOffset.Error())
}
