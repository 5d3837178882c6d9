package pool

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test_Free_ForwardCoalescing verifies freeing a block absorbs every free
// block that follows it.
func Test_Free_ForwardCoalescing(t *testing.T) {
	p := newTestPool(t, 100)

	refA, _, err := p.Alloc(20)
	require.NoError(t, err)
	refB, _, err := p.Alloc(20)
	require.NoError(t, err)
	refC, _, err := p.Alloc(20)
	require.NoError(t, err)

	// Free back to front: C merges with the 40-byte tail, B merges with
	// that, A merges with everything.
	require.NoError(t, p.Free(refC))
	assert.Equal(t, 60, p.Stats().LargestFree)
	require.NoError(t, p.Validate())

	require.NoError(t, p.Free(refB))
	assert.Equal(t, 80, p.Stats().LargestFree)
	require.NoError(t, p.Validate())

	require.NoError(t, p.Free(refA))
	s := p.Stats()
	assert.Equal(t, 1, s.Blocks)
	assert.Equal(t, 100, s.LargestFree)
	require.NoError(t, p.Validate())
}

// Test_Free_BackwardCoalescing verifies freeing a block folds it into an
// already-free predecessor instead of leaving two adjacent free blocks.
func Test_Free_BackwardCoalescing(t *testing.T) {
	p := newTestPool(t, 100)

	refA, _, err := p.Alloc(20)
	require.NoError(t, err)
	refB, _, err := p.Alloc(20)
	require.NoError(t, err)
	refC, _, err := p.Alloc(60)
	require.NoError(t, err)

	// Free front to back: each free must merge with the hole before it.
	require.NoError(t, p.Free(refA))
	require.NoError(t, p.Validate())

	require.NoError(t, p.Free(refB))
	s := p.Stats()
	assert.Equal(t, 2, s.Blocks, "A and B should have merged")
	assert.Equal(t, 40, s.LargestFree)
	require.NoError(t, p.Validate())

	require.NoError(t, p.Free(refC))
	s = p.Stats()
	assert.Equal(t, 1, s.Blocks)
	assert.Equal(t, 100, s.LargestFree)
}

// Test_Free_MergesBothSides verifies freeing between two holes produces a
// single block covering all three.
func Test_Free_MergesBothSides(t *testing.T) {
	p := newTestPool(t, 100)

	refA, _, err := p.Alloc(20)
	require.NoError(t, err)
	refB, _, err := p.Alloc(20)
	require.NoError(t, err)
	refC, _, err := p.Alloc(20)
	require.NoError(t, err)
	refD, _, err := p.Alloc(40)
	require.NoError(t, err)

	require.NoError(t, p.Free(refA))
	require.NoError(t, p.Free(refC))
	require.NoError(t, p.Validate())

	// B sits between the two holes; freeing it must leave one 60-byte block.
	require.NoError(t, p.Free(refB))
	s := p.Stats()
	assert.Equal(t, 2, s.Blocks)
	assert.Equal(t, 60, s.LargestFree)
	require.NoError(t, p.Validate())

	require.NoError(t, p.Free(refD))
	assert.Equal(t, 1, p.Stats().Blocks)
}

// Test_Free_UsageErrorsAreInert verifies the three misuse cases warn and
// change nothing.
func Test_Free_UsageErrorsAreInert(t *testing.T) {
	p := newTestPool(t, 100)

	ref, _, err := p.Alloc(30)
	require.NoError(t, err)

	before := p.Stats()

	// Nil handle.
	err = p.Free(NilRef)
	assert.ErrorIs(t, err, ErrNilRef)

	// Offset that no block starts at.
	err = p.Free(7)
	assert.ErrorIs(t, err, ErrForeignRef)

	after := p.Stats()
	assert.Equal(t, before.UsedBytes, after.UsedBytes)
	assert.Equal(t, before.Blocks, after.Blocks)
	require.NoError(t, p.Validate())

	// Double free: the first call succeeds, the second warns.
	require.NoError(t, p.Free(ref))
	err = p.Free(ref)
	assert.ErrorIs(t, err, ErrDoubleFree)
	require.NoError(t, p.Validate())

	s := p.Stats()
	assert.Equal(t, 100, s.FreeBytes)
	assert.Equal(t, 1, s.Blocks)
}

// Test_Free_WarningsAreLogged verifies misuse is reported through the
// configured logger.
func Test_Free_WarningsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	p, err := New(100, &Config{Logger: slog.New(slog.NewTextHandler(&buf, nil))})
	require.NoError(t, err)
	defer p.Close()

	_ = p.Free(NilRef)
	assert.Contains(t, buf.String(), "free of nil ref ignored")

	buf.Reset()
	_ = p.Free(42)
	assert.Contains(t, buf.String(), "free of ref not owned by pool")
	assert.Contains(t, buf.String(), "ref=42")

	ref, _, err := p.Alloc(10)
	require.NoError(t, err)
	require.NoError(t, p.Free(ref))

	buf.Reset()
	_ = p.Free(ref)
	assert.Contains(t, buf.String(), "double free")
}

// Test_Free_DataSurvivesNeighbourFree verifies freeing one block does not
// disturb the bytes of a live neighbour.
func Test_Free_DataSurvivesNeighbourFree(t *testing.T) {
	p := newTestPool(t, 100)

	refA, bufA, err := p.Alloc(30)
	require.NoError(t, err)
	_, bufB, err := p.Alloc(30)
	require.NoError(t, err)

	for i := range bufB {
		bufB[i] = 0xBB
	}
	for i := range bufA {
		bufA[i] = 0xAA
	}

	require.NoError(t, p.Free(refA))

	for i := range bufB {
		require.Equal(t, byte(0xBB), bufB[i], "neighbour corrupted at %d", i)
	}
}
