package pool

import (
	"bytes"
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockMapDoc mirrors the JSON shape WriteBlockMap emits.
type blockMapDoc struct {
	TotalBytes   int
	UnusedBytes  int
	Allocations  int
	UnusedRanges int
	Blocks       []struct {
		Offset int
		Size   int
		Type   string
	}
}

func Test_WriteBlockMap_FreshPool(t *testing.T) {
	p := newTestPool(t, 16)

	var buf bytes.Buffer
	require.NoError(t, p.WriteBlockMap(&buf))

	want := `{"TotalBytes":16,"UnusedBytes":16,"Allocations":0,"UnusedRanges":1,` +
		`"Blocks":[{"Offset":0,"Size":16,"Type":"FREE"}]}`
	assert.Equal(t, want, buf.String())
}

func Test_WriteBlockMap_MixedLayout(t *testing.T) {
	p := newTestPool(t, 100)

	a, _, err := p.Alloc(30)
	require.NoError(t, err)
	_, _, err = p.Alloc(20)
	require.NoError(t, err)
	require.NoError(t, p.Free(a))

	var buf bytes.Buffer
	require.NoError(t, p.WriteBlockMap(&buf))

	var doc blockMapDoc
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, 100, doc.TotalBytes)
	assert.Equal(t, 80, doc.UnusedBytes)
	assert.Equal(t, 1, doc.Allocations)
	assert.Equal(t, 2, doc.UnusedRanges)

	require.Len(t, doc.Blocks, 3)
	assert.Equal(t, "FREE", doc.Blocks[0].Type)
	assert.Equal(t, "ALLOCATION", doc.Blocks[1].Type)
	assert.Equal(t, "FREE", doc.Blocks[2].Type)

	// Entries must tile the arena in address order.
	cursor := 0
	for i, b := range doc.Blocks {
		assert.Equal(t, cursor, b.Offset, "block %d out of place", i)
		cursor += b.Size
	}
	assert.Equal(t, doc.TotalBytes, cursor)
}

func Test_WriteBlockMap_ClosedPool(t *testing.T) {
	p := newTestPool(t, 100)
	require.NoError(t, p.Close())

	var buf bytes.Buffer
	assert.ErrorIs(t, p.WriteBlockMap(&buf), ErrClosed)
	assert.Zero(t, buf.Len())
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, errors.New("sink failed")
}

func Test_WriteBlockMap_PropagatesWriterError(t *testing.T) {
	p := newTestPool(t, 100)

	err := p.WriteBlockMap(failWriter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink failed")
}
