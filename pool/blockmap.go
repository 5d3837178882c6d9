package pool

import (
	"io"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// WriteBlockMap streams a JSON picture of the pool to w: occupancy totals
// followed by one entry per block in address order. The shape follows the
// detailed-map dumps of block allocators, so the output of two pools can be
// diffed directly.
func (p *Pool) WriteBlockMap(w io.Writer) error {
	if p.closed {
		return ErrClosed
	}

	s := p.Stats()

	jw := jwriter.NewStreamingWriter(w, 4096)
	obj := jw.Object()
	obj.Name("TotalBytes").Int(s.TotalSize)
	obj.Name("UnusedBytes").Int(s.FreeBytes)
	obj.Name("Allocations").Int(s.UsedBlocks)
	obj.Name("UnusedRanges").Int(s.FreeBlocks)

	arr := obj.Name("Blocks").Array()
	_ = p.VisitBlocks(func(off, size uint32, free bool) error {
		b := arr.Object()
		b.Name("Offset").Int(int(off))
		b.Name("Size").Int(int(size))
		if free {
			b.Name("Type").String("FREE")
		} else {
			b.Name("Type").String("ALLOCATION")
		}
		b.End()
		return nil
	})
	arr.End()
	obj.End()

	if err := jw.Error(); err != nil {
		return err
	}
	return jw.Flush()
}
