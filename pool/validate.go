package pool

import "fmt"

// ValidationError reports a broken structural invariant of a pool.
type ValidationError struct {
	Type    string
	Message string
	Offset  int // byte offset of the offending block, -1 when not block-specific
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Validate walks the descriptor list and checks the structural invariants:
// blocks tile the arena exactly in increasing address order, every block has
// a positive size, and no two adjacent blocks are both free. It returns the
// first violation found, or nil when the pool is sound.
func (p *Pool) Validate() error {
	if p.closed {
		return ErrClosed
	}

	var (
		cursor   uint64 // next expected block offset
		prevFree bool
		first    = true
		visited  int
	)
	for idx := p.head; idx != none; idx = p.blocks[idx].next {
		b := p.blocks[idx]

		if b.size == 0 {
			return &ValidationError{
				Type:    "BlockSize",
				Message: "zero-length block",
				Offset:  int(b.off),
			}
		}
		if uint64(b.off) != cursor {
			return &ValidationError{
				Type:    "Partition",
				Message: fmt.Sprintf("block starts at 0x%X, expected 0x%X", b.off, cursor),
				Offset:  int(b.off),
			}
		}
		if !first && prevFree && b.free {
			return &ValidationError{
				Type:    "AdjacentFree",
				Message: "two adjacent free blocks",
				Offset:  int(b.off),
			}
		}

		cursor += uint64(b.size)
		prevFree = b.free
		first = false

		visited++
		if visited > len(p.blocks) {
			return &ValidationError{
				Type:    "Chain",
				Message: "descriptor chain longer than slot table",
				Offset:  -1,
			}
		}
	}

	if cursor != uint64(len(p.data)) {
		return &ValidationError{
			Type:    "Coverage",
			Message: fmt.Sprintf("blocks cover %d of %d arena bytes", cursor, len(p.data)),
			Offset:  -1,
		}
	}
	return nil
}
