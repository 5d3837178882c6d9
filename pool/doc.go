// Package pool implements a fixed-capacity first-fit allocator over one
// contiguous memory arena.
//
// # Overview
//
// A Pool reserves its arena once, up front, and hands out byte ranges of it.
// The arena is described by an ordered list of block descriptors; every byte
// of the arena belongs to exactly one block, and each block is either in use
// or free. The pool never grows: when no free block can satisfy a request,
// Alloc fails with ErrNoSpace and the caller decides what to do.
//
// # Operations
//
//   - Alloc(size): First fit. Scans blocks in address order, takes the first
//     free block large enough, and splits off the tail when the block is
//     bigger than the request.
//   - Free(ref): Returns a block and merges it with its free neighbours,
//     so no two adjacent blocks are ever both free.
//   - Resize(ref, size): Keeps the block in place when it is already large
//     enough, otherwise allocates a new block, copies the old contents, and
//     frees the old block.
//   - Close: Releases the arena back to the OS. Safe to call twice.
//
// # Handles
//
// Blocks are addressed by Ref, the byte offset of the block within the
// arena. Offsets are stable for the lifetime of an allocation, so they can
// be stored, serialized, and compared across runs: the same call sequence
// against pools of the same size yields the same offsets.
//
// # Usage Example
//
//	p, err := pool.New(1<<20, nil)
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	ref, buf, err := p.Alloc(256)
//	if err != nil {
//	    return err
//	}
//	copy(buf, payload)
//
//	// Later, hand the block back.
//	err = p.Free(ref)
//
// # Usage Errors
//
// Free and Resize tolerate misuse: freeing NilRef, freeing an offset the
// pool never handed out, and freeing a block twice all leave the pool
// untouched. Each is reported through the configured slog.Logger and as a
// sentinel error (ErrNilRef, ErrForeignRef, ErrDoubleFree) so callers can
// choose to ignore or escalate.
//
// # Thread Safety
//
// Pool instances are not thread-safe. Callers must synchronize access
// externally.
//
// # Related Packages
//
//   - github.com/joshuapare/poolkit/trace: Records and replays pool workloads
//   - github.com/joshuapare/poolkit/internal/arena: Reserves the backing memory
package pool
