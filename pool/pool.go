package pool

import (
	"fmt"
	"log/slog"

	"github.com/joshuapare/poolkit/internal/arena"
)

// Ref is a block handle - the byte offset of the block within the pool arena.
type Ref = uint32

// NilRef is the empty handle. Free(NilRef) is a diagnosable no-op and
// Resize(NilRef, size) behaves like Alloc(size).
const NilRef Ref = ^Ref(0)

const (
	// MaxPoolSize is the largest arena a pool may reserve (2GB - 1).
	// Refs are uint32 offsets and NilRef must never collide with a block.
	MaxPoolSize = 1<<31 - 1 // 2GB - 1

	// none terminates a descriptor chain in the slot table.
	none = -1
)

// block describes one contiguous segment of the arena. Blocks live in an
// index-addressed slot table and are chained through next in address order.
// Recycled slots are chained through next on the slot free list.
type block struct {
	off  uint32 // segment start, bytes from arena base
	size uint32 // segment length, > 0 for every chained block
	free bool
	next int32 // slot of the next-higher segment, or none
}

// Config carries optional pool settings. A nil *Config selects the defaults.
type Config struct {
	// MaxBlocks caps how many block descriptors the pool may hold at once,
	// free and in-use combined. When the cap is reached, an allocation that
	// would split a block fails with ErrNoSpace, exactly like exhaustion,
	// and the candidate block is left untouched. 0 or negative means no cap.
	MaxBlocks int

	// Logger receives usage warnings (nil, foreign, and double frees).
	// Defaults to slog.Default().
	Logger *slog.Logger
}

// Pool is a fixed-capacity first-fit allocator over one contiguous arena.
// The descriptor list always partitions the arena: blocks are chained in
// strictly increasing address order, cover every byte exactly once, and no
// two adjacent blocks are both free.
type Pool struct {
	data    []byte       // the arena; len(data) is fixed until Close
	release func() error // returns the arena to the OS

	blocks   []block // descriptor slot table
	head     int32   // slot of the lowest-address block
	freeSlot int32   // head of the recycled-slot chain, or none

	liveBlocks int // descriptors currently chained from head
	maxBlocks  int

	log    *slog.Logger
	closed bool

	stats Stats
}

// New reserves an arena of totalSize bytes and returns a pool managing it as
// a single free block. cfg may be nil for the defaults.
func New(totalSize int, cfg *Config) (*Pool, error) {
	if totalSize <= 0 || totalSize > MaxPoolSize {
		return nil, fmt.Errorf("%w: %d", ErrBadPoolSize, totalSize)
	}

	var c Config
	if cfg != nil {
		c = *cfg
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}

	data, release, err := arena.Reserve(totalSize)
	if err != nil {
		return nil, fmt.Errorf("pool: reserve arena: %w", err)
	}

	p := &Pool{
		data:       data,
		release:    release,
		blocks:     make([]block, 1, 16),
		head:       0,
		freeSlot:   none,
		liveBlocks: 1,
		maxBlocks:  c.MaxBlocks,
		log:        c.Logger,
	}
	p.blocks[0] = block{off: 0, size: uint32(totalSize), free: true, next: none}
	p.stats.TotalSize = totalSize
	return p, nil
}

// Size returns the arena size in bytes. It does not change over the life of
// the pool.
func (p *Pool) Size() int {
	return p.stats.TotalSize
}

// Alloc returns the handle and payload of a block of exactly size bytes.
// Scanning is first fit in address order; an oversized block is split and
// its tail stays free. Fails with ErrNoSpace when no free block is large
// enough and with ErrBadSize when size is not positive.
func (p *Pool) Alloc(size int) (Ref, []byte, error) {
	if p.closed {
		return NilRef, nil, ErrClosed
	}
	p.stats.AllocCalls++

	if size <= 0 || size > MaxPoolSize {
		return NilRef, nil, fmt.Errorf("%w: %d", ErrBadSize, size)
	}
	need := uint32(size)

	for idx := p.head; idx != none; idx = p.blocks[idx].next {
		if !p.blocks[idx].free || p.blocks[idx].size < need {
			continue
		}

		if p.blocks[idx].size > need {
			cur := p.blocks[idx]
			rest, ok := p.newSlot(block{
				off:  cur.off + need,
				size: cur.size - need,
				free: true,
				next: cur.next,
			})
			if !ok {
				// Slot table is at its cap. The candidate block stays as it
				// was and the request fails like exhaustion.
				break
			}
			p.blocks[idx].size = need
			p.blocks[idx].next = rest
			p.stats.Splits++
		}

		p.blocks[idx].free = false
		off := p.blocks[idx].off
		return off, p.payload(off, need), nil
	}

	p.stats.FailedAllocs++
	return NilRef, nil, ErrNoSpace
}

// Free returns the block at ref to the pool and merges it with its free
// neighbours, so no two adjacent blocks are left free. Misuse is inert:
// freeing NilRef, an offset the pool never handed out, or an already-free
// block leaves the pool unchanged, logs a warning, and returns the matching
// sentinel error.
func (p *Pool) Free(ref Ref) error {
	if p.closed {
		return ErrClosed
	}
	p.stats.FreeCalls++

	if ref == NilRef {
		p.log.Warn("free of nil ref ignored")
		return ErrNilRef
	}
	idx := p.lookup(ref)
	if idx == none {
		p.log.Warn("free of ref not owned by pool", "ref", ref)
		return fmt.Errorf("%w: %#x", ErrForeignRef, ref)
	}
	if p.blocks[idx].free {
		p.log.Warn("double free", "ref", ref)
		return fmt.Errorf("%w: %#x", ErrDoubleFree, ref)
	}

	p.freeAt(idx)
	return nil
}

// Resize changes the block at ref to hold at least newSize bytes and returns
// the handle and payload of the result. ref == NilRef behaves like Alloc. A
// block already large enough keeps its address and its full payload length.
// Otherwise the contents move: a new block is allocated, the old block's
// bytes are copied, and the old block is freed. On failure the old block is
// untouched and still valid.
func (p *Pool) Resize(ref Ref, newSize int) (Ref, []byte, error) {
	if p.closed {
		return NilRef, nil, ErrClosed
	}
	p.stats.ResizeCalls++

	if ref == NilRef {
		return p.Alloc(newSize)
	}
	if newSize <= 0 || newSize > MaxPoolSize {
		return NilRef, nil, fmt.Errorf("%w: %d", ErrBadSize, newSize)
	}

	idx := p.lookup(ref)
	if idx == none {
		p.log.Warn("resize of ref not owned by pool", "ref", ref)
		return NilRef, nil, fmt.Errorf("%w: %#x", ErrForeignRef, ref)
	}
	old := p.blocks[idx]
	if old.free {
		p.log.Warn("resize of freed block", "ref", ref)
		return NilRef, nil, fmt.Errorf("%w: %#x", ErrDoubleFree, ref)
	}

	if old.size >= uint32(newSize) {
		return ref, p.payload(old.off, old.size), nil
	}

	newRef, dst, err := p.Alloc(newSize)
	if err != nil {
		return NilRef, nil, err
	}
	// Only the old block's bytes carry over; the tail of dst stays zeroed
	// until the caller writes it.
	copy(dst, p.payload(old.off, old.size))
	p.freeAt(idx)
	p.stats.Moves++
	return newRef, dst, nil
}

// Close releases the arena and drops every descriptor. Close is idempotent;
// all other operations on a closed pool fail with ErrClosed.
func (p *Pool) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.blocks = nil
	p.head = none
	p.freeSlot = none
	p.liveBlocks = 0
	p.data = nil

	release := p.release
	p.release = nil
	if release == nil {
		return nil
	}
	if err := release(); err != nil {
		return fmt.Errorf("pool: release arena: %w", err)
	}
	return nil
}

// VisitBlocks calls fn for every block in address order. Iteration stops at
// the first error, which is returned.
func (p *Pool) VisitBlocks(fn func(off, size uint32, free bool) error) error {
	if p.closed {
		return ErrClosed
	}
	for idx := p.head; idx != none; idx = p.blocks[idx].next {
		b := p.blocks[idx]
		if err := fn(b.off, b.size, b.free); err != nil {
			return err
		}
	}
	return nil
}

// ============================================================================
// Internal helpers
// ============================================================================

// freeAt marks the block in slot idx free and coalesces it with its free
// neighbours. The block is folded into a free immediate predecessor when one
// exists (a split remainder, or a block freed while this one was still in
// use), then look-ahead merging absorbs every free block that follows.
func (p *Pool) freeAt(idx int32) {
	p.blocks[idx].free = true

	start := idx
	if prev := p.prevOf(idx); prev != none && p.blocks[prev].free {
		start = prev
	}
	for {
		next := p.blocks[start].next
		if next == none || !p.blocks[next].free {
			return
		}
		p.blocks[start].size += p.blocks[next].size
		p.blocks[start].next = p.blocks[next].next
		p.recycleSlot(next)
		p.stats.Coalesces++
	}
}

// lookup returns the slot of the block starting at ref, or none.
func (p *Pool) lookup(ref Ref) int32 {
	for idx := p.head; idx != none; idx = p.blocks[idx].next {
		if p.blocks[idx].off == ref {
			return idx
		}
	}
	return none
}

// prevOf returns the slot directly before idx in address order, or none when
// idx heads the chain.
func (p *Pool) prevOf(idx int32) int32 {
	if idx == p.head {
		return none
	}
	for cur := p.head; cur != none; cur = p.blocks[cur].next {
		if p.blocks[cur].next == idx {
			return cur
		}
	}
	return none
}

// newSlot stores b in a recycled slot when one is available and grows the
// table otherwise. Reports failure only when MaxBlocks caps the table.
func (p *Pool) newSlot(b block) (int32, bool) {
	if idx := p.freeSlot; idx != none {
		p.freeSlot = p.blocks[idx].next
		p.blocks[idx] = b
		p.liveBlocks++
		return idx, true
	}
	if p.maxBlocks > 0 && p.liveBlocks >= p.maxBlocks {
		return none, false
	}
	p.blocks = append(p.blocks, b)
	p.liveBlocks++
	return int32(len(p.blocks) - 1), true
}

// recycleSlot returns slot idx to the recycled-slot chain.
func (p *Pool) recycleSlot(idx int32) {
	p.blocks[idx] = block{next: p.freeSlot}
	p.freeSlot = idx
	p.liveBlocks--
}

// payload returns the caller-visible slice for a block. Capacity is pinned
// to the block so appends cannot reach a neighbour.
func (p *Pool) payload(off, size uint32) []byte {
	return p.data[off : off+size : off+size]
}
