package pool

import "runtime"

// Allocator is the operation surface shared by Pool and wrappers around it.
type Allocator interface {
	// Alloc returns the handle and payload of a block of size bytes.
	Alloc(size int) (Ref, []byte, error)

	// Free returns the block at ref to the pool.
	Free(ref Ref) error

	// Resize grows or keeps the block at ref, moving its contents if needed.
	Resize(ref Ref, newSize int) (Ref, []byte, error)
}

var (
	_ Allocator = (*Pool)(nil)
	_ Allocator = (*CheckedPool)(nil)
)

// TestingT is the subset of testing.TB needed by AssertAllFreed.
type TestingT interface {
	Errorf(format string, args ...interface{})
	Helper()
}

// dalloc records where a live block was handed out.
type dalloc struct {
	pc   uintptr
	line int
	sz   int
}

// CheckedPool wraps an Allocator and records every live block together with
// its allocation site, so tests can assert that everything was freed. Like
// the pool itself it is not safe for concurrent use.
type CheckedPool struct {
	mem  Allocator
	live map[Ref]*dalloc
}

// NewChecked wraps mem in a leak-tracking pool.
func NewChecked(mem Allocator) *CheckedPool {
	return &CheckedPool{mem: mem, live: make(map[Ref]*dalloc)}
}

// CurrentAlloc returns the number of bytes handed out and not yet freed.
func (c *CheckedPool) CurrentAlloc() int {
	total := 0
	for _, d := range c.live {
		total += d.sz
	}
	return total
}

func (c *CheckedPool) Alloc(size int) (Ref, []byte, error) {
	ref, buf, err := c.mem.Alloc(size)
	if err != nil {
		return ref, buf, err
	}
	c.track(ref, size)
	return ref, buf, nil
}

func (c *CheckedPool) Free(ref Ref) error {
	err := c.mem.Free(ref)
	if err == nil {
		delete(c.live, ref)
	}
	return err
}

func (c *CheckedPool) Resize(ref Ref, newSize int) (Ref, []byte, error) {
	newRef, buf, err := c.mem.Resize(ref, newSize)
	if err != nil {
		return newRef, buf, err
	}
	if ref != NilRef {
		delete(c.live, ref)
	}
	c.track(newRef, newSize)
	return newRef, buf, nil
}

func (c *CheckedPool) track(ref Ref, size int) {
	d := &dalloc{sz: size}
	if pc, _, line, ok := runtime.Caller(2); ok {
		d.pc = pc
		d.line = line
	}
	c.live[ref] = d
}

// AssertAllFreed fails t with one error per block that is still live.
func (c *CheckedPool) AssertAllFreed(t TestingT) {
	t.Helper()
	for ref, d := range c.live {
		f := runtime.FuncForPC(d.pc)
		name := "unknown"
		if f != nil {
			name = f.Name()
		}
		t.Errorf("LEAK of %d bytes at offset 0x%X FROM %s line %d", d.sz, ref, name, d.line)
	}
}
