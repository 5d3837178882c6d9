package pool

// Stats is a point-in-time snapshot of pool occupancy and operation counters.
// Occupancy fields are computed from the descriptor list at snapshot time;
// counters accumulate over the pool's lifetime.
type Stats struct {
	TotalSize int // arena size in bytes

	UsedBytes   int // bytes inside in-use blocks
	FreeBytes   int // bytes inside free blocks
	Blocks      int // descriptors in the chain, free and in-use
	UsedBlocks  int
	FreeBlocks  int
	LargestFree int // size of the largest free block

	AllocCalls   int
	FreeCalls    int
	ResizeCalls  int
	FailedAllocs int // Alloc calls that returned ErrNoSpace
	Splits       int // oversized blocks split on allocation
	Coalesces    int // adjacent free blocks merged on free
	Moves        int // resizes that relocated a block
}

// Utilization returns the in-use fraction of the arena, 0.0 to 1.0.
func (s Stats) Utilization() float64 {
	if s.TotalSize == 0 {
		return 0
	}
	return float64(s.UsedBytes) / float64(s.TotalSize)
}

// Stats walks the descriptor list and returns a snapshot. After Close the
// occupancy fields are zero and only the counters remain.
func (p *Pool) Stats() Stats {
	s := p.stats
	if p.closed {
		return s
	}
	for idx := p.head; idx != none; idx = p.blocks[idx].next {
		b := p.blocks[idx]
		s.Blocks++
		if b.free {
			s.FreeBlocks++
			s.FreeBytes += int(b.size)
			if int(b.size) > s.LargestFree {
				s.LargestFree = int(b.size)
			}
		} else {
			s.UsedBlocks++
			s.UsedBytes += int(b.size)
		}
	}
	return s
}
