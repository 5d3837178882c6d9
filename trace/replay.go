package trace

import (
	"github.com/joshuapare/poolkit/pool"
)

// Result records the outcome of one replayed operation.
type Result struct {
	Seq    int    `json:"seq"`
	Kind   Kind   `json:"op"`
	Offset int    `json:"offset"` // block offset the op acted on, -1 on failure
	Err    string `json:"err,omitempty"`
}

// Report is the outcome of a replay: one result per op plus the statistics of
// the pool after the last op.
type Report struct {
	Results []Result   `json:"results"`
	Stats   pool.Stats `json:"stats"`
}

// Run replays ops against p in order. Failed operations, including usage
// errors like exhaustion or a double free, are recorded in their result and
// do not stop the replay: the trace plays out exactly as the original
// sequence of calls would have.
//
// Handles follow moves. When a resize relocates a block, later ops targeting
// the block's original op replay against the new location.
func Run(p *pool.Pool, ops []Op) (*Report, error) {
	if err := Validate(ops); err != nil {
		return nil, err
	}

	handles := make([]pool.Ref, len(ops))
	for i := range handles {
		handles[i] = pool.NilRef
	}

	rep := &Report{Results: make([]Result, 0, len(ops))}
	for i, op := range ops {
		res := Result{Seq: i, Kind: op.Kind, Offset: -1}

		switch op.Kind {
		case KindAlloc:
			ref, _, err := p.Alloc(op.Size)
			if err != nil {
				res.Err = err.Error()
			} else {
				handles[i] = ref
				res.Offset = int(ref)
			}

		case KindFree:
			ref := handles[op.Target]
			if err := p.Free(ref); err != nil {
				res.Err = err.Error()
			} else {
				res.Offset = int(ref)
			}

		case KindResize:
			ref := pool.NilRef
			if op.Target >= 0 {
				ref = handles[op.Target]
			}
			newRef, _, err := p.Resize(ref, op.Size)
			if err != nil {
				res.Err = err.Error()
			} else {
				handles[i] = newRef
				if op.Target >= 0 {
					handles[op.Target] = newRef
				}
				res.Offset = int(newRef)
			}
		}

		rep.Results = append(rep.Results, res)
	}

	rep.Stats = p.Stats()
	return rep, nil
}
