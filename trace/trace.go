// Package trace reads, writes, and replays pool operation traces.
//
// A trace is a JSON array of operations. Each operation names its kind and,
// for free and resize, the index of the earlier operation whose block it acts
// on:
//
//	[
//	  {"op": "alloc", "size": 30},
//	  {"op": "alloc", "size": 20},
//	  {"op": "free", "target": 0},
//	  {"op": "resize", "size": 40, "target": 1}
//	]
//
// Replaying the same trace against pools of the same size always produces the
// same offsets, results, and statistics, so traces double as regression
// fixtures and as a way to reproduce allocation patterns reported from the
// field.
package trace

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// Kind names a pool operation in a trace.
type Kind string

const (
	KindAlloc  Kind = "alloc"
	KindFree   Kind = "free"
	KindResize Kind = "resize"
)

var (
	// ErrUnknownOp indicates an op kind that is not alloc, free, or resize.
	ErrUnknownOp = errors.New("trace: unknown op kind")

	// ErrBadSize indicates an alloc or resize op with a non-positive size.
	ErrBadSize = errors.New("trace: size must be positive")

	// ErrBadTarget indicates a target that does not reference an earlier op.
	ErrBadTarget = errors.New("trace: target out of range")
)

// Op is one step of a trace. Size applies to alloc and resize. Target applies
// to free and resize and is the index of the earlier op whose handle the step
// acts on; a resize with Target -1 starts from the nil handle and behaves
// like an alloc.
type Op struct {
	Kind   Kind `json:"op"`
	Size   int  `json:"size,omitempty"`
	Target int  `json:"target,omitempty"`
}

// Validate checks that every op is well formed and only references ops before
// it. It returns the first violation found.
func Validate(ops []Op) error {
	for i, op := range ops {
		switch op.Kind {
		case KindAlloc:
			if op.Size <= 0 {
				return fmt.Errorf("%w: op %d size %d", ErrBadSize, i, op.Size)
			}
		case KindFree:
			if op.Target < 0 || op.Target >= i {
				return fmt.Errorf("%w: op %d target %d", ErrBadTarget, i, op.Target)
			}
		case KindResize:
			if op.Size <= 0 {
				return fmt.Errorf("%w: op %d size %d", ErrBadSize, i, op.Size)
			}
			if op.Target < -1 || op.Target >= i {
				return fmt.Errorf("%w: op %d target %d", ErrBadTarget, i, op.Target)
			}
		default:
			return fmt.Errorf("%w: op %d kind %q", ErrUnknownOp, i, op.Kind)
		}
	}
	return nil
}

// Decode reads a JSON trace from r and validates it.
func Decode(r io.Reader) ([]Op, error) {
	var ops []Op
	if err := json.NewDecoder(r).Decode(&ops); err != nil {
		return nil, fmt.Errorf("trace: decode: %w", err)
	}
	if err := Validate(ops); err != nil {
		return nil, err
	}
	return ops, nil
}

// Encode writes ops to w as an indented JSON trace.
func Encode(w io.Writer, ops []Op) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ops); err != nil {
		return fmt.Errorf("trace: encode: %w", err)
	}
	return nil
}
