//go:build !unix && !windows

// Package arena reserves the contiguous backing memory for pools.
package arena

import "fmt"

// Reserve returns a heap-backed region when page mapping is not available.
func Reserve(size int) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, fmt.Errorf("arena: invalid reservation size %d", size)
	}
	return make([]byte, size), func() error { return nil }, nil
}
