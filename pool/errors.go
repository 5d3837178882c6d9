package pool

import "errors"

var (
	// ErrBadPoolSize indicates a pool size outside (0, MaxPoolSize].
	ErrBadPoolSize = errors.New("pool: total size must be positive and at most MaxPoolSize")

	// ErrBadSize indicates a non-positive allocation size.
	ErrBadSize = errors.New("pool: size must be positive")

	// ErrNoSpace indicates that no free block large enough was found.
	ErrNoSpace = errors.New("pool: no free block large enough")

	// ErrNilRef indicates an operation on the nil handle.
	ErrNilRef = errors.New("pool: nil ref")

	// ErrForeignRef indicates a ref that does not address a block of this pool.
	ErrForeignRef = errors.New("pool: ref not allocated from this pool")

	// ErrDoubleFree indicates the referenced block is already free.
	ErrDoubleFree = errors.New("pool: block already free")

	// ErrClosed indicates the pool has been closed.
	ErrClosed = errors.New("pool: closed")
)
