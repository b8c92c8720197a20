package synced

import (
	"sync"
)

// BatchPool is a typed generic wrapper around sync.Pool.
//
// It reuses objects to minimize allocations and offers the same Get/Put API
// as sync.Pool without the type assertion at each call site. It does not
// preallocate: objects are created one at a time by allocFunc when the pool
// is empty.
type BatchPool[T any] struct {
	pool      *sync.Pool // Underlying sync.Pool for thread-safe pooling
	allocFunc func() T   // Function to create new T
}

// NewBatchPool creates a new, empty BatchPool.
// - allocFunc: function to construct a new T.
func NewBatchPool[T any](allocFunc func() T) *BatchPool[T] {
	bp := &BatchPool[T]{allocFunc: allocFunc}
	bp.pool = &sync.Pool{
		New: func() any {
			return allocFunc()
		},
	}

	return bp
}

// Get retrieves an object from the pool, allocating if necessary.
// Never returns nil (unless allocFunc does).
func (bp *BatchPool[T]) Get() T {
	return bp.pool.Get().(T)
}

// Put returns an object to the pool for future reuse.
func (bp *BatchPool[T]) Put(v T) {
	bp.pool.Put(v)
}
