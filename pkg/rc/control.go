// Package rc implements the reference-counted "control block" that a host
// language normally provides as part of its shared/weak pointer runtime
// (std::shared_ptr's control block, in the original C++ design this package
// ports). Go has no such primitive in the standard library, so ControlBlock
// is the thing lifelock.Anchor and lifelock.Barrier are built on top of
// rather than something they assume as external infrastructure.
package rc

import (
	"sync"
	"sync/atomic"
)

// ControlBlock tracks the strong and weak reference counts shared by every
// Strong[T]/Weak[T] observer minted against it, and runs a deleter exactly
// once when the strong count reaches zero.
//
// The deleter's sole contract is "runs at most once, on whichever goroutine
// drops the last strong reference." It must remain callable after every
// Strong observer referencing this block has been collected, which is
// trivially true here since the deleter closure is held by the ControlBlock
// itself, not by any observer.
type ControlBlock struct {
	strong  atomic.Int64
	weak    atomic.Int64
	fired   sync.Once
	deleter func()
}

// NewControlBlock creates a control block with an initial strong count of
// one, representing the reference the caller is about to take ownership of
// (mirrors the "freshly minted strong observer" that lifelock.NewAnchor consumes).
func NewControlBlock(deleter func()) *ControlBlock {
	cb := &ControlBlock{deleter: deleter}
	cb.strong.Store(1)
	return cb
}

// AcquireStrong attempts to add a strong reference. It fails (returns false)
// iff the strong count has already reached zero — i.e. the deleter has
// already fired or is in the process of firing.
func (cb *ControlBlock) AcquireStrong() bool {
	for {
		n := cb.strong.Load()
		if n <= 0 {
			return false
		}
		if cb.strong.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// ReleaseStrong drops a strong reference. If this was the last one, the
// deleter runs synchronously, inline, on the calling goroutine, before
// ReleaseStrong returns.
func (cb *ControlBlock) ReleaseStrong() {
	if cb.strong.Add(-1) == 0 {
		cb.fired.Do(cb.deleter)
	}
}

// StrongCount returns a momentary snapshot of the strong count. Useful for
// diagnostics only; it can change the instant after this returns.
func (cb *ControlBlock) StrongCount() int64 {
	return cb.strong.Load()
}

// IsLive reports whether the strong count is currently nonzero.
func (cb *ControlBlock) IsLive() bool {
	return cb.strong.Load() > 0
}

// AcquireWeak and ReleaseWeak track the weak count for API fidelity with the
// spec's data model (§3: "destroyed when weak count also reaches 0"). Go's
// garbage collector reclaims the ControlBlock itself once nothing
// references it, so nothing here actually frees memory — the counters exist
// so callers (and tests) can observe the bookkeeping the original
// shared_ptr-based design performs.
func (cb *ControlBlock) AcquireWeak() {
	cb.weak.Add(1)
}

func (cb *ControlBlock) ReleaseWeak() {
	cb.weak.Add(-1)
}

func (cb *ControlBlock) WeakCount() int64 {
	return cb.weak.Load()
}
