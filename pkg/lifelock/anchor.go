package lifelock

import "github.com/lifelockgo/lifelock/pkg/rc"

// Anchor holds a single strong refcount contribution on a control block
// without carrying any referent pointer (spec.md §4.1). It mints typed
// observer handles aliased to a caller-supplied pointer.
//
// Go forbids a method from introducing type parameters the receiver
// doesn't already have, so minting (which needs a type parameter for the
// referent) cannot be a method on Anchor the way it is on the C++ original.
// MakeStrong and MakeWeak are package-level generic functions that take an
// Anchor by value instead — the one place this port's surface shape
// deviates from spec.md's object-oriented phrasing without changing any
// observable behavior.
type Anchor struct {
	cb *rc.ControlBlock
}

// NewAnchor consumes a freshly minted strong observer, retaining only its
// control-block portion; the referent pointer inside s is discarded
// (spec.md §4.1: "new(strong)"). Returns an empty Anchor if s is already
// empty. s is taken by value, so the caller's own copy is not cleared: its
// refcount now belongs to the returned Anchor rather than being duplicated,
// and releasing that copy as well drops the count a second time.
func NewAnchor[T any](s rc.Strong[T]) Anchor {
	if !s.Valid() {
		return Anchor{}
	}
	return Anchor{cb: s.Consume()}
}

// IsArmed reports whether this Anchor currently holds a refcount.
func (a Anchor) IsArmed() bool {
	return a.cb != nil && a.cb.IsLive()
}

// Clone performs the "copy" half of spec.md §4.1's copy/move contract:
// copying an Anchor increments the strong count. Cloning an empty Anchor —
// including one that is the result of a prior Consume/move — produces an
// empty Anchor (spec.md §9, "copy-from-moved-from produces an empty
// Anchor").
func (a Anchor) Clone() Anchor {
	if a.cb == nil || !a.cb.AcquireStrong() {
		return Anchor{}
	}
	return Anchor{cb: a.cb}
}

// Reset drops the held refcount. If this was the last strong reference,
// the deleter fires synchronously on the calling goroutine before Reset
// returns (spec.md §4.1). Reset on an already-empty Anchor is a no-op.
func (a *Anchor) Reset() {
	if a.cb == nil {
		return
	}
	cb := a.cb
	a.cb = nil
	cb.ReleaseStrong()
}

// controlBlock exposes the underlying control block to package-internal
// callers. Barrier keeps its own control-block pointer and does not go
// through this accessor.
func (a Anchor) controlBlock() *rc.ControlBlock {
	return a.cb
}

// MakeStrong returns a strong observer carrying p as its referent but
// sharing a's control block. Returns an empty observer if a is empty, p is
// nil, or the control block's strong count has already reached zero
// (spec.md §4.1, §7).
func MakeStrong[T any](a Anchor, p *T) rc.Strong[T] {
	if a.cb == nil || p == nil || !a.cb.AcquireStrong() {
		return rc.Strong[T]{}
	}
	return rc.NewStrong(p, a.cb)
}

// MakeWeak returns a weak observer carrying p as its referent but sharing
// a's control block. Does not contribute to the strong count.
func MakeWeak[T any](a Anchor, p *T) rc.Weak[T] {
	if a.cb == nil || p == nil {
		return rc.Weak[T]{}
	}
	return rc.NewWeak(p, a.cb)
}
