package rc

// Strong is a ref-counted handle aliased to a caller-chosen referent
// pointer but sharing ownership of another handle's control block — the
// Go analogue of std::shared_ptr's aliasing constructor (spec.md §9,
// "Aliasing observers"). The zero value is a valid, empty Strong.
type Strong[T any] struct {
	ptr *T
	cb  *ControlBlock
}

// NewStrong wraps ptr and cb into a Strong observer without touching the
// control block's refcount. Callers that want a strong reference of their
// own must AcquireStrong on cb first; this constructor exists so
// ControlBlock.AcquireStrong and the mint call can be sequenced explicitly
// by Anchor (see lifelock.MakeStrong).
func NewStrong[T any](ptr *T, cb *ControlBlock) Strong[T] {
	if ptr == nil || cb == nil {
		return Strong[T]{}
	}
	return Strong[T]{ptr: ptr, cb: cb}
}

// Valid reports whether this observer carries a live control block
// reference. It does not prove the referent hasn't been freed by code
// outside this package's contract — only that the Barrier that minted it
// has not finished disarming.
func (s Strong[T]) Valid() bool {
	return s.cb != nil
}

// Get returns the aliased referent pointer, or nil for an empty observer.
func (s Strong[T]) Get() *T {
	return s.ptr
}

// ControlBlock exposes the shared control block, e.g. for Anchor
// construction (which needs to take over the block without the referent).
func (s Strong[T]) ControlBlock() *ControlBlock {
	return s.cb
}

// Clone acquires another strong reference aliased to the same referent.
// Returns an empty Strong if the control block's strong count has already
// reached zero.
func (s Strong[T]) Clone() Strong[T] {
	if s.cb == nil || !s.cb.AcquireStrong() {
		return Strong[T]{}
	}
	return Strong[T]{ptr: s.ptr, cb: s.cb}
}

// Release drops this observer's strong reference. Idempotent: releasing an
// already-empty or already-released Strong is a no-op. After Release, s is
// left empty.
func (s *Strong[T]) Release() {
	if s.cb == nil {
		return
	}
	cb := s.cb
	s.cb = nil
	s.ptr = nil
	cb.ReleaseStrong()
}

// Consume hands the held control block reference to a new owner (Anchor)
// without decrementing the strong count — the Go equivalent of a C++ move.
// After Consume, s is left empty and owns nothing.
func (s *Strong[T]) Consume() *ControlBlock {
	cb := s.cb
	s.cb = nil
	s.ptr = nil
	return cb
}
