package rc

// Weak is a ref-counted handle that observes a control block without
// contributing to its strong count. Promotion (Upgrade) succeeds only while
// the strong count is still nonzero at the instant of promotion.
type Weak[T any] struct {
	ptr *T
	cb  *ControlBlock
}

// NewWeak wraps ptr and cb into a Weak observer. Registers a weak-count
// contribution for bookkeeping parity with the spec's data model.
func NewWeak[T any](ptr *T, cb *ControlBlock) Weak[T] {
	if ptr == nil || cb == nil {
		return Weak[T]{}
	}
	cb.AcquireWeak()
	return Weak[T]{ptr: ptr, cb: cb}
}

// Valid reports whether this observer carries a control block reference at
// all (not whether it would currently promote).
func (w Weak[T]) Valid() bool {
	return w.cb != nil
}

// Upgrade attempts to promote the weak reference to a strong one. Returns
// (zero, false) if the control block's strong count had already reached
// zero — the normal, non-error "expired" signal (spec.md §7).
func (w Weak[T]) Upgrade() (Strong[T], bool) {
	if w.cb == nil || !w.cb.AcquireStrong() {
		return Strong[T]{}, false
	}
	return Strong[T]{ptr: w.ptr, cb: w.cb}, true
}

// Release drops this observer's weak-count contribution. Idempotent.
func (w *Weak[T]) Release() {
	if w.cb == nil {
		return
	}
	cb := w.cb
	w.cb = nil
	w.ptr = nil
	cb.ReleaseWeak()
}
