package lifelock

import (
	"sync/atomic"

	"github.com/lifelockgo/lifelock/pkg/rc"
)

// Cell packages storage for a T together with a Barrier, so the
// construct-then-arm / disarm-then-destroy ordering from spec.md §4.3
// cannot be gotten wrong by a caller. The zero value is not usable;
// construct with NewCell.
type Cell[T any] struct {
	value    T
	barrier  *Barrier
	occupied atomic.Bool
}

// NewCell constructs an empty Cell. Options configure the embedded
// Barrier's wait strategy exactly as they would for a standalone Barrier.
func NewCell[T any](opts ...Option) *Cell[T] {
	return &Cell[T]{barrier: NewBarrier(opts...)}
}

// WithMetrics attaches a Metrics sink to the embedded Barrier.
func (c *Cell[T]) WithMetrics(m *Metrics) *Cell[T] {
	c.barrier.WithMetrics(m)
	return c
}

// Construct stores v and arms the Barrier on its address, in that strict
// order (spec.md §4.3: "object first, arm second"). Returns false if the
// Cell was already occupied; the Cell is left unchanged in that case.
func (c *Cell[T]) Construct(v T) bool {
	if !c.occupied.CompareAndSwap(false, true) {
		return false
	}
	c.value = v
	Arm(c.barrier, &c.value)
	return true
}

// Reset disarms the Barrier — waiting for every outstanding strong
// observer to be released — and only then destroys the stored value
// (spec.md §4.3: "disarm first; then run T's destructor"). A Reset on an
// already-empty Cell is a no-op.
func (c *Cell[T]) Reset() {
	if !c.occupied.CompareAndSwap(true, false) {
		return
	}
	c.barrier.Disarm()
	var zero T
	c.value = zero
}

// IsOccupied reports whether the Cell currently holds a live value.
func (c *Cell[T]) IsOccupied() bool {
	return c.occupied.Load()
}

// Weak mints a weak observer for the stored value. Empty if the Cell is
// not occupied.
func (c *Cell[T]) Weak() rc.Weak[T] {
	if !c.IsOccupied() {
		return rc.Weak[T]{}
	}
	return GetWeak(c.barrier, &c.value)
}

// Strong mints a strong observer for the stored value. Empty if the Cell
// is not occupied.
func (c *Cell[T]) Strong() rc.Strong[T] {
	if !c.IsOccupied() {
		return rc.Strong[T]{}
	}
	return GetStrong(c.barrier, &c.value)
}

// Value returns a pointer to the stored value, or nil if the Cell is
// empty. Defined only when occupied (spec.md §4.3); the caller is
// responsible for not racing with Reset.
func (c *Cell[T]) Value() *T {
	if !c.IsOccupied() {
		return nil
	}
	return &c.value
}

// RawPtr is an alias for Value, matching spec.md's naming for the raw
// pointer accessor.
func (c *Cell[T]) RawPtr() *T {
	return c.Value()
}

// ValueOr returns the stored value, or fallback if the Cell is empty. This
// supplements spec.md per SPEC_FULL.md §4 (the original header's own
// std::optional-conformance TODO), a direct analogue of
// std::optional<T>::value_or.
func (c *Cell[T]) ValueOr(fallback T) T {
	if v := c.Value(); v != nil {
		return *v
	}
	return fallback
}
