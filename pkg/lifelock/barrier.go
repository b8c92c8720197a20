package lifelock

import (
	"sync/atomic"

	"github.com/lifelockgo/lifelock/pkg/rc"
	"github.com/rs/zerolog/log"
)

type barrierState int32

const (
	stateEmpty barrierState = iota
	stateArmed
	stateDisarming
)

// Barrier couples an Anchor to a one-shot signal via a custom deleter, and
// provides the destruction-time wait described in spec.md §4.2. The zero
// value is an Empty Barrier that waits with the spin+sleep backoff at its
// default bounds and never logs a slow-wait warning; NewBarrier starts from
// DefaultConfig instead.
//
// Internally the Anchor's control-block pointer is held in an
// atomic.Pointer rather than as an embedded lifelock.Anchor value: Disarm
// clears it concurrently with other goroutines calling GetStrong/GetWeak
// (spec.md §5, "minting observers from other threads while disarm is in
// progress is safe"), and that requires the field itself — not just the
// control block's refcount — to be read/written without a data race.
// Anchor remains the type users reach for outside a Barrier (spec.md
// §4.1); Barrier just doesn't store one as a plain struct field.
type Barrier struct {
	state atomic.Int32
	cb    atomic.Pointer[rc.ControlBlock]
	sig   atomic.Pointer[signal]
	cfg   Config

	metrics *Metrics
}

// NewBarrier constructs an empty Barrier. Options override the defaults
// from DefaultConfig.
func NewBarrier(opts ...Option) *Barrier {
	return &Barrier{cfg: buildConfig(opts...)}
}

// WithMetrics attaches a Metrics sink that Arm/Disarm report to. Returns b
// for chaining.
func (b *Barrier) WithMetrics(m *Metrics) *Barrier {
	b.metrics = m
	return b
}

// IsArmed reports whether the Barrier is in the Armed state, including the
// anchor-less Armed state left by Arm on a nil pointer.
func (b *Barrier) IsArmed() bool {
	return barrierState(b.state.Load()) == stateArmed
}

// Arm transitions the Barrier from Empty to Armed, installing a deleter on
// a freshly constructed control block that fires when the last strong
// observer of p is released. Returns false if the Barrier was not Empty
// (arming twice without an intervening Disarm is rejected, not silently
// ignored).
//
// arm(nil) is accepted and resolves spec.md §9's stated open question by
// leaving the Barrier Armed but anchor-less: GetWeak/GetStrong against it
// always return empty observers, and Disarm on it returns immediately.
func Arm[T any](b *Barrier, p *T) bool {
	if !b.state.CompareAndSwap(int32(stateEmpty), int32(stateArmed)) {
		return false
	}
	if p == nil {
		b.cb.Store(nil)
		b.sig.Store(nil)
		recordArm(b.metrics)
		return true
	}

	sig := newSignal()
	cb := rc.NewControlBlock(func() { sig.set() })
	b.sig.Store(sig)
	b.cb.Store(cb)
	recordArm(b.metrics)
	return true
}

// GetStrong mints a strong observer for p sharing b's control block.
// Returns an empty observer if b is Empty, p is nil, or the control block
// has already begun tearing down (spec.md §4.2, §7).
func GetStrong[T any](b *Barrier, p *T) rc.Strong[T] {
	cb := b.cb.Load()
	if cb == nil || p == nil || !cb.AcquireStrong() {
		return rc.Strong[T]{}
	}
	return rc.NewStrong(p, cb)
}

// GetWeak mints a weak observer for p sharing b's control block. Returns an
// empty observer if b is Empty or p is nil.
func GetWeak[T any](b *Barrier, p *T) rc.Weak[T] {
	cb := b.cb.Load()
	if cb == nil || p == nil {
		return rc.Weak[T]{}
	}
	return rc.NewWeak(p, cb)
}

// Disarm drops the Anchor and waits for every outstanding strong observer
// to be released, following spec.md §4.2's five-step sequence. A second,
// concurrent, or later call to Disarm on an already-Empty Barrier is a
// no-op (spec.md §8 invariant 3, idempotence). Disarm must not be called
// from two goroutines concurrently on the same Barrier — the owner's
// responsibility per spec.md §5 — but GetStrong/GetWeak calls racing a
// Disarm in progress are safe.
//
// If the calling goroutine itself holds a live strong observer minted from
// this Barrier, Disarm waits on itself and never returns. This is a
// documented hazard (spec.md §5), not a defended-against error.
func (b *Barrier) Disarm() {
	if !b.state.CompareAndSwap(int32(stateArmed), int32(stateDisarming)) {
		return
	}
	defer b.state.Store(int32(stateEmpty))

	cb := b.cb.Swap(nil)
	if cb == nil {
		// Armed on a nil pointer (see Arm); nothing was ever anchored.
		return
	}

	// Step 1: hold a temporary strong observer for *b itself so that
	// dropping the Anchor below cannot fire the deleter yet.
	if !cb.AcquireStrong() {
		// The last strong observer released between the Swap above and
		// here and already ran the deleter; the signal, if any, is fired.
		b.sig.Store(nil)
		return
	}
	tmp := rc.NewStrong(b, cb)

	// Step 2: drop the Anchor's own refcount contribution. The deleter has
	// not fired yet because tmp keeps the count >= 1.
	cb.ReleaseStrong()

	// Step 3 (spec.md §3's storage-reuse step) has no analogue here: this
	// port never overlaps the Anchor and the signal in memory, so there is
	// nothing to construct in place. The signal already exists, unset,
	// from Arm.
	sig := b.sig.Load()

	// Step 4: drop the temporary observer. If no other strong observer is
	// outstanding, this runs the deleter inline, which sets the signal.
	tmp.Release()

	// Step 5: wait for the signal.
	if sig != nil {
		stats := sig.wait(b.cfg)
		recordDisarm(b.metrics, stats)
		if b.cfg.SlowWaitThresholdNanos > 0 && stats.waited.Nanoseconds() >= b.cfg.SlowWaitThresholdNanos {
			log.Warn().Msgf(
				"[lifelock] disarm waited %s for outstanding strong observers (spins=%d sleeps=%d)",
				stats.waited, stats.spins, stats.sleeps,
			)
		}
		b.sig.Store(nil)
	}
}

// Close is Disarm under the io.Closer signature, for embedding Barrier in
// code that expects a closer. Always returns nil.
func (b *Barrier) Close() error {
	b.Disarm()
	return nil
}
