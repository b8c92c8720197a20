package lifelock

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// signal is a one-shot flag separating "strong count > 0" from "strong
// count == 0" (spec.md Glossary, §3). It is set exactly once, by the
// Barrier's deleter, and is never reused — a fresh signal is created for
// every arm cycle, which is the portable stand-in for the C++ original's
// storage-reuse trick (spec.md §9: "a portable implementation may keep them
// as two separate fields... the union trick is an optimization, not a
// semantic requirement").
type signal struct {
	fired atomic.Bool
	ch    chan struct{}
	once  sync.Once
}

func newSignal() *signal {
	return &signal{ch: make(chan struct{})}
}

// set marks the signal fired. Safe to call more than once; only the first
// call has any effect. This is the deleter's only observable action.
func (s *signal) set() {
	s.once.Do(func() {
		s.fired.Store(true)
		close(s.ch)
	})
}

// Fired reports the current state with acquire ordering.
func (s *signal) Fired() bool {
	return s.fired.Load()
}

// waitStats records what a single wait call had to do, for telemetry.
type waitStats struct {
	spins    int
	sleeps   int
	waited   time.Duration
	usedSpin bool // false => native channel wait was used
}

// wait blocks until the signal fires, using either a native channel wait or
// the spec's adaptive spin+sleep backoff (spec.md §4.2.1), per cfg.
func (s *signal) wait(cfg Config) waitStats {
	start := time.Now()

	if cfg.UseNativeWait {
		<-s.ch
		return waitStats{waited: time.Since(start), usedSpin: false}
	}

	spinCount := cfg.SpinCount
	if spinCount <= 0 {
		spinCount = 1 << 14
	}
	sleepCap := cfg.SleepMaxUsecLog2
	if sleepCap <= 0 {
		sleepCap = 18
	}

	stats := waitStats{usedSpin: true}

	// Spin phase: bounded busy-wait, yielding the goroutine each iteration.
	for i := 0; i < spinCount; i++ {
		if s.Fired() {
			stats.spins = i + 1
			stats.waited = time.Since(start)
			return stats
		}
		runtime.Gosched()
	}
	stats.spins = spinCount

	// Sleep phase: unbounded, exponential backoff capped at 2^sleepCap usec.
	for i := 0; ; i++ {
		if s.Fired() {
			break
		}
		exp := i
		if exp > sleepCap {
			exp = sleepCap
		}
		time.Sleep(time.Duration(1<<uint(exp)) * time.Microsecond)
		stats.sleeps++
	}

	stats.waited = time.Since(start)
	return stats
}
