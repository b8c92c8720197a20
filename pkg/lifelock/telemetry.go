package lifelock

import (
	"io"
	"sync/atomic"

	"github.com/VictoriaMetrics/metrics"
)

// Metrics is an optional telemetry sink a Barrier (or Cell) reports
// arm/disarm activity to. Built on github.com/VictoriaMetrics/metrics, the
// same library the teacher cache server exposes its own counters through
// (pkg/prometheus/metrics). A nil *Metrics is valid everywhere it's
// accepted — recordArm/recordDisarm are no-ops against it — so attaching
// telemetry is always optional.
type Metrics struct {
	set *metrics.Set

	armTotal          *metrics.Counter
	disarmTotal       *metrics.Counter
	disarmWaitSeconds *metrics.Histogram
	spinIterations    *metrics.Histogram
	sleepIterations   *metrics.Counter

	// recentWaits is a lock-free ring of not-yet-drained disarm wait
	// durations, in nanoseconds, for cheap inspection without scraping the
	// histogram. Once it is full, new samples are dropped until a drain.
	recentWaits *waitSampleRing
}

// NewMetrics creates a Metrics sink with all series under the given
// namespace prefix (e.g. "lifelock" yields "lifelock_arm_total", etc).
func NewMetrics(namespace string) *Metrics {
	set := metrics.NewSet()
	return &Metrics{
		set:               set,
		armTotal:          set.NewCounter(namespace + `_arm_total`),
		disarmTotal:       set.NewCounter(namespace + `_disarm_total`),
		disarmWaitSeconds: set.NewHistogram(namespace + `_disarm_wait_seconds`),
		spinIterations:    set.NewHistogram(namespace + `_disarm_spin_iterations`),
		sleepIterations:   set.NewCounter(namespace + `_disarm_sleep_iterations_total`),
		recentWaits:       newWaitSampleRing(1024),
	}
}

// WritePrometheus renders every series owned by this sink in the
// Prometheus text exposition format.
func (m *Metrics) WritePrometheus(w io.Writer) {
	m.set.WritePrometheus(w)
}

// RecentWaitsNanos drains up to max of the recorded, not-yet-drained disarm
// wait durations, in nanoseconds, oldest first. Samples recorded while the
// ring already held 1024 undrained ones were dropped and are not returned.
func (m *Metrics) RecentWaitsNanos(max int) []uint64 {
	return m.recentWaits.drain(max)
}

func recordArm(m *Metrics) {
	if m == nil {
		return
	}
	m.armTotal.Inc()
}

func recordDisarm(m *Metrics, stats waitStats) {
	if m == nil {
		return
	}
	m.disarmTotal.Inc()
	m.disarmWaitSeconds.Update(stats.waited.Seconds())
	if stats.usedSpin {
		m.spinIterations.Update(float64(stats.spins))
		m.sleepIterations.Add(stats.sleeps)
	}
	m.recentWaits.record(uint64(stats.waited.Nanoseconds()))
}

// waitSampleRing is a lock-free single-producer-friendly (concurrent
// producers, single consumer) fixed-capacity ring of disarm wait
// durations, in nanoseconds. A full ring drops the new sample rather than
// blocking the disarming goroutine — this is best-effort sampling for
// dashboards, not an accounting structure.
type waitSampleRing struct {
	samples []uint64
	mask    uint64
	head    atomic.Uint64
	tail    atomic.Uint64
}

func newWaitSampleRing(size int) *waitSampleRing {
	return &waitSampleRing{
		samples: make([]uint64, size),
		mask:    uint64(size - 1),
	}
}

func (r *waitSampleRing) record(nanos uint64) {
	head := r.head.Load()
	if head-r.tail.Load() >= uint64(len(r.samples)) {
		return // full: drop the sample rather than block the disarm path
	}
	r.samples[head&r.mask] = nanos
	r.head.Add(1)
}

func (r *waitSampleRing) drain(max int) []uint64 {
	tail := r.tail.Load()
	head := r.head.Load()

	n := head - tail
	if n == 0 {
		return nil
	}
	if n > uint64(max) {
		n = uint64(max)
	}

	out := make([]uint64, 0, n)
	for i := uint64(0); i < n; i++ {
		out = append(out, r.samples[(tail+i)&r.mask])
	}
	r.tail.Add(n)
	return out
}
