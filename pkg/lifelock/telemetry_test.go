package lifelock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWaitSampleRing_RecordAndDrain(t *testing.T) {
	r := newWaitSampleRing(8)

	for i := uint64(0); i < 5; i++ {
		r.record(i * 100)
	}

	drained := r.drain(3)
	assert.Equal(t, []uint64{0, 100, 200}, drained)

	drained = r.drain(10)
	assert.Equal(t, []uint64{300, 400}, drained)

	assert.Nil(t, r.drain(1))
}

func TestWaitSampleRing_DropsWhenFull(t *testing.T) {
	r := newWaitSampleRing(2)

	assert.True(t, r.head.Load() == 0)
	r.record(1)
	r.record(2)
	r.record(3) // dropped: ring is full

	drained := r.drain(10)
	assert.Equal(t, []uint64{1, 2}, drained)
}

func TestMetrics_RecentWaitsNanosDrainsRecordedDisarms(t *testing.T) {
	m := NewMetrics("test_telemetry")
	recordDisarm(m, waitStats{})
	recordDisarm(m, waitStats{})

	assert.Len(t, m.RecentWaitsNanos(10), 2)
}
