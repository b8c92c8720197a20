package lifelock

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarrier_ArmTwiceFails(t *testing.T) {
	v := 1
	b := NewBarrier()
	require.True(t, Arm(b, &v))
	assert.False(t, Arm(b, &v))
}

func TestBarrier_DisarmWithNoObserversReturnsImmediately(t *testing.T) {
	v := 1
	b := NewBarrier()
	require.True(t, Arm(b, &v))

	done := make(chan struct{})
	go func() {
		b.Disarm()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disarm with no outstanding observers did not return")
	}
	assert.False(t, b.IsArmed())
}

func TestBarrier_DisarmWaitsForOutstandingStrongObserver(t *testing.T) {
	v := 1
	b := NewBarrier(WithNativeWait(true))
	require.True(t, Arm(b, &v))

	s := GetStrong(b, &v)
	require.True(t, s.Valid())

	disarmed := make(chan struct{})
	go func() {
		b.Disarm()
		close(disarmed)
	}()

	select {
	case <-disarmed:
		t.Fatal("disarm returned before the outstanding strong observer was released")
	case <-time.After(50 * time.Millisecond):
	}

	s.Release()

	select {
	case <-disarmed:
	case <-time.After(time.Second):
		t.Fatal("disarm did not return after the last strong observer was released")
	}
}

func TestBarrier_DisarmWaitsUsingAdaptiveBackoff(t *testing.T) {
	v := 1
	b := NewBarrier(WithNativeWait(false), WithSpinCount(4), WithSleepMaxUsecLog2(6))
	require.True(t, Arm(b, &v))

	s := GetStrong(b, &v)
	require.True(t, s.Valid())

	disarmed := make(chan struct{})
	go func() {
		b.Disarm()
		close(disarmed)
	}()

	time.Sleep(10 * time.Millisecond)
	s.Release()

	select {
	case <-disarmed:
	case <-time.After(time.Second):
		t.Fatal("disarm with adaptive backoff did not return")
	}
}

func TestBarrier_DisarmIsIdempotent(t *testing.T) {
	v := 1
	b := NewBarrier()
	require.True(t, Arm(b, &v))
	b.Disarm()
	assert.NotPanics(t, func() { b.Disarm() })
}

func TestBarrier_GetStrongAfterDisarmReturnsEmpty(t *testing.T) {
	v := 1
	b := NewBarrier()
	require.True(t, Arm(b, &v))
	b.Disarm()

	s := GetStrong(b, &v)
	assert.False(t, s.Valid())

	w := GetWeak(b, &v)
	assert.False(t, w.Valid())
}

func TestBarrier_ArmNilLeavesObserversEmptyAndDisarmNoOp(t *testing.T) {
	b := NewBarrier()
	require.True(t, Arm[int](b, nil))
	assert.True(t, b.IsArmed())

	v := 1
	assert.False(t, GetStrong(b, &v).Valid())
	assert.False(t, GetWeak(b, &v).Valid())

	assert.NotPanics(t, func() { b.Disarm() })
	assert.False(t, b.IsArmed())
}

func TestBarrier_ConcurrentMintDuringDisarmIsSafe(t *testing.T) {
	v := 1
	b := NewBarrier()
	require.True(t, Arm(b, &v))

	var wg sync.WaitGroup
	var attempts atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				attempts.Add(1)
				if s := GetStrong(b, &v); s.Valid() {
					s.Release()
				}
			}
		}()
	}

	time.Sleep(5 * time.Millisecond)
	b.Disarm()
	close(stop)
	wg.Wait()

	assert.Greater(t, attempts.Load(), int64(0))
	assert.False(t, b.IsArmed())
}

func TestBarrier_WithMetricsRecordsArmAndDisarm(t *testing.T) {
	v := 1
	m := NewMetrics("lifelock_test_barrier")
	b := NewBarrier().WithMetrics(m)
	require.True(t, Arm(b, &v))
	b.Disarm()

	assert.Equal(t, uint64(1), m.armTotal.Get())
	assert.Equal(t, uint64(1), m.disarmTotal.Get())

	samples := m.RecentWaitsNanos(16)
	assert.Len(t, samples, 1)
}

func TestBarrier_Close(t *testing.T) {
	v := 1
	b := NewBarrier()
	require.True(t, Arm(b, &v))
	assert.NoError(t, b.Close())
	assert.False(t, b.IsArmed())
}
