package rc

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControlBlock_DeleterFiresOnce(t *testing.T) {
	var fired atomic.Int32
	cb := NewControlBlock(func() { fired.Add(1) })

	require.True(t, cb.AcquireStrong())
	require.True(t, cb.AcquireStrong())

	cb.ReleaseStrong() // 3 -> 2
	cb.ReleaseStrong() // 2 -> 1
	assert.Equal(t, int32(0), fired.Load())

	cb.ReleaseStrong() // 1 -> 0, deleter fires
	assert.Equal(t, int32(1), fired.Load())

	cb.ReleaseStrong() // already zero, must not fire or panic
	assert.Equal(t, int32(1), fired.Load())
}

func TestControlBlock_AcquireFailsAfterDeleterFired(t *testing.T) {
	cb := NewControlBlock(func() {})
	cb.ReleaseStrong()
	assert.False(t, cb.AcquireStrong())
	assert.False(t, cb.IsLive())
}

func TestStrong_CloneAndRelease(t *testing.T) {
	var fired atomic.Bool
	cb := NewControlBlock(func() { fired.Store(true) })
	v := 42
	s := NewStrong(&v, cb)

	s2 := s.Clone()
	require.True(t, s2.Valid())
	assert.Equal(t, &v, s2.Get())

	s.Release()
	assert.False(t, fired.Load())

	s2.Release()
	assert.True(t, fired.Load())
}

func TestWeak_UpgradeAfterExpiry(t *testing.T) {
	cb := NewControlBlock(func() {})
	v := "hello"
	s := NewStrong(&v, cb)
	w := NewWeak(&v, cb)

	got, ok := w.Upgrade()
	require.True(t, ok)
	assert.Equal(t, &v, got.Get())
	got.Release()

	s.Release() // drops the last strong ref, deleter fires

	_, ok = w.Upgrade()
	assert.False(t, ok)
}

func TestControlBlock_ConcurrentAcquireRelease(t *testing.T) {
	var fired atomic.Int32
	cb := NewControlBlock(func() { fired.Add(1) })

	const n = 200
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if cb.AcquireStrong() {
				cb.ReleaseStrong()
			}
		}()
	}
	wg.Wait()

	cb.ReleaseStrong() // release the initial reference
	assert.Equal(t, int32(1), fired.Load())
}

func TestStrong_ConsumeTransfersWithoutReleasing(t *testing.T) {
	var fired atomic.Bool
	cb := NewControlBlock(func() { fired.Store(true) })
	v := 1
	s := NewStrong(&v, cb)

	got := s.Consume()
	assert.Same(t, cb, got)
	assert.False(t, s.Valid())

	// consume must not have released the strong count
	assert.True(t, cb.IsLive())
	cb.ReleaseStrong()
	assert.True(t, fired.Load())
}
