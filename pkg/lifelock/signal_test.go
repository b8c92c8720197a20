package lifelock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignal_SetIsIdempotent(t *testing.T) {
	s := newSignal()
	assert.False(t, s.Fired())
	s.set()
	s.set()
	assert.True(t, s.Fired())
}

func TestSignal_WaitNativeReturnsAfterSet(t *testing.T) {
	s := newSignal()
	go func() {
		time.Sleep(10 * time.Millisecond)
		s.set()
	}()

	stats := s.wait(Config{UseNativeWait: true})
	assert.False(t, stats.usedSpin)
	assert.GreaterOrEqual(t, stats.waited, 10*time.Millisecond)
}

func TestSignal_WaitAdaptiveReturnsAfterSpinPhase(t *testing.T) {
	s := newSignal()
	s.set()

	stats := s.wait(Config{UseNativeWait: false, SpinCount: 100, SleepMaxUsecLog2: 10})
	assert.True(t, stats.usedSpin)
	assert.GreaterOrEqual(t, stats.spins, 1)
	assert.Equal(t, 0, stats.sleeps)
}

func TestSignal_WaitAdaptiveFallsIntoSleepPhase(t *testing.T) {
	s := newSignal()
	go func() {
		time.Sleep(5 * time.Millisecond)
		s.set()
	}()

	stats := s.wait(Config{UseNativeWait: false, SpinCount: 4, SleepMaxUsecLog2: 6})
	assert.True(t, stats.usedSpin)
	assert.Equal(t, 4, stats.spins)
	assert.Greater(t, stats.sleeps, 0)
}
