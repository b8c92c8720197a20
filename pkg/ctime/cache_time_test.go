package ctime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStart_UpdatesNowOnResolution(t *testing.T) {
	stop := Start(5 * time.Millisecond)
	defer stop()

	first := Now()
	assert.Eventually(t, func() bool {
		return Now().After(first)
	}, 200*time.Millisecond, 5*time.Millisecond)
}

func TestSince(t *testing.T) {
	stop := Start(5 * time.Millisecond)
	defer stop()

	past := Now().Add(-time.Second)
	assert.GreaterOrEqual(t, Since(past), time.Second)
}

func TestUnixNano(t *testing.T) {
	stop := Start(5 * time.Millisecond)
	defer stop()

	assert.Equal(t, Now().UnixNano(), UnixNano())
}
