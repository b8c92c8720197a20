package lifelockcache

import (
	"testing"
	"time"

	"github.com/lifelockgo/lifelock/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Cache {
	return &config.Cache{
		Cache: config.CacheBox{
			Shards:  config.Shards{Count: 4, Preallocate: 16},
			Storage: config.Storage{MaxEntries: 1000, MaxCost: 1 << 20},
		},
	}
}

func TestCache_SetAndGet(t *testing.T) {
	c, err := New(testConfig(), nil)
	require.NoError(t, err)

	c.Set([]byte("widgets/42"), Entry{Key: []byte("widgets/42"), Body: []byte("gizmo")})

	s, ok := c.Get([]byte("widgets/42"))
	require.True(t, ok)
	defer s.Release()
	assert.Equal(t, "gizmo", string(s.Get().Body))
}

func TestCache_GetMissingKey(t *testing.T) {
	c, err := New(testConfig(), nil)
	require.NoError(t, err)

	_, ok := c.Get([]byte("nope"))
	assert.False(t, ok)
}

func TestCache_DeleteWaitsForOutstandingReader(t *testing.T) {
	c, err := New(testConfig(), nil)
	require.NoError(t, err)

	c.Set([]byte("k"), Entry{Key: []byte("k"), Body: []byte("v")})
	s, ok := c.Get([]byte("k"))
	require.True(t, ok)

	deleted := make(chan struct{})
	go func() {
		c.Delete([]byte("k"))
		close(deleted)
	}()

	select {
	case <-deleted:
		t.Fatal("Delete returned before the outstanding reader released its observer")
	case <-time.After(50 * time.Millisecond):
	}

	s.Release()

	select {
	case <-deleted:
	case <-time.After(time.Second):
		t.Fatal("Delete did not return after the reader released")
	}

	_, ok = c.Get([]byte("k"))
	assert.False(t, ok)
}

func TestCache_SetOverwritesAndUpdatesWeight(t *testing.T) {
	c, err := New(testConfig(), nil)
	require.NoError(t, err)

	c.Set([]byte("k"), Entry{Key: []byte("k"), Body: []byte("short")})
	before := c.Weight()

	c.Set([]byte("k"), Entry{Key: []byte("k"), Body: []byte("a much longer body")})
	after := c.Weight()

	assert.Greater(t, after, before)
	assert.Equal(t, int64(1), c.Len())
}
