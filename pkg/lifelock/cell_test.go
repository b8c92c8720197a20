package lifelock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	name string
}

func TestCell_ConstructAndReset(t *testing.T) {
	c := NewCell[widget]()
	assert.False(t, c.IsOccupied())
	assert.Nil(t, c.Value())

	require.True(t, c.Construct(widget{name: "gizmo"}))
	require.True(t, c.IsOccupied())
	require.NotNil(t, c.Value())
	assert.Equal(t, "gizmo", c.Value().name)

	c.Reset()
	assert.False(t, c.IsOccupied())
	assert.Nil(t, c.Value())
}

func TestCell_ConstructTwiceFails(t *testing.T) {
	c := NewCell[widget]()
	require.True(t, c.Construct(widget{name: "a"}))
	assert.False(t, c.Construct(widget{name: "b"}))
	assert.Equal(t, "a", c.Value().name)
}

func TestCell_ResetWaitsForStrongObservers(t *testing.T) {
	c := NewCell[widget]()
	require.True(t, c.Construct(widget{name: "gizmo"}))

	s := c.Strong()
	require.True(t, s.Valid())

	resetDone := make(chan struct{})
	go func() {
		c.Reset()
		close(resetDone)
	}()

	select {
	case <-resetDone:
		t.Fatal("Reset returned while a strong observer was still outstanding")
	case <-time.After(50 * time.Millisecond):
	}

	s.Release()

	select {
	case <-resetDone:
	case <-time.After(time.Second):
		t.Fatal("Reset did not return after the strong observer was released")
	}
}

func TestCell_WeakExpiresAfterReset(t *testing.T) {
	c := NewCell[widget]()
	require.True(t, c.Construct(widget{name: "gizmo"}))

	w := c.Weak()
	require.True(t, w.Valid())

	c.Reset()

	_, ok := w.Upgrade()
	assert.False(t, ok)
}

func TestCell_ValueOr(t *testing.T) {
	c := NewCell[widget]()
	assert.Equal(t, widget{name: "fallback"}, c.ValueOr(widget{name: "fallback"}))

	require.True(t, c.Construct(widget{name: "real"}))
	assert.Equal(t, widget{name: "real"}, c.ValueOr(widget{name: "fallback"}))
}

func TestCell_WeakAndStrongOnEmptyCellAreEmpty(t *testing.T) {
	c := NewCell[widget]()
	assert.False(t, c.Weak().Valid())
	assert.False(t, c.Strong().Valid())
}

func TestCell_RawPtrAliasesValue(t *testing.T) {
	c := NewCell[widget]()
	require.True(t, c.Construct(widget{name: "gizmo"}))
	assert.Same(t, c.Value(), c.RawPtr())
}
