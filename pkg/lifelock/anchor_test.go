package lifelock

import (
	"testing"

	"github.com/lifelockgo/lifelock/pkg/rc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnchor_NewFromEmptyStrongIsEmpty(t *testing.T) {
	var empty rc.Strong[int]
	a := NewAnchor(empty)
	assert.False(t, a.IsArmed())
}

func TestAnchor_CloneIncrementsStrongCount(t *testing.T) {
	v := 7
	b := NewBarrier()
	require.True(t, Arm(b, &v))
	s := GetStrong(b, &v)
	require.True(t, s.Valid())

	a := NewAnchor(s)
	require.True(t, a.IsArmed())

	clone := a.Clone()
	require.True(t, clone.IsArmed())

	a.Reset()
	assert.True(t, clone.IsArmed(), "cloned anchor must keep its own strong reference")

	clone.Reset()
}

func TestAnchor_CloneFromEmptyIsEmpty(t *testing.T) {
	var a Anchor
	clone := a.Clone()
	assert.False(t, clone.IsArmed())
}

func TestAnchor_ResetIsIdempotent(t *testing.T) {
	v := 1
	b := NewBarrier()
	require.True(t, Arm(b, &v))
	s := GetStrong(b, &v)
	a := NewAnchor(s)

	a.Reset()
	assert.False(t, a.IsArmed())
	a.Reset() // must not panic or double-release
}

func TestAnchor_MakeStrongAndMakeWeakAliasDifferentPointers(t *testing.T) {
	type payload struct{ n int }
	p := &payload{n: 9}
	b := NewBarrier()
	require.True(t, Arm(b, p))

	s := GetStrong(b, p)
	a := NewAnchor(s)
	defer a.Reset()

	other := &payload{n: 99}
	aliased := MakeStrong(a, other)
	require.True(t, aliased.Valid())
	assert.Same(t, other, aliased.Get())
	aliased.Release()

	weak := MakeWeak(a, other)
	require.True(t, weak.Valid())
	up, ok := weak.Upgrade()
	require.True(t, ok)
	assert.Same(t, other, up.Get())
	up.Release()
	weak.Release()
}

func TestAnchor_MakeStrongOnEmptyAnchorIsEmpty(t *testing.T) {
	var a Anchor
	v := 3
	s := MakeStrong(a, &v)
	assert.False(t, s.Valid())
}
