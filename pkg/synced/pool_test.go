package synced

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchPool_GetNeverNil(t *testing.T) {
	p := NewBatchPool(func() *int {
		v := 0
		return &v
	})

	v := p.Get()
	assert.NotNil(t, v)
}

func TestBatchPool_PutReuses(t *testing.T) {
	allocs := 0
	p := NewBatchPool(func() *int {
		allocs++
		v := 0
		return &v
	})

	v := p.Get()
	p.Put(v)
	_ = p.Get()

	assert.Equal(t, 1, allocs)
}
