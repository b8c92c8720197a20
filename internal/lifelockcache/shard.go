package lifelockcache

import (
	"bytes"
	"sync"
	"sync/atomic"

	bytesutil "github.com/lifelockgo/lifelock/pkg/bytes"
	"github.com/lifelockgo/lifelock/pkg/lifelock"
	"github.com/lifelockgo/lifelock/pkg/rc"
)

// shard is one partition of the sharded map: an independent mutex-guarded
// map from hashed key to a lifelock.Cell holding the entry. Readers only
// hold the mutex long enough to look up the *Cell; minting the Strong
// observer and reading the entry body both happen after the mutex is
// released, so a Get racing an Evict on a different key never blocks on
// that key's disarm wait.
type shard struct {
	mu      sync.RWMutex
	items   map[uint64]*lifelock.Cell[Entry]
	id      uint64
	mem     atomic.Int64
	len     atomic.Int64
	metrics *lifelock.Metrics
}

func newShard(id uint64, preallocate int, m *lifelock.Metrics) *shard {
	return &shard{
		id:      id,
		items:   make(map[uint64]*lifelock.Cell[Entry], preallocate),
		metrics: m,
	}
}

// set stores e under key, replacing and evicting (waiting out any readers
// of) whatever was there before. A PUT that repeats the current body is a
// no-op: skips the disarm-and-rearm cycle entirely rather than churning a
// live entry for bytes nothing actually changed. Returns the net change in
// bytes held.
func (s *shard) set(key uint64, e Entry) int64 {
	s.mu.RLock()
	old, hadOld := s.items[key]
	s.mu.RUnlock()

	if hadOld {
		if ov := old.Value(); ov != nil && bytesutil.IsBytesAreEquals(ov.Body, e.Body) && bytes.Equal(ov.Body, e.Body) {
			return 0
		}
	}

	cell := lifelock.NewCell[Entry]()
	if s.metrics != nil {
		cell.WithMetrics(s.metrics)
	}
	cell.Construct(e)

	s.mu.Lock()
	old, hadOld = s.items[key]
	s.items[key] = cell
	if !hadOld {
		s.len.Add(1)
	}
	s.mu.Unlock()

	delta := e.Weight()
	if hadOld {
		if ov := old.Value(); ov != nil {
			delta -= ov.Weight()
		}
		old.Reset() // waits out any strong observer still reading the replaced entry
	}
	s.mem.Add(delta)
	return delta
}

// get returns a Strong observer for key's entry, if present and not
// already disarmed.
func (s *shard) get(key uint64) (rc.Strong[Entry], bool) {
	s.mu.RLock()
	cell, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return rc.Strong[Entry]{}, false
	}
	strong := cell.Strong()
	return strong, strong.Valid()
}

// evict removes key from the shard and disarms its Cell, blocking until
// every outstanding Strong observer releases it. Returns the bytes freed.
func (s *shard) evict(key uint64) int64 {
	s.mu.Lock()
	cell, ok := s.items[key]
	if !ok {
		s.mu.Unlock()
		return 0
	}
	delete(s.items, key)
	s.len.Add(-1)
	s.mu.Unlock()

	var freed int64
	if v := cell.Value(); v != nil {
		freed = v.Weight()
	}
	cell.Reset()
	s.mem.Add(-freed)
	return freed
}

func (s *shard) weight() int64 { return s.mem.Load() }
func (s *shard) length() int64 { return s.len.Load() }
