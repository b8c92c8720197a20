// Package ctime caches the wall clock behind an atomic, refreshed on a
// background ticker, so request handlers on the widget cache's read/write
// path (internal/lifelockd/server) can stamp StoredAt/check Expired
// without a time.Now() syscall per request.
package ctime

import (
	"sync/atomic"
	"time"
)

var nowUnix atomic.Int64

// Start begins refreshing the cached clock every resolution and returns a
// stop function. Must be called once before Now/Since/UnixNano are read.
func Start(resolution time.Duration) func() {
	nowUnix.Store(time.Now().UnixNano())
	t := time.NewTicker(resolution)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case tt := <-t.C:
				nowUnix.Store(tt.UnixNano())
			case <-done:
				t.Stop()
				return
			}
		}
	}()
	return func() { close(done) }
}
func Now() time.Time                  { return time.Unix(0, nowUnix.Load()) }
func UnixNano() int64                 { return nowUnix.Load() }
func Since(t time.Time) time.Duration { return Now().Sub(t) }
