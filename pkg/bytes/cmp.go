// Package bytes provides a fast, sampled equality check used to short-
// circuit a PUT that repeats the widget body already stored under a key
// (internal/lifelockcache's shard.set), so an identical re-PUT skips the
// disarm-and-rearm cycle on that key's lifelock.Cell entirely.
package bytes

import (
	"bytes"
	"github.com/zeebo/xxh3"
)

// IsBytesAreEquals reports whether a and b are likely to hold the same
// bytes. Below 32 bytes it compares directly and is exact; at or above that
// it hashes three fixed 8-byte windows (head, middle, tail) of each slice
// instead of every byte, so equal-length slices that differ only outside
// those windows are reported equal.
func IsBytesAreEquals(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) < 32 {
		return bytes.Equal(a, b)
	}

	ha := xxh3.Hash(a[:8]) ^ xxh3.Hash(a[len(a)/2:len(a)/2+8]) ^ xxh3.Hash(a[len(a)-8:])
	hb := xxh3.Hash(b[:8]) ^ xxh3.Hash(b[len(b)/2:len(b)/2+8]) ^ xxh3.Hash(b[len(b)-8:])
	return ha == hb
}
