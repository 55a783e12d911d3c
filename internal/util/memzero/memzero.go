// Package memzero overwrites sensitive buffers.
package memzero

import (
	"crypto/subtle"
	"runtime"
)

// Zero overwrites every buffer with zeros. Nil and empty slices are skipped.
//
//go:noinline
func Zero(bufs ...[]byte) {
	for _, b := range bufs {
		if len(b) == 0 {
			continue
		}
		subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
		runtime.KeepAlive(b)
	}
}
