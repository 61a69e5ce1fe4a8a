// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ortvalue

import (
	"runtime"
	"sync/atomic"
	"unsafe"
)

// Lease keeps a buffer at a stable address while native code may read it.
//
// The buffer is pinned, so its address can be retained by cgo callees
// beyond the call that received it. A Lease must be released exactly
// once its native consumer is gone; Release is idempotent and only the
// first call has an effect, even when called concurrently.
//
// Release is mandatory. A Lease dropped while still pinned is reported
// by the garbage collector as a leaking pinned pointer, which aborts the
// whole process ("runtime.Pinner: found leaking pinned pointer").
type Lease struct {
	pinner  runtime.Pinner
	buf     any
	addr    unsafe.Pointer
	byteLen uint64
	copied  bool

	released  atomic.Bool
	onRelease func(*Lease)
}

// leaseSlice pins data and returns a Lease over its elements.
// copied records whether data is a private copy made for the lease.
func leaseSlice[T any](data []T, copied bool) *Lease {
	var zero T
	l := &Lease{
		buf:     data,
		byteLen: uint64(len(data)) * uint64(unsafe.Sizeof(zero)),
		copied:  copied,
	}
	if len(data) > 0 {
		p := unsafe.SliceData(data)
		l.pinner.Pin(p)
		l.addr = unsafe.Pointer(p)
	}
	return l
}

// Addr returns the address of the first byte, or nil for an empty buffer.
func (l *Lease) Addr() unsafe.Pointer {
	return l.addr
}

// Len returns the length of the buffer in bytes.
func (l *Lease) Len() uint64 {
	return l.byteLen
}

// Copied reports whether the leased buffer is a dense copy of the
// original payload rather than the payload's own storage.
func (l *Lease) Copied() bool {
	return l.copied
}

// Released reports whether Release has been called.
func (l *Lease) Released() bool {
	return l.released.Load()
}

// Release unpins the buffer. Calling Release on a nil Lease is allowed.
func (l *Lease) Release() {
	if l == nil || !l.released.CompareAndSwap(false, true) {
		return
	}
	l.pinner.Unpin()
	l.buf = nil
	if l.onRelease != nil {
		l.onRelease(l)
	}
}
