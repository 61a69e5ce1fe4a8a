// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package nativetest provides an in-memory NativeBridge for tests.
//
// The Bridge behaves like a native engine that copies every input into
// its own buffer: a tensor it created can be read back with TensorInfo,
// which makes it an echo for round-trip tests.
package nativetest

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/nlpodyssey/ortvalue"
	"github.com/nlpodyssey/ortvalue/dtype"
)

// Call records the arguments of one CreateTensor call.
type Call struct {
	Mem     ortvalue.MemoryInfo
	Addr    unsafe.Pointer
	ByteLen uint64
	Shape   []uint64
	Rank    uint64
	Tag     dtype.Tag
	// Data is a copy of the bytes the bridge read at Addr.
	Data []byte
}

// Bridge is a fake ortvalue.NativeBridge.
// It is safe for concurrent use.
type Bridge struct {
	mu sync.Mutex
	// Err, when not nil, is returned by every CreateTensor call.
	Err   error
	calls []Call
	live  int
}

var _ ortvalue.NativeBridge = &Bridge{}

// NewBridge returns a Bridge that succeeds.
func NewBridge() *Bridge {
	return &Bridge{}
}

// NewFailingBridge returns a Bridge whose CreateTensor always fails with err.
func NewFailingBridge(err error) *Bridge {
	return &Bridge{Err: err}
}

// Tensor is a native tensor owned by a Bridge.
type Tensor struct {
	bridge    *Bridge
	tag       dtype.Tag
	shape     []uint64
	buf       []uint64
	byteLen   uint64
	destroyed int
}

// CreateTensor records the call, then copies byteLen bytes at data into
// a buffer owned by the returned Tensor.
func (b *Bridge) CreateTensor(mem ortvalue.MemoryInfo, data unsafe.Pointer, byteLen uint64, shape []uint64, rank uint64, tag dtype.Tag) (ortvalue.NativeHandle, error) {
	var src []byte
	if byteLen > 0 {
		src = unsafe.Slice((*byte)(data), byteLen)
	}
	call := Call{
		Mem:     mem,
		Addr:    data,
		ByteLen: byteLen,
		Shape:   append([]uint64(nil), shape...),
		Rank:    rank,
		Tag:     tag,
		Data:    append([]byte(nil), src...),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, call)
	if b.Err != nil {
		return nil, b.Err
	}
	if rank != uint64(len(shape)) {
		return nil, fmt.Errorf("rank %d does not match shape %v", rank, shape)
	}

	t := &Tensor{
		bridge:  b,
		tag:     tag,
		shape:   call.Shape,
		buf:     make([]uint64, (byteLen+7)/8),
		byteLen: byteLen,
	}
	copy(t.bytes(), src)
	b.live++
	return t, nil
}

// TensorInfo reports the tag, shape and buffer of a Tensor created by b.
func (b *Bridge) TensorInfo(h ortvalue.NativeHandle) (ortvalue.TensorInfo, error) {
	t, ok := h.(*Tensor)
	if !ok || t.bridge != b {
		return ortvalue.TensorInfo{}, fmt.Errorf("unknown handle %T", h)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if t.destroyed > 0 {
		return ortvalue.TensorInfo{}, errors.New("tensor already destroyed")
	}
	var data unsafe.Pointer
	if len(t.buf) > 0 {
		data = unsafe.Pointer(&t.buf[0])
	}
	return ortvalue.TensorInfo{
		Tag:   t.tag,
		Shape: append([]uint64(nil), t.shape...),
		Data:  data,
	}, nil
}

// NewTensor returns a Tensor holding data, as if produced by the engine.
// Its tag and shape are not checked against data.
func (b *Bridge) NewTensor(tag dtype.Tag, shape []uint64, data []byte) *Tensor {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := &Tensor{
		bridge:  b,
		tag:     tag,
		shape:   append([]uint64(nil), shape...),
		buf:     make([]uint64, (len(data)+7)/8),
		byteLen: uint64(len(data)),
	}
	copy(t.bytes(), data)
	b.live++
	return t
}

// Calls returns a copy of the recorded CreateTensor calls.
func (b *Bridge) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// Live returns the number of tensors not destroyed yet.
func (b *Bridge) Live() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.live
}

// Destroy releases the tensor. Destroying a tensor twice is an error.
func (t *Tensor) Destroy() error {
	b := t.bridge
	b.mu.Lock()
	defer b.mu.Unlock()
	t.destroyed++
	if t.destroyed > 1 {
		return fmt.Errorf("tensor destroyed %d times", t.destroyed)
	}
	b.live--
	return nil
}

// Destroyed returns how many times Destroy has been called.
func (t *Tensor) Destroyed() int {
	t.bridge.mu.Lock()
	defer t.bridge.mu.Unlock()
	return t.destroyed
}

// Bytes returns a copy of the tensor data.
func (t *Tensor) Bytes() []byte {
	return append([]byte(nil), t.bytes()...)
}

func (t *Tensor) bytes() []byte {
	if len(t.buf) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&t.buf[0])), t.byteLen)
}
