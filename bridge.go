// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ortvalue

import (
	"unsafe"

	"github.com/nlpodyssey/ortvalue/dtype"
)

// NativeHandle is an opaque native tensor value.
//
// It is owned by the NativeBridge that created it. Destroy releases the
// native value; once destroyed, the handle must not be used.
type NativeHandle interface {
	Destroy() error
}

// NativeBridge is the boundary to the inference engine.
type NativeBridge interface {
	// CreateTensor builds a native tensor over byteLen bytes at data,
	// without copying them. The memory stays valid until the returned
	// handle is destroyed. shape has rank elements.
	CreateTensor(mem MemoryInfo, data unsafe.Pointer, byteLen uint64, shape []uint64, rank uint64, tag dtype.Tag) (NativeHandle, error)

	// TensorInfo reports the element type tag, shape and data address of
	// an existing native tensor.
	TensorInfo(h NativeHandle) (TensorInfo, error)
}

// MemoryInfo identifies the allocator that owns a buffer handed to the
// native side.
type MemoryInfo struct {
	Name string
	ID   int
}

// CPU is the default memory info: plain host memory.
var CPU = MemoryInfo{Name: "Cpu"}
