// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ortvalue

import (
	"fmt"
	"unsafe"

	"github.com/nlpodyssey/ortvalue/dtype"
)

// RawView is a dense view of a tensor's memory, as handed to native code.
//
// It does not keep the memory alive: the Lease that produced the view
// does.
type RawView struct {
	dType   dtype.DType
	shape   []uint64
	addr    unsafe.Pointer
	byteLen uint64
}

// DType returns the element type of the view.
func (rv RawView) DType() dtype.DType { return rv.dType }

// Tag returns the native tag of the element type.
func (rv RawView) Tag() dtype.Tag { return rv.dType.Tag() }

// Shape returns the dimensions, widened for the native side. It is NOT a copy.
func (rv RawView) Shape() []uint64 { return rv.shape }

// Rank returns the number of dimensions. It is zero for a scalar.
func (rv RawView) Rank() uint64 { return uint64(len(rv.shape)) }

// Addr returns the address of the first byte, or nil for an empty view.
func (rv RawView) Addr() unsafe.Pointer { return rv.addr }

// DataLen returns the length of the data in bytes.
func (rv RawView) DataLen() uint64 { return rv.byteLen }

// NewRawView creates a new RawView, checking that byteLen equals the
// element count of shape times the size of dType.
func NewRawView(dType dtype.DType, shape []uint64, addr unsafe.Pointer, byteLen uint64) (RawView, error) {
	if !dType.Blittable() {
		return RawView{}, fmt.Errorf("invalid raw view: dtype %s is not blittable", dType)
	}
	want, err := byteLength(shape, dType.Size())
	if err != nil {
		return RawView{}, fmt.Errorf("invalid raw view: %w", err)
	}
	if byteLen != want {
		return RawView{}, fmt.Errorf("invalid raw view: dtype=%s shape=%+v len(data)=%d", dType, shape, byteLen)
	}
	if addr == nil && byteLen != 0 {
		return RawView{}, fmt.Errorf("invalid raw view: nil address for %d bytes", byteLen)
	}
	return RawView{
		dType:   dType,
		shape:   shape,
		addr:    addr,
		byteLen: byteLen,
	}, nil
}
