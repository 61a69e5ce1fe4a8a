// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ortvalue

import (
	"fmt"

	"github.com/nlpodyssey/ortvalue/dtype"
	"github.com/nlpodyssey/ortvalue/float16"
)

// Element is the set of Go element types that can be exchanged with
// native code. It mirrors dtype.Catalog.
type Element interface {
	float32 | float64 | int32 | uint32 | int64 | uint64 | int16 | uint16 | uint8
}

// DTypeOf returns the data type of the element type T.
func DTypeOf[T Element]() dtype.DType {
	var zero T
	switch any(zero).(type) {
	case float32:
		return dtype.F32
	case float64:
		return dtype.F64
	case int32:
		return dtype.I32
	case uint32:
		return dtype.U32
	case int64:
		return dtype.I64
	case uint64:
		return dtype.U64
	case int16:
		return dtype.I16
	case uint16:
		return dtype.U16
	case uint8:
		return dtype.U8
	}
	return dtype.Invalid
}

// elementTypeOf resolves the data type of a payload with a single type
// switch. At most one case can match, since the element type of a
// Tensor[T] is fixed by the return type of its At method.
// It returns dtype.Invalid for anything that is not a Tensor of a known
// element type.
func elementTypeOf(payload any) dtype.DType {
	switch payload.(type) {
	case Tensor[float32]:
		return dtype.F32
	case Tensor[float64]:
		return dtype.F64
	case Tensor[int32]:
		return dtype.I32
	case Tensor[uint32]:
		return dtype.U32
	case Tensor[int64]:
		return dtype.I64
	case Tensor[uint64]:
		return dtype.U64
	case Tensor[int16]:
		return dtype.I16
	case Tensor[uint16]:
		return dtype.U16
	case Tensor[uint8]:
		return dtype.U8
	case Tensor[int8]:
		return dtype.I8
	case Tensor[string]:
		return dtype.String
	case Tensor[bool]:
		return dtype.Bool
	case Tensor[float16.F16]:
		return dtype.F16
	case Tensor[float16.BF16]:
		return dtype.BF16
	case Tensor[complex64]:
		return dtype.C64
	case Tensor[complex128]:
		return dtype.C128
	}
	return dtype.Invalid
}

// Probe attempts to view payload as a dense tensor of element type T.
//
// The boolean flag reports whether payload is a Tensor[T]; when it is
// false, the error is nil and nothing has been acquired. On a match, the
// payload must be in row-major order and hold as many elements as its
// shape describes, otherwise ErrUnsupportedLayout is returned without
// acquiring a lease.
//
// A *Dense[T], or a Strided[T] view whose elements are already
// contiguous, is leased in place. Any other row-major Tensor[T] is first
// copied into a dense buffer, and the copy is leased. The caller owns the
// returned Lease and must release it (see Lease).
func Probe[T Element](payload any) (RawView, *Lease, bool, error) {
	t, ok := payload.(Tensor[T])
	if !ok {
		return RawView{}, nil, false, nil
	}
	dt := DTypeOf[T]()

	shape := t.Shape()
	wide, err := widenShape(shape)
	if err != nil {
		return RawView{}, nil, true, layoutError(err)
	}
	if strides := t.Strides(); !rankOrdered(shape, strides) {
		return RawView{}, nil, true, layoutError(fmt.Errorf("strides %v are not in row-major order for shape %v", strides, shape))
	}
	byteLen, err := byteLength(wide, dt.Size())
	if err != nil {
		return RawView{}, nil, true, layoutError(err)
	}

	data, copied := denseData(t)
	if count := byteLen / uint64(dt.Size()); uint64(len(data)) != count {
		return RawView{}, nil, true, layoutError(fmt.Errorf("tensor holds %d elements, shape %v requires %d", len(data), shape, count))
	}
	lease := leaseSlice(data, copied)

	return RawView{
		dType:   dt,
		shape:   wide,
		addr:    lease.Addr(),
		byteLen: byteLen,
	}, lease, true, nil
}

// denseData returns the elements of t in dense row-major order, reusing
// the tensor's storage when possible. The flag reports whether a copy
// was made.
func denseData[T any](t Tensor[T]) ([]T, bool) {
	switch v := t.(type) {
	case *Dense[T]:
		return v.data, false
	case *Strided[T]:
		if data, ok := v.contiguous(); ok {
			return data, false
		}
	}
	return ToDense(t).data, true
}

func layoutError(err error) error {
	return &Error{Op: "Probe", Kind: ErrUnsupportedLayout, Err: err}
}
