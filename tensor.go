// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ortvalue

import (
	"fmt"
)

// Tensor is a multidimensional array of elements of type T.
//
// It is the payload type understood by the Marshaller. Element i of a
// Tensor is the i-th element in row-major ("C") order of its Shape,
// regardless of how the implementation stores it. Strides are expressed
// in elements, not bytes.
type Tensor[T any] interface {
	// The Shape of the tensor. An empty shape denotes a scalar.
	Shape() []int
	// Strides of each dimension of the underlying storage.
	Strides() []int
	// Len returns the number of elements.
	Len() int
	// At returns the element at row-major position i.
	At(i int) T
}

// Dense is a Tensor stored contiguously in row-major order.
//
// A Dense returned by Marshaller.FromNative borrows native memory: its
// data stays valid until Release is called, after which the Dense must
// not be used.
type Dense[T any] struct {
	shape []int
	data  []T
	owner *nativeOwner
}

var (
	_ Tensor[float32] = &Dense[float32]{}
	_ Tensor[float32] = &Strided[float32]{}
)

// NewDense performs validity checks over the given shape and data and
// returns a Dense tensor on success.
//
// The shape must not contain negative values and the number of data
// elements must match the shape (an empty or nil shape is a scalar with
// one element). The shape is copied; data is NOT copied, so the Dense
// shares memory with the caller's slice.
func NewDense[T any](shape []int, data []T) (*Dense[T], error) {
	shapeSize, err := checkedShapeSize(shape)
	if err != nil {
		return nil, err
	}
	if shapeSize != len(data) {
		return nil, fmt.Errorf("the size computed from shape (%d) does not match data length (%d)", shapeSize, len(data))
	}
	return &Dense[T]{
		shape: copyShape(shape),
		data:  data,
	}, nil
}

func checkedShapeSize(shape []int) (int, error) {
	size := 1
	for _, v := range shape {
		if v < 0 {
			return 0, fmt.Errorf("shape contains a negative value")
		}
	}
	for _, v := range shape {
		var err error
		if size, err = checkedMulInt(size, v); err != nil {
			return 0, fmt.Errorf("shape %v is too large: %w", shape, err)
		}
	}
	return size, nil
}

func copyShape(shape []int) []int {
	if len(shape) == 0 {
		return nil
	}
	c := make([]int, len(shape))
	copy(c, shape)
	return c
}

// rowMajorStrides returns the contiguous row-major strides of shape.
func rowMajorStrides(shape []int) []int {
	strides := make([]int, len(shape))
	if len(shape) == 0 {
		return strides
	}
	strides[len(shape)-1] = 1
	for i := len(shape) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * shape[i+1]
	}
	return strides
}

// The Shape of the tensor. The result is a copy.
func (d *Dense[T]) Shape() []int {
	return copyShape(d.shape)
}

// Strides returns the row-major strides of the tensor.
func (d *Dense[T]) Strides() []int {
	return rowMajorStrides(d.shape)
}

// Len returns the number of elements.
func (d *Dense[T]) Len() int {
	return len(d.data)
}

// At returns the element at row-major position i.
func (d *Dense[T]) At(i int) T {
	return d.data[i]
}

// Data returns the backing slice. It is NOT a copy.
func (d *Dense[T]) Data() []T {
	return d.data
}

// Borrowed reports whether the data is owned by native code.
func (d *Dense[T]) Borrowed() bool {
	return d.owner != nil
}

// Copy returns a Dense with the same shape and a Go-owned copy of the data.
func (d *Dense[T]) Copy() *Dense[T] {
	var data []T
	if d.data != nil {
		data = make([]T, len(d.data))
		copy(data, d.data)
	}
	return &Dense[T]{
		shape: copyShape(d.shape),
		data:  data,
	}
}

// Release gives borrowed native memory back to its owner.
// It is a no-op for Go-owned tensors and safe to call more than once.
func (d *Dense[T]) Release() error {
	if d.owner == nil {
		return nil
	}
	err := d.owner.release()
	d.data = nil
	return err
}

// Strided is a Tensor view over a backing slice with arbitrary offset
// and strides.
type Strided[T any] struct {
	data    []T
	shape   []int
	strides []int
	offset  int
}

// NewStrided returns a view over data. Every element addressed by shape,
// strides and offset must lie within data.
func NewStrided[T any](data []T, shape, strides []int, offset int) (*Strided[T], error) {
	if len(shape) != len(strides) {
		return nil, fmt.Errorf("shape rank (%d) does not match strides rank (%d)", len(shape), len(strides))
	}
	n, err := checkedShapeSize(shape)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		lo, hi := offset, offset
		for i, dim := range shape {
			span, err := checkedMulInt(strides[i], dim-1)
			if err == nil {
				if span < 0 {
					lo, err = checkedAddInt(lo, span)
				} else {
					hi, err = checkedAddInt(hi, span)
				}
			}
			if err != nil {
				return nil, fmt.Errorf("strided view exceeds data length (%d): %w", len(data), err)
			}
		}
		if lo < 0 || hi >= len(data) {
			return nil, fmt.Errorf("strided view [%d, %d] exceeds data length (%d)", lo, hi, len(data))
		}
	}
	return &Strided[T]{
		data:    data,
		shape:   copyShape(shape),
		strides: append([]int(nil), strides...),
		offset:  offset,
	}, nil
}

// NewColumnMajor returns a view over data stored in column-major
// ("Fortran") order.
func NewColumnMajor[T any](data []T, shape []int) (*Strided[T], error) {
	strides := make([]int, len(shape))
	s := 1
	for i, dim := range shape {
		strides[i] = s
		s *= dim
	}
	return NewStrided(data, shape, strides, 0)
}

// The Shape of the tensor. The result is a copy.
func (s *Strided[T]) Shape() []int {
	return copyShape(s.shape)
}

// Strides returns the strides of the view. The result is a copy.
func (s *Strided[T]) Strides() []int {
	return append([]int(nil), s.strides...)
}

// Len returns the number of elements.
func (s *Strided[T]) Len() int {
	n, _ := checkedShapeSize(s.shape)
	return n
}

// At returns the element at row-major position i.
func (s *Strided[T]) At(i int) T {
	pos := s.offset
	for d := len(s.shape) - 1; d >= 0; d-- {
		dim := s.shape[d]
		pos += (i % dim) * s.strides[d]
		i /= dim
	}
	return s.data[pos]
}

// contiguous returns the backing elements of s when they already are in
// dense row-major order.
func (s *Strided[T]) contiguous() ([]T, bool) {
	n := s.Len()
	if n == 0 {
		return nil, true
	}
	want := rowMajorStrides(s.shape)
	for i, dim := range s.shape {
		if dim > 1 && s.strides[i] != want[i] {
			return nil, false
		}
	}
	return s.data[s.offset : s.offset+n : s.offset+n], true
}

// ToDense materializes t into a new row-major Dense tensor.
func ToDense[T any](t Tensor[T]) *Dense[T] {
	if d, ok := t.(*Dense[T]); ok {
		return d.Copy()
	}
	n := t.Len()
	data := make([]T, n)
	for i := range data {
		data[i] = t.At(i)
	}
	return &Dense[T]{
		shape: copyShape(t.Shape()),
		data:  data,
	}
}

// rankOrdered reports whether strides visit the elements of shape in
// row-major order: each non-degenerate dimension must step over at least
// the whole extent of the dimensions after it. Gaps are allowed.
func rankOrdered(shape, strides []int) bool {
	if len(shape) != len(strides) {
		return false
	}
	extent := 1
	for i := len(shape) - 1; i >= 0; i-- {
		if shape[i] <= 1 {
			continue
		}
		if strides[i] < extent {
			return false
		}
		extent = strides[i] * shape[i]
	}
	return true
}
