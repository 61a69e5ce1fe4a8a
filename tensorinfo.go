// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ortvalue

import (
	"unsafe"

	"github.com/nlpodyssey/ortvalue/dtype"
)

// TensorInfo provides information of a single native tensor.
// Data is assumed to be dense, little-endian and row-major ("C") ordered.
type TensorInfo struct {
	// The Tag of each element of the tensor, as reported by the native side.
	Tag dtype.Tag
	// The Shape of the tensor.
	Shape []uint64
	// Data is the address of the first element. It can be nil for
	// tensors with no elements.
	Data unsafe.Pointer
}

// DType resolves the element type of the tensor.
func (ti TensorInfo) DType() dtype.DType {
	return dtype.FromTag(ti.Tag)
}
