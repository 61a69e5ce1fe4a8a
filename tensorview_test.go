// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ortvalue

import (
	"testing"
	"unsafe"

	"github.com/nlpodyssey/ortvalue/dtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRawView(t *testing.T) {
	data := []int32{1, 2, 3, 4}
	addr := unsafe.Pointer(&data[0])

	t.Run("ok", func(t *testing.T) {
		rv, err := NewRawView(dtype.I32, []uint64{2, 2}, addr, 16)
		require.NoError(t, err)
		assert.Equal(t, dtype.I32, rv.DType())
		assert.Equal(t, dtype.TagInt32, rv.Tag())
		assert.Equal(t, []uint64{2, 2}, rv.Shape())
		assert.Equal(t, uint64(2), rv.Rank())
		assert.Equal(t, addr, rv.Addr())
		assert.Equal(t, uint64(16), rv.DataLen())
	})

	t.Run("empty", func(t *testing.T) {
		rv, err := NewRawView(dtype.F32, []uint64{0, 3}, nil, 0)
		require.NoError(t, err)
		assert.Nil(t, rv.Addr())
	})

	t.Run("wrong length", func(t *testing.T) {
		_, err := NewRawView(dtype.I32, []uint64{2, 2}, addr, 12)
		assert.EqualError(t, err, "invalid raw view: dtype=I32 shape=[2 2] len(data)=12")
	})

	t.Run("nil address", func(t *testing.T) {
		_, err := NewRawView(dtype.I32, []uint64{2}, nil, 8)
		assert.Error(t, err)
	})

	t.Run("not blittable", func(t *testing.T) {
		_, err := NewRawView(dtype.String, []uint64{1}, addr, 8)
		assert.Error(t, err)
		_, err = NewRawView(dtype.Invalid, []uint64{1}, addr, 8)
		assert.Error(t, err)
	})

	t.Run("overflow", func(t *testing.T) {
		_, err := NewRawView(dtype.F64, []uint64{1 << 62, 4}, addr, 0)
		assert.Error(t, err)
	})
}

func TestTensorInfo_DType(t *testing.T) {
	assert.Equal(t, dtype.F32, TensorInfo{Tag: dtype.TagFloat}.DType())
	assert.Equal(t, dtype.U8, TensorInfo{Tag: dtype.TagUint8}.DType())
	assert.Equal(t, dtype.Invalid, TensorInfo{Tag: 99}.DType())
}
