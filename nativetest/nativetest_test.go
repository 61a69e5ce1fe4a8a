// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nativetest

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/nlpodyssey/ortvalue"
	"github.com/nlpodyssey/ortvalue/dtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBridge_CreateTensor(t *testing.T) {
	b := NewBridge()
	src := []byte{1, 2, 3, 4, 5}

	h, err := b.CreateTensor(ortvalue.CPU, unsafe.Pointer(&src[0]), 5, []uint64{5}, 1, dtype.TagUint8)
	require.NoError(t, err)
	src[0] = 9

	tt := h.(*Tensor)
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, tt.Bytes(), "the input is copied")
	assert.Equal(t, 1, b.Live())

	info, err := b.TensorInfo(h)
	require.NoError(t, err)
	assert.Equal(t, dtype.TagUint8, info.Tag)
	assert.Equal(t, []uint64{5}, info.Shape)
	assert.NotNil(t, info.Data)
	assert.Zero(t, uintptr(info.Data)%8, "the buffer is 8-byte aligned")

	calls := b.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, calls[0].Data)

	require.NoError(t, h.Destroy())
	assert.Error(t, h.Destroy())
	assert.Equal(t, 2, tt.Destroyed())
	assert.Equal(t, 0, b.Live())

	_, err = b.TensorInfo(h)
	assert.Error(t, err)
}

func TestBridge_CreateTensor_RankMismatch(t *testing.T) {
	b := NewBridge()
	_, err := b.CreateTensor(ortvalue.CPU, nil, 0, []uint64{0}, 2, dtype.TagFloat)
	assert.Error(t, err)
	assert.Len(t, b.Calls(), 1)
	assert.Equal(t, 0, b.Live())
}

func TestNewFailingBridge(t *testing.T) {
	boom := errors.New("boom")
	b := NewFailingBridge(boom)
	_, err := b.CreateTensor(ortvalue.CPU, nil, 0, nil, 0, dtype.TagFloat)
	assert.Same(t, boom, err)
	assert.Equal(t, 0, b.Live())
}

func TestBridge_TensorInfo_Foreign(t *testing.T) {
	a, b := NewBridge(), NewBridge()
	h := a.NewTensor(dtype.TagFloat, []uint64{1}, []byte{0, 0, 0, 0})
	_, err := b.TensorInfo(h)
	assert.Error(t, err)
}
