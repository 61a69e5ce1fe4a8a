// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ortvalue_test

import (
	"github.com/nlpodyssey/ortvalue"
	"github.com/nlpodyssey/ortvalue/dtype"
)

// commonDefinitions holds one payload per supported element type, along
// with the little-endian bytes the native side is expected to receive.
var commonDefinitions = map[string]struct {
	dType   dtype.DType
	shape   []int
	payload any
	bytes   []byte
}{
	"u8": {
		dtype.U8, []int{2, 2},
		dense([]int{2, 2}, []uint8{0, 1, 254, 255}),
		[]byte{0x00, 0x01, 0xfe, 0xff},
	},
	"u16": {
		dtype.U16, []int{2, 2},
		dense([]int{2, 2}, []uint16{0, 1, 65534, 65535}),
		[]byte{
			0x00, 0x00 /**/, 0x01, 0x00,
			0xfe, 0xff /**/, 0xff, 0xff,
		},
	},
	"i16": {
		dtype.I16, []int{2, 2},
		dense([]int{2, 2}, []int16{0, 1, -2, -1}),
		[]byte{
			0x00, 0x00 /**/, 0x01, 0x00,
			0xfe, 0xff /**/, 0xff, 0xff,
		},
	},
	"u32": {
		dtype.U32, []int{2, 2},
		dense([]int{2, 2}, []uint32{1, 2, 4294967294, 4294967295}),
		[]byte{
			0x01, 0x00, 0x00, 0x00 /**/, 0x02, 0x00, 0x00, 0x00,
			0xfe, 0xff, 0xff, 0xff /**/, 0xff, 0xff, 0xff, 0xff,
		},
	},
	"i32": {
		dtype.I32, []int{2, 2},
		dense([]int{2, 2}, []int32{1, 2, -2, -1}),
		[]byte{
			0x01, 0x00, 0x00, 0x00 /**/, 0x02, 0x00, 0x00, 0x00,
			0xfe, 0xff, 0xff, 0xff /**/, 0xff, 0xff, 0xff, 0xff,
		},
	},
	"f32": {
		dtype.F32, []int{2, 2},
		dense([]int{2, 2}, []float32{1, 2, -1, -2}),
		[]byte{
			0x00, 0x00, 0x80, 0x3f /**/, 0x00, 0x00, 0x00, 0x40,
			0x00, 0x00, 0x80, 0xbf /**/, 0x00, 0x00, 0x00, 0xc0,
		},
	},
	"u64": {
		dtype.U64, []int{2, 1},
		dense([]int{2, 1}, []uint64{1, 18446744073709551615}),
		[]byte{
			0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		},
	},
	"i64": {
		dtype.I64, []int{1, 2},
		dense([]int{1, 2}, []int64{1, -1}),
		[]byte{
			0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		},
	},
	"f64": {
		dtype.F64, []int{2},
		dense([]int{2}, []float64{1, -1}),
		[]byte{
			0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xf0, 0x3f,
			0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xf0, 0xbf,
		},
	},
	"zero data": {
		dtype.U8, []int{0},
		dense([]int{0}, []uint8{}),
		nil,
	},
	"no shape scalar": {
		dtype.U8, nil,
		dense(nil, []uint8{42}),
		[]byte{42},
	},
	"rank 3": {
		dtype.I16, []int{1, 2, 1},
		dense([]int{1, 2, 1}, []int16{-2, 1}),
		[]byte{0xfe, 0xff, 0x01, 0x00},
	},
	"rank 4": {
		dtype.U8, []int{1, 1, 2, 2},
		dense([]int{1, 1, 2, 2}, []uint8{1, 2, 3, 4}),
		[]byte{1, 2, 3, 4},
	},
}

func dense[T any](shape []int, data []T) *ortvalue.Dense[T] {
	d, err := ortvalue.NewDense(shape, data)
	if err != nil {
		panic(err)
	}
	return d
}

// wideShape converts shape the way the native side receives it.
func wideShape(shape []int) []uint64 {
	if len(shape) == 0 {
		return nil
	}
	w := make([]uint64, len(shape))
	for i, v := range shape {
		w[i] = uint64(v)
	}
	return w
}
