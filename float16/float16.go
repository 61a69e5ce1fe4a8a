// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package float16 provides 16-bit floating point element types.
//
// Both types are stored as raw bits. They are recognized by the marshaller
// but refused, since the native side expects them in a layout Go has no
// arithmetic for.
package float16

import (
	"math"

	"github.com/x448/float16"
)

// F16 is a 16-bit IEEE 754 half-precision floating-point value,
// represented as raw bits (uint16).
type F16 uint16

// FromFloat32 rounds f to the nearest F16 value.
func FromFloat32(f float32) F16 {
	return F16(float16.Fromfloat32(f).Bits())
}

// Float32 returns the float32 value of h.
func (h F16) Float32() float32 {
	return float16.Frombits(uint16(h)).Float32()
}

// BF16 is a 16-bit brain floating-point value, represented as raw
// bits (uint16). It is the upper half of a float32.
type BF16 uint16

// BF16FromFloat32 truncates f to a BF16 value.
func BF16FromFloat32(f float32) BF16 {
	return BF16(math.Float32bits(f) >> 16)
}

// Float32 returns the float32 value of b.
func (b BF16) Float32() float32 {
	return math.Float32frombits(uint32(b) << 16)
}
