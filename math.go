// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ortvalue

import (
	"fmt"
	"math"
)

// checkedMul multiplies a and b and checks for overflow.
func checkedMul(a, b uint64) (uint64, error) {
	c := a * b
	if a > 1 && b > 1 && c/a != b {
		return c, fmt.Errorf("multiplication overflow: %d * %d", a, b)
	}
	return c, nil
}

// checkedMulInt multiplies signed a and b and checks for overflow.
func checkedMulInt(a, b int) (int, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	c := a * b
	if c/b != a || (a == -1 && b == math.MinInt) || (b == -1 && a == math.MinInt) {
		return 0, fmt.Errorf("multiplication overflow: %d * %d", a, b)
	}
	return c, nil
}

// checkedAddInt adds signed a and b and checks for overflow.
func checkedAddInt(a, b int) (int, error) {
	if (b > 0 && a > math.MaxInt-b) || (b < 0 && a < math.MinInt-b) {
		return 0, fmt.Errorf("addition overflow: %d + %d", a, b)
	}
	return a + b, nil
}

// elementCount returns the number of elements described by shape.
// An empty shape is a scalar and counts as one element.
func elementCount(shape []uint64) (uint64, error) {
	n := uint64(1)
	for _, v := range shape {
		var err error
		if n, err = checkedMul(n, v); err != nil {
			return 0, fmt.Errorf("shape %v: %w", shape, err)
		}
	}
	return n, nil
}

// widenShape converts a Go shape to the native dimension width,
// rejecting negative dimensions.
func widenShape(shape []int) ([]uint64, error) {
	wide := make([]uint64, len(shape))
	for i, v := range shape {
		if v < 0 {
			return nil, fmt.Errorf("shape contains a negative value at index %d: %d", i, v)
		}
		wide[i] = uint64(v)
	}
	return wide, nil
}

// byteLength returns elementCount(shape) * size, checking for overflow.
func byteLength(shape []uint64, size int) (uint64, error) {
	if size < 0 {
		return 0, fmt.Errorf("element size %d has no fixed width", size)
	}
	n, err := elementCount(shape)
	if err != nil {
		return 0, err
	}
	return checkedMul(n, uint64(size))
}
