// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !cgo

// Package ortbridge implements ortvalue.NativeBridge on top of ONNX Runtime.
//
// ONNX Runtime requires cgo: in this build every operation fails with
// ErrUnavailable.
package ortbridge

import (
	"errors"
	"unsafe"

	"github.com/nlpodyssey/ortvalue"
	"github.com/nlpodyssey/ortvalue/dtype"
	"go.uber.org/zap"
)

// ErrUnavailable is returned when the package is built without cgo.
var ErrUnavailable = errors.New("onnxruntime bridge unavailable: built without cgo")

func Init(Config, *zap.Logger) error { return ErrUnavailable }

func Shutdown() error { return ErrUnavailable }

type Bridge struct{}

var _ ortvalue.NativeBridge = &Bridge{}

func New(*zap.Logger) *Bridge { return &Bridge{} }

func (b *Bridge) CreateTensor(ortvalue.MemoryInfo, unsafe.Pointer, uint64, []uint64, uint64, dtype.Tag) (ortvalue.NativeHandle, error) {
	return nil, ErrUnavailable
}

func (b *Bridge) TensorInfo(ortvalue.NativeHandle) (ortvalue.TensorInfo, error) {
	return ortvalue.TensorInfo{}, ErrUnavailable
}
