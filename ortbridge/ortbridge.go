// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build cgo

// Package ortbridge implements ortvalue.NativeBridge on top of ONNX Runtime.
package ortbridge

import (
	"errors"
	"fmt"
	"math"
	"unsafe"

	"github.com/nlpodyssey/ortvalue"
	"github.com/nlpodyssey/ortvalue/dtype"
	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/zap"
)

// Init loads the shared library named by cfg and initializes the ONNX
// Runtime environment, unless it is already initialized.
func Init(cfg Config, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ort.IsInitialized() {
		return nil
	}
	path := cfg.SharedLibraryPath
	ort.SetSharedLibraryPath(path)
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("initialize onnxruntime environment (library %s): %w", path, err)
	}
	if !ort.IsInitialized() {
		return errors.New("onnxruntime environment not initialized after InitializeEnvironment")
	}
	logger.Info("onnxruntime environment initialized", zap.String("library", path))
	return nil
}

// Shutdown destroys the ONNX Runtime environment.
func Shutdown() error {
	return ort.DestroyEnvironment()
}

// Bridge creates ONNX Runtime tensors over caller-owned memory.
type Bridge struct {
	logger *zap.Logger
}

var _ ortvalue.NativeBridge = &Bridge{}

// New returns a Bridge. The environment must be initialized with Init
// before any tensor is created.
func New(logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{logger: logger}
}

// Handle is an ONNX Runtime tensor value.
type Handle struct {
	value ort.Value
	tag   dtype.Tag
	shape []uint64
	data  unsafe.Pointer
}

// Value returns the underlying ONNX Runtime value, to be passed to a
// session.
func (h *Handle) Value() ort.Value {
	return h.value
}

// Destroy releases the ONNX Runtime value.
func (h *Handle) Destroy() error {
	return h.value.Destroy()
}

// CreateTensor wraps byteLen bytes at data into an ONNX Runtime tensor,
// without copying. Only CPU memory is supported.
//
// onnxruntime_go rejects rank-0 shapes and zero-length data, so scalars
// and tensors with no elements cannot be created through this bridge:
// give a scalar the shape [1] instead. Both cases fail here, before
// calling into ONNX Runtime.
func (b *Bridge) CreateTensor(mem ortvalue.MemoryInfo, data unsafe.Pointer, byteLen uint64, shape []uint64, rank uint64, tag dtype.Tag) (ortvalue.NativeHandle, error) {
	if mem != ortvalue.CPU {
		return nil, fmt.Errorf("unsupported memory info %q (id %d)", mem.Name, mem.ID)
	}
	if !ort.IsInitialized() {
		return nil, errors.New("onnxruntime environment is not initialized")
	}
	if rank != uint64(len(shape)) {
		return nil, fmt.Errorf("rank %d does not match shape %v", rank, shape)
	}
	if rank == 0 {
		return nil, errors.New("onnxruntime does not accept rank-0 (scalar) tensors: use shape [1]")
	}
	if byteLen == 0 {
		return nil, fmt.Errorf("onnxruntime does not accept tensors with no data (shape %v)", shape)
	}
	dims := make([]int64, len(shape))
	for i, v := range shape {
		if v > math.MaxInt64 {
			return nil, fmt.Errorf("dimension %d of shape %v overflows int64", i, shape)
		}
		dims[i] = int64(v)
	}
	buf := unsafe.Slice((*byte)(data), byteLen)
	t, err := ort.NewCustomDataTensor(ort.NewShape(dims...), buf, ort.TensorElementDataType(tag))
	if err != nil {
		return nil, err
	}
	b.logger.Debug("created onnxruntime tensor",
		zap.Int32("tag", int32(tag)),
		zap.Int64s("shape", dims),
		zap.Uint64("bytes", byteLen))
	return &Handle{
		value: t,
		tag:   tag,
		shape: append([]uint64(nil), shape...),
		data:  data,
	}, nil
}

// TensorInfo reports the tag, shape and data address of a Handle.
func (b *Bridge) TensorInfo(h ortvalue.NativeHandle) (ortvalue.TensorInfo, error) {
	hh, ok := h.(*Handle)
	if !ok {
		return ortvalue.TensorInfo{}, fmt.Errorf("unknown handle type %T", h)
	}
	return ortvalue.TensorInfo{
		Tag:   hh.tag,
		Shape: append([]uint64(nil), hh.shape...),
		Data:  hh.data,
	}, nil
}

// Wrap adopts a tensor produced by ONNX Runtime, such as a session
// output, so that it can be converted with Marshaller.FromNative.
func Wrap(v ort.Value) (*Handle, error) {
	switch t := v.(type) {
	case *ort.Tensor[float32]:
		return wrap(t, dtype.TagFloat, t.GetShape(), sliceAddr(t.GetData()))
	case *ort.Tensor[float64]:
		return wrap(t, dtype.TagDouble, t.GetShape(), sliceAddr(t.GetData()))
	case *ort.Tensor[int32]:
		return wrap(t, dtype.TagInt32, t.GetShape(), sliceAddr(t.GetData()))
	case *ort.Tensor[uint32]:
		return wrap(t, dtype.TagUint32, t.GetShape(), sliceAddr(t.GetData()))
	case *ort.Tensor[int64]:
		return wrap(t, dtype.TagInt64, t.GetShape(), sliceAddr(t.GetData()))
	case *ort.Tensor[uint64]:
		return wrap(t, dtype.TagUint64, t.GetShape(), sliceAddr(t.GetData()))
	case *ort.Tensor[int16]:
		return wrap(t, dtype.TagInt16, t.GetShape(), sliceAddr(t.GetData()))
	case *ort.Tensor[uint16]:
		return wrap(t, dtype.TagUint16, t.GetShape(), sliceAddr(t.GetData()))
	case *ort.Tensor[uint8]:
		return wrap(t, dtype.TagUint8, t.GetShape(), sliceAddr(t.GetData()))
	case *ort.Tensor[int8]:
		return wrap(t, dtype.TagInt8, t.GetShape(), sliceAddr(t.GetData()))
	}
	return nil, fmt.Errorf("unsupported onnxruntime value %T", v)
}

func wrap(v ort.Value, tag dtype.Tag, s ort.Shape, data unsafe.Pointer) (*Handle, error) {
	shape := make([]uint64, len(s))
	for i, d := range s {
		if d < 0 {
			return nil, fmt.Errorf("dimension %d of shape %v is negative", i, s)
		}
		shape[i] = uint64(d)
	}
	return &Handle{
		value: v,
		tag:   tag,
		shape: shape,
		data:  data,
	}, nil
}

func sliceAddr[T any](s []T) unsafe.Pointer {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Pointer(unsafe.SliceData(s))
}
