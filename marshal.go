// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ortvalue converts typed Go tensors to native inference engine
// tensors and back, lending Go memory to native code without copying
// whenever the layout allows it.
package ortvalue

import (
	"errors"
	"fmt"
	"math"
	"unsafe"

	"github.com/nlpodyssey/ortvalue/dtype"
	"go.uber.org/zap"
)

const (
	opToNative   = "ToNative"
	opFromNative = "FromNative"
	opDestroy    = "Destroy"
)

// Marshaller converts NamedValues to native tensors and back, through a
// NativeBridge.
//
// A Marshaller holds no per-conversion state and can be used from
// multiple goroutines, provided the bridge allows it. Each conversion
// owns its own Lease.
type Marshaller struct {
	bridge  NativeBridge
	mem     MemoryInfo
	logger  *zap.Logger
	metrics *Metrics
}

// Option configures a Marshaller.
type Option func(*Marshaller)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(m *Marshaller) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMetrics enables metrics collection.
func WithMetrics(mt *Metrics) Option {
	return func(m *Marshaller) {
		m.metrics = mt
	}
}

// WithMemoryInfo sets the allocator info passed to every CreateTensor
// call. The default is CPU.
func WithMemoryInfo(mem MemoryInfo) Option {
	return func(m *Marshaller) {
		m.mem = mem
	}
}

// NewMarshaller returns a Marshaller over bridge.
func NewMarshaller(bridge NativeBridge, opts ...Option) *Marshaller {
	m := &Marshaller{
		bridge: bridge,
		mem:    CPU,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ToNative creates a native tensor over the payload of v.
//
// On success, the caller owns both the handle and the lease: the lease
// must stay unreleased for as long as the native tensor may read the
// buffer, that is until the handle is destroyed. The lease must then be
// released: dropping it unreleased makes the garbage collector abort the
// process (see Lease). WithNative does both steps on every exit path. On
// failure nothing is returned and nothing is left to release.
func (m *Marshaller) ToNative(v NamedValue) (NativeHandle, *Lease, error) {
	h, lease, err := m.toNative(v)
	if err != nil {
		m.metrics.failed(directionToNative, err)
		return nil, nil, err
	}
	return h, lease, nil
}

func (m *Marshaller) toNative(v NamedValue) (_ NativeHandle, _ *Lease, err error) {
	dt := elementTypeOf(v.payload)
	if !dt.Supported() {
		return nil, nil, &Error{Op: opToNative, Name: v.name, Kind: ErrUnsupportedValueType, Err: unsupportedPayload(dt, v.payload)}
	}

	view, lease, err := probeAs(dt, v.payload)
	if err != nil {
		return nil, nil, withOp(err, opToNative, v.name)
	}
	m.metrics.track(lease)
	defer func() {
		if err != nil {
			lease.Release()
		}
	}()

	m.logger.Debug("leased tensor buffer",
		zap.String("name", v.name),
		zap.Stringer("dtype", dt),
		zap.Uint64s("shape", view.Shape()),
		zap.Uint64("bytes", view.DataLen()),
		zap.Bool("copied", lease.Copied()))

	h, err := m.bridge.CreateTensor(m.mem, view.Addr(), view.DataLen(), view.Shape(), view.Rank(), view.Tag())
	if err == nil && h == nil {
		err = errors.New("bridge returned no handle")
	}
	if err != nil {
		m.logger.Warn("native tensor creation failed",
			zap.String("name", v.name),
			zap.Stringer("dtype", dt),
			zap.Error(err))
		return nil, nil, &Error{Op: opToNative, Name: v.name, Kind: ErrNativeCallFailure, Err: err}
	}

	m.metrics.converted(directionToNative, dt)
	return h, lease, nil
}

// probeAs dispatches to the Probe of the element type dt.
func probeAs(dt dtype.DType, payload any) (RawView, *Lease, error) {
	var (
		view  RawView
		lease *Lease
		ok    bool
		err   error
	)
	switch dt {
	case dtype.F32:
		view, lease, ok, err = Probe[float32](payload)
	case dtype.F64:
		view, lease, ok, err = Probe[float64](payload)
	case dtype.I32:
		view, lease, ok, err = Probe[int32](payload)
	case dtype.U32:
		view, lease, ok, err = Probe[uint32](payload)
	case dtype.I64:
		view, lease, ok, err = Probe[int64](payload)
	case dtype.U64:
		view, lease, ok, err = Probe[uint64](payload)
	case dtype.I16:
		view, lease, ok, err = Probe[int16](payload)
	case dtype.U16:
		view, lease, ok, err = Probe[uint16](payload)
	case dtype.U8:
		view, lease, ok, err = Probe[uint8](payload)
	}
	if err != nil {
		return RawView{}, nil, err
	}
	if !ok {
		return RawView{}, nil, &Error{Kind: ErrUnsupportedValueType, Err: unsupportedPayload(dt, payload)}
	}
	return view, lease, nil
}

func unsupportedPayload(dt dtype.DType, payload any) error {
	if dt != dtype.Invalid {
		return fmt.Errorf("element type %s", dt)
	}
	return fmt.Errorf("payload type %T", payload)
}

// WithNative converts v, calls fn with the native tensor, then destroys
// the tensor and releases its lease, on every exit path.
func (m *Marshaller) WithNative(v NamedValue, fn func(NativeHandle) error) (err error) {
	h, lease, err := m.ToNative(v)
	if err != nil {
		return err
	}
	defer lease.Release()
	defer func() {
		if derr := h.Destroy(); derr != nil && err == nil {
			err = &Error{Op: opDestroy, Name: v.name, Kind: ErrNativeCallFailure, Err: derr}
		}
	}()
	return fn(h)
}

// FromNative wraps the native tensor h into a NamedValue.
//
// The payload is a *Dense[T] matching the element type reported by the
// native side; it borrows the native memory and becomes the owner of h:
// closing the NamedValue (or releasing the Dense) destroys h. On failure
// the caller keeps ownership of h.
func (m *Marshaller) FromNative(name string, h NativeHandle) (NamedValue, error) {
	v, dt, err := m.fromNative(name, h)
	if err != nil {
		m.metrics.failed(directionFromNative, err)
		return NamedValue{}, err
	}
	m.metrics.converted(directionFromNative, dt)
	m.logger.Debug("wrapped native tensor",
		zap.String("name", name),
		zap.Stringer("dtype", dt))
	return v, nil
}

func (m *Marshaller) fromNative(name string, h NativeHandle) (NamedValue, dtype.DType, error) {
	fail := func(kind, err error) (NamedValue, dtype.DType, error) {
		return NamedValue{}, dtype.Invalid, &Error{Op: opFromNative, Name: name, Kind: kind, Err: err}
	}
	if h == nil {
		return fail(ErrNativeCallFailure, errors.New("nil handle"))
	}
	info, err := m.bridge.TensorInfo(h)
	if err != nil {
		return fail(ErrNativeCallFailure, err)
	}

	dt := info.DType()
	if !dt.Supported() {
		return fail(ErrUnsupportedValueType, fmt.Errorf("native tag %d (%s)", info.Tag, dt))
	}

	byteLen, err := byteLength(info.Shape, dt.Size())
	if err != nil {
		return fail(ErrUnsupportedLayout, err)
	}
	if byteLen > math.MaxInt {
		return fail(ErrUnsupportedLayout, fmt.Errorf("shape %v is too large", info.Shape))
	}
	count := byteLen / uint64(dt.Size())
	if count > 0 && info.Data == nil {
		return fail(ErrNativeCallFailure, fmt.Errorf("native tensor reports %d elements at a nil address", count))
	}
	shape := make([]int, len(info.Shape))
	for i, v := range info.Shape {
		if v > math.MaxInt {
			return fail(ErrUnsupportedLayout, fmt.Errorf("dimension %d of shape %v is too large", i, info.Shape))
		}
		shape[i] = int(v)
	}

	owner := &nativeOwner{handle: h}
	n := int(count)
	var payload any
	switch dt {
	case dtype.F32:
		payload = borrowDense[float32](shape, info.Data, n, owner)
	case dtype.F64:
		payload = borrowDense[float64](shape, info.Data, n, owner)
	case dtype.I32:
		payload = borrowDense[int32](shape, info.Data, n, owner)
	case dtype.U32:
		payload = borrowDense[uint32](shape, info.Data, n, owner)
	case dtype.I64:
		payload = borrowDense[int64](shape, info.Data, n, owner)
	case dtype.U64:
		payload = borrowDense[uint64](shape, info.Data, n, owner)
	case dtype.I16:
		payload = borrowDense[int16](shape, info.Data, n, owner)
	case dtype.U16:
		payload = borrowDense[uint16](shape, info.Data, n, owner)
	case dtype.U8:
		payload = borrowDense[uint8](shape, info.Data, n, owner)
	}
	return NamedValue{name: name, payload: payload}, dt, nil
}

// borrowDense returns a Dense over n elements of native memory at data.
func borrowDense[T Element](shape []int, data unsafe.Pointer, n int, owner *nativeOwner) *Dense[T] {
	var s []T
	if n > 0 {
		s = unsafe.Slice((*T)(data), n)
	}
	return &Dense[T]{
		shape: copyShape(shape),
		data:  s,
		owner: owner,
	}
}
