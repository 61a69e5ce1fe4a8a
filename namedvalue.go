// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ortvalue

import (
	"sync"
)

// NamedValue is a pair of a name (an input or output label of a model)
// and an array payload.
//
// The payload is normally a Tensor[T]; any other value is accepted by
// NewNamedValue and reported as unsupported by the Marshaller.
type NamedValue struct {
	name    string
	payload any
}

// NewNamedValue returns a NamedValue. The payload is not copied.
func NewNamedValue(name string, payload any) NamedValue {
	return NamedValue{
		name:    name,
		payload: payload,
	}
}

// The Name of the value.
func (v NamedValue) Name() string {
	return v.name
}

// Payload returns the array value.
func (v NamedValue) Payload() any {
	return v.payload
}

// Close releases any native memory the payload borrows. It is a no-op
// for Go-owned payloads and safe to call more than once.
func (v NamedValue) Close() error {
	if r, ok := v.payload.(interface{ Release() error }); ok {
		return r.Release()
	}
	return nil
}

// AsTensor returns the payload of v as a Tensor[T]. The boolean flag
// reports whether the payload has that element type.
func AsTensor[T any](v NamedValue) (Tensor[T], bool) {
	t, ok := v.payload.(Tensor[T])
	return t, ok
}

// nativeOwner is the single path to destroying a native tensor whose
// memory is borrowed by a Dense.
type nativeOwner struct {
	once   sync.Once
	handle NativeHandle
	err    error
}

func (o *nativeOwner) release() error {
	o.once.Do(func() {
		o.err = o.handle.Destroy()
		o.handle = nil
	})
	return o.err
}
