// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ortvalue

import (
	"errors"
)

// Batch is a set of native tensors created from a list of NamedValues,
// typically the inputs of one inference run.
type Batch struct {
	names   []string
	handles []NativeHandle
	leases  []*Lease
	closed  bool
}

// ToNativeAll converts every value, in order. If any conversion fails,
// the tensors already created are destroyed, their leases released, and
// the error of the failed conversion is returned.
func (m *Marshaller) ToNativeAll(values []NamedValue) (*Batch, error) {
	b := &Batch{
		names:   make([]string, 0, len(values)),
		handles: make([]NativeHandle, 0, len(values)),
		leases:  make([]*Lease, 0, len(values)),
	}
	for _, v := range values {
		h, lease, err := m.ToNative(v)
		if err != nil {
			if cerr := b.Close(); cerr != nil {
				return nil, errors.Join(err, cerr)
			}
			return nil, err
		}
		b.names = append(b.names, v.name)
		b.handles = append(b.handles, h)
		b.leases = append(b.leases, lease)
	}
	return b, nil
}

// Len returns the number of tensors in the batch.
func (b *Batch) Len() int {
	return len(b.handles)
}

// Names returns the names of the converted values, in order.
func (b *Batch) Names() []string {
	return b.names
}

// Handles returns the native tensors, in the same order as Names.
func (b *Batch) Handles() []NativeHandle {
	return b.handles
}

// Close destroys every native tensor, then releases every lease.
// Only the first call has an effect.
func (b *Batch) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true

	var errs []error
	for i, h := range b.handles {
		if err := h.Destroy(); err != nil {
			errs = append(errs, &Error{Op: opDestroy, Name: b.names[i], Kind: ErrNativeCallFailure, Err: err})
		}
	}
	for _, l := range b.leases {
		l.Release()
	}
	return errors.Join(errs...)
}
