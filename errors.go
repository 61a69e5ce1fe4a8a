// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ortvalue

import (
	"errors"
	"strconv"
	"strings"
)

// Error kinds. Every error returned by the Marshaller matches exactly one
// of them with errors.Is.
var (
	// ErrUnsupportedValueType is returned when the element type of a
	// payload, or the tag reported by the native side, is not one that
	// can be marshalled. No resource has been acquired.
	ErrUnsupportedValueType = errors.New("unsupported value type")
	// ErrUnsupportedLayout is returned for payloads of a supported element
	// type whose strides are not in row-major order. No lease has been
	// taken.
	ErrUnsupportedLayout = errors.New("unsupported layout")
	// ErrNativeCallFailure is returned when the native bridge reports a
	// failure. Any lease taken for the call has already been released.
	ErrNativeCallFailure = errors.New("native call failure")
)

// Error describes a failed conversion.
type Error struct {
	// Op is the operation that failed.
	Op string
	// Name of the value being converted, if any.
	Name string
	// Kind is one of the Err* sentinel values.
	Kind error
	// Err is the underlying cause. It can be nil.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("ortvalue: ")
	b.WriteString(e.Op)
	if e.Name != "" {
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(e.Name))
	}
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns both the kind and the cause, so that errors.Is and
// errors.As see each of them.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// withOp returns a copy of err bound to op and name, when err is an *Error.
func withOp(err error, op, name string) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	c := *e
	c.Op = op
	c.Name = name
	return &c
}

// kindLabel returns a metric label for the kind of err.
func kindLabel(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedValueType):
		return "unsupported_value_type"
	case errors.Is(err, ErrUnsupportedLayout):
		return "unsupported_layout"
	case errors.Is(err, ErrNativeCallFailure):
		return "native_call_failure"
	}
	return "unknown"
}
