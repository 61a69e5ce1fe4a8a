// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dtype

import (
	"fmt"
)

// DType represents a tensor element type.
//
// The first nine values are the element types that can be exchanged with
// native code; they are listed in probing order. The remaining values are
// markers for element types that are recognized but refused.
type DType uint8

const (
	// Invalid is the zero DType, returned for unknown native tags.
	Invalid DType = iota
	// F32 represents a 32-bit floating point data type.
	F32
	// F64 represents a 64-bit floating point data type.
	F64
	// I32 represents a 32-bit signed integer data type.
	I32
	// U32 represents a 32-bit unsigned integer data type.
	U32
	// I64 represents a 64-bit signed integer data type.
	I64
	// U64 represents a 64-bit unsigned integer data type.
	U64
	// I16 represents a 16-bit signed integer data type.
	I16
	// U16 represents a 16-bit unsigned integer data type.
	U16
	// U8 represents an 8-bit unsigned integer data type.
	U8
	// I8 represents an 8-bit signed integer data type (unsupported).
	I8
	// String represents a variable-length string data type (unsupported).
	String
	// Bool represents an 8-bit boolean data type (unsupported, non-blittable).
	Bool
	// F16 represents a 16-bit half-precision floating point data type (unsupported).
	F16
	// BF16 represents a 16-bit brain floating point data type (unsupported).
	BF16
	// C64 represents a 64-bit complex data type (unsupported).
	C64
	// C128 represents a 128-bit complex data type (unsupported).
	C128
)

// Tag is the element type identifier understood by the native side.
// Values follow the ONNX TensorProto.DataType numbering.
type Tag int32

// Native tags.
const (
	TagUndefined  Tag = 0
	TagFloat      Tag = 1
	TagUint8      Tag = 2
	TagInt8       Tag = 3
	TagUint16     Tag = 4
	TagInt16      Tag = 5
	TagInt32      Tag = 6
	TagInt64      Tag = 7
	TagString     Tag = 8
	TagBool       Tag = 9
	TagFloat16    Tag = 10
	TagDouble     Tag = 11
	TagUint32     Tag = 12
	TagUint64     Tag = 13
	TagComplex64  Tag = 14
	TagComplex128 Tag = 15
	TagBFloat16   Tag = 16
)

var (
	dTypeToString = [...]string{
		F32:    "F32",
		F64:    "F64",
		I32:    "I32",
		U32:    "U32",
		I64:    "I64",
		U64:    "U64",
		I16:    "I16",
		U16:    "U16",
		U8:     "U8",
		I8:     "I8",
		String: "STRING",
		Bool:   "BOOL",
		F16:    "F16",
		BF16:   "BF16",
		C64:    "C64",
		C128:   "C128",
	}
	dTypeToSize = [...]int{
		F32:    4,
		F64:    8,
		I32:    4,
		U32:    4,
		I64:    8,
		U64:    8,
		I16:    2,
		U16:    2,
		U8:     1,
		I8:     1,
		String: -1,
		Bool:   1,
		F16:    2,
		BF16:   2,
		C64:    8,
		C128:   16,
	}
	dTypeToTag = [...]Tag{
		F32:    TagFloat,
		F64:    TagDouble,
		I32:    TagInt32,
		U32:    TagUint32,
		I64:    TagInt64,
		U64:    TagUint64,
		I16:    TagInt16,
		U16:    TagUint16,
		U8:     TagUint8,
		I8:     TagInt8,
		String: TagString,
		Bool:   TagBool,
		F16:    TagFloat16,
		BF16:   TagBFloat16,
		C64:    TagComplex64,
		C128:   TagComplex128,
	}
	tagToDType = [...]DType{
		TagFloat:      F32,
		TagUint8:      U8,
		TagInt8:       I8,
		TagUint16:     U16,
		TagInt16:      I16,
		TagInt32:      I32,
		TagInt64:      I64,
		TagString:     String,
		TagBool:       Bool,
		TagFloat16:    F16,
		TagDouble:     F64,
		TagUint32:     U32,
		TagUint64:     U64,
		TagComplex64:  C64,
		TagComplex128: C128,
		TagBFloat16:   BF16,
	}
	catalog = [...]DType{F32, F64, I32, U32, I64, U64, I16, U16, U8}
)

// Catalog returns the element types that can be exchanged with native
// code, in probing order.
func Catalog() []DType {
	c := catalog
	return c[:]
}

// FromTag resolves a native tag. It returns Invalid if the tag is unknown.
// Known but unsupported tags resolve to their marker DType: use Supported
// to decide whether the result can be marshalled.
func FromTag(tag Tag) DType {
	if tag < 0 || int(tag) >= len(tagToDType) {
		return Invalid
	}
	return tagToDType[tag]
}

// Validate returns an error if the DType is not valid, otherwise nil.
func (dt DType) Validate() error {
	if dt == Invalid || dt > C128 {
		return fmt.Errorf("invalid DType(%d)", dt)
	}
	return nil
}

// Supported reports whether values of this type can be marshalled.
func (dt DType) Supported() bool {
	return dt >= F32 && dt <= U8
}

// Blittable reports whether the in-memory Go representation of this type
// matches the native one bit for bit.
func (dt DType) Blittable() bool {
	return dt.Validate() == nil && dt != String && dt != Bool
}

// String returns a string representation of a DType.
func (dt DType) String() string {
	if err := dt.Validate(); err != nil {
		return err.Error()
	}
	return dTypeToString[dt]
}

// Size returns the size in bytes of one element of this data type,
// or -1 if the DType value is invalid or has no fixed width.
func (dt DType) Size() int {
	if err := dt.Validate(); err != nil {
		return -1
	}
	return dTypeToSize[dt]
}

// Tag returns the native tag of the data type, or TagUndefined if the
// DType value is invalid.
func (dt DType) Tag() Tag {
	if err := dt.Validate(); err != nil {
		return TagUndefined
	}
	return dTypeToTag[dt]
}

// MarshalText satisfies encoding.TextMarshaler interface.
func (dt DType) MarshalText() ([]byte, error) {
	if err := dt.Validate(); err != nil {
		return nil, err
	}
	return []byte(dTypeToString[dt]), nil
}

// UnmarshalText satisfies encoding.TextUnmarshaler interface.
func (dt *DType) UnmarshalText(text []byte) error {
	s := string(text)
	for v := F32; v <= C128; v++ {
		if dTypeToString[v] == s {
			*dt = v
			return nil
		}
	}
	return fmt.Errorf("failed to text-unmarshal DType from value %q", s)
}
