// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ortvalue_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/nlpodyssey/ortvalue"
	"github.com/nlpodyssey/ortvalue/dtype"
	"github.com/nlpodyssey/ortvalue/nativetest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	bridge := nativetest.NewBridge()
	m := ortvalue.NewMarshaller(bridge, ortvalue.WithMetrics(ortvalue.NewMetrics(reg)))

	// Zero-copy conversion, then the copy path.
	require.NoError(t, m.WithNative(ortvalue.NewNamedValue("a", dense([]int{3}, []float32{1, 2, 3})), noop))
	require.NoError(t, m.WithNative(ortvalue.NewNamedValue("b", mustStrided(t, []float32{1, 0, 2}, []int{2}, []int{2}, 0)), noop))

	// Failures of every kind.
	_, _, err := m.ToNative(ortvalue.NewNamedValue("c", dense([]int{1}, []bool{true})))
	require.Error(t, err)
	_, _, err = m.ToNative(ortvalue.NewNamedValue("d", mustColumnMajor(t, []float32{1, 2, 3, 4}, []int{2, 2})))
	require.Error(t, err)

	// Inward conversion.
	h := bridge.NewTensor(dtype.TagUint8, []uint64{1}, []byte{7})
	v, err := m.FromNative("e", h)
	require.NoError(t, err)
	require.NoError(t, v.Close())

	expected := `
# HELP ortvalue_conversions_total Total number of successful tensor conversions by direction and element type
# TYPE ortvalue_conversions_total counter
ortvalue_conversions_total{direction="from_native",dtype="U8"} 1
ortvalue_conversions_total{direction="to_native",dtype="F32"} 2
# HELP ortvalue_failures_total Total number of failed tensor conversions by direction and error kind
# TYPE ortvalue_failures_total counter
ortvalue_failures_total{direction="to_native",kind="unsupported_layout"} 1
ortvalue_failures_total{direction="to_native",kind="unsupported_value_type"} 1
# HELP ortvalue_leases_acquired_total Total number of buffer leases by path (zero_copy, copy)
# TYPE ortvalue_leases_acquired_total counter
ortvalue_leases_acquired_total{path="copy"} 1
ortvalue_leases_acquired_total{path="zero_copy"} 1
# HELP ortvalue_leases_released_total Total number of released buffer leases
# TYPE ortvalue_leases_released_total counter
ortvalue_leases_released_total 2
# HELP ortvalue_leased_bytes_total Total number of bytes exposed to native code through leases
# TYPE ortvalue_leased_bytes_total counter
ortvalue_leased_bytes_total 20
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"ortvalue_conversions_total",
		"ortvalue_failures_total",
		"ortvalue_leases_acquired_total",
		"ortvalue_leases_released_total",
		"ortvalue_leased_bytes_total",
	))
}

func TestMetrics_NativeFailureReleasesLease(t *testing.T) {
	reg := prometheus.NewRegistry()
	bridge := nativetest.NewFailingBridge(errors.New("out of memory"))
	m := ortvalue.NewMarshaller(bridge, ortvalue.WithMetrics(ortvalue.NewMetrics(reg)))

	_, _, err := m.ToNative(ortvalue.NewNamedValue("x", dense([]int{2}, []int32{1, 2})))
	require.ErrorIs(t, err, ortvalue.ErrNativeCallFailure)

	expected := `
# HELP ortvalue_failures_total Total number of failed tensor conversions by direction and error kind
# TYPE ortvalue_failures_total counter
ortvalue_failures_total{direction="to_native",kind="native_call_failure"} 1
# HELP ortvalue_leases_acquired_total Total number of buffer leases by path (zero_copy, copy)
# TYPE ortvalue_leases_acquired_total counter
ortvalue_leases_acquired_total{path="zero_copy"} 1
# HELP ortvalue_leases_released_total Total number of released buffer leases
# TYPE ortvalue_leases_released_total counter
ortvalue_leases_released_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"ortvalue_failures_total",
		"ortvalue_leases_acquired_total",
		"ortvalue_leases_released_total",
	))
}

func TestMetrics_Nil(t *testing.T) {
	m := ortvalue.NewMarshaller(nativetest.NewBridge(), ortvalue.WithMetrics(nil))
	assert.NoError(t, m.WithNative(ortvalue.NewNamedValue("x", dense([]int{1}, []uint8{1})), noop))
}

func noop(ortvalue.NativeHandle) error { return nil }
