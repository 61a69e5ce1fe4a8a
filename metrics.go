// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ortvalue

import (
	"github.com/nlpodyssey/ortvalue/dtype"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	directionToNative   = "to_native"
	directionFromNative = "from_native"
)

// Metrics collects Prometheus metrics about conversions and leases.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	conversions *prometheus.CounterVec
	failures    *prometheus.CounterVec
	leases      *prometheus.CounterVec
	released    prometheus.Counter
	leasedBytes prometheus.Counter
}

// NewMetrics creates the conversion metrics and registers them with reg,
// unless reg is nil. It panics if registration fails.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ortvalue",
			Name:      "conversions_total",
			Help:      "Total number of successful tensor conversions by direction and element type",
		}, []string{"direction", "dtype"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ortvalue",
			Name:      "failures_total",
			Help:      "Total number of failed tensor conversions by direction and error kind",
		}, []string{"direction", "kind"}),
		leases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ortvalue",
			Name:      "leases_acquired_total",
			Help:      "Total number of buffer leases by path (zero_copy, copy)",
		}, []string{"path"}),
		released: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ortvalue",
			Name:      "leases_released_total",
			Help:      "Total number of released buffer leases",
		}),
		leasedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ortvalue",
			Name:      "leased_bytes_total",
			Help:      "Total number of bytes exposed to native code through leases",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.conversions, m.failures, m.leases, m.released, m.leasedBytes)
	}
	return m
}

func (m *Metrics) converted(direction string, dt dtype.DType) {
	if m == nil {
		return
	}
	m.conversions.WithLabelValues(direction, dt.String()).Inc()
}

func (m *Metrics) failed(direction string, err error) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(direction, kindLabel(err)).Inc()
}

// track counts l as acquired and arranges for its release to be counted.
func (m *Metrics) track(l *Lease) {
	if m == nil {
		return
	}
	path := "zero_copy"
	if l.Copied() {
		path = "copy"
	}
	m.leases.WithLabelValues(path).Inc()
	m.leasedBytes.Add(float64(l.Len()))
	l.onRelease = func(*Lease) { m.released.Inc() }
}
