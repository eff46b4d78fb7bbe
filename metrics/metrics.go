// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/eri-project/erid/fault"
)

const namespace = "erid"

// result labels
const (
	ResultOK         = "ok"
	ResultExists     = "exists"
	ResultInvalid    = "invalid"
	ResultNotFound   = "not_found"
	ResultPermission = "permission"
	ResultProcess    = "process"
	ResultError      = "error"
)

// Metrics - operation and event counters for one node
type Metrics struct {
	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
	Events     *prometheus.CounterVec

	factory promauto.Factory
}

// New - create and register on reg, nil means the default registerer
func New(reg prometheus.Registerer) *Metrics {
	if nil == reg {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		factory: factory,
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Operations by name and result class",
		}, []string{"operation", "result"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of operations",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"operation"}),
		Events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Events broadcast after commit",
		}, []string{"command"}),
	}
}

// Observe - count one operation started at start
func (m *Metrics) Observe(operation string, start time.Time, err error) {
	m.Operations.WithLabelValues(operation, Result(err)).Inc()
	m.Duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// Event - count one broadcast event
func (m *Metrics) Event(command string) {
	m.Events.WithLabelValues(command).Inc()
}

// DroppedEvents - export a running count of events a listener missed
func (m *Metrics) DroppedEvents(dropped func() uint64) prometheus.CounterFunc {
	return m.factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_dropped_total",
		Help:      "Event deliveries skipped because a listener was full",
	}, func() float64 {
		return float64(dropped())
	})
}

// Result - label for the class of err
func Result(err error) string {
	switch {
	case nil == err:
		return ResultOK
	case fault.IsErrExists(err):
		return ResultExists
	case fault.IsErrInvalid(err):
		return ResultInvalid
	case fault.IsErrNotFound(err):
		return ResultNotFound
	case fault.IsErrPermission(err):
		return ResultPermission
	case fault.IsErrProcess(err):
		return ResultProcess
	default:
		return ResultError
	}
}
