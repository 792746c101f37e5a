// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package router

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the routing path.
//
// Thread Safety: Safe for concurrent use (Prometheus metrics are thread-safe).
type Metrics struct {
	// DecisionsTotal counts routing decisions by source and difficulty.
	DecisionsTotal *prometheus.CounterVec

	// DecisionDurationSeconds measures end-to-end arbitration latency.
	DecisionDurationSeconds prometheus.Histogram

	// OverridesTotal counts decisions forced by a user override.
	OverridesTotal prometheus.Counter
}

// NewMetrics creates and registers routing metrics with reg. A nil reg
// uses the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		DecisionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "intelrouter",
				Subsystem: "routing",
				Name:      "decisions_total",
				Help:      "Total routing decisions by source and difficulty",
			},
			[]string{"source", "difficulty"},
		),

		DecisionDurationSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "intelrouter",
				Subsystem: "routing",
				Name:      "decision_duration_seconds",
				Help:      "End-to-end arbitration latency",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
		),

		OverridesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "intelrouter",
				Subsystem: "routing",
				Name:      "overrides_total",
				Help:      "Total decisions forced by a user override",
			},
		),
	}
}
