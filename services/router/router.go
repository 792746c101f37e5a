// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package router arbitrates query difficulty into a final routing
// decision.
//
// Precedence: a valid user override always wins; otherwise the
// configured Policy weighs the statistical classifier against the
// rule-based scorer. Every decision resolves to exactly one of EASY,
// MEDIUM, or HARD plus a source tag; there is no unrouteable state.
package router

import (
	"time"

	"github.com/AleutianAI/intelrouter/pkg/logging"
	"github.com/AleutianAI/intelrouter/services/router/difficulty"
)

// Router is the routing entry point.
//
// # Thread Safety
//
// Safe for unlimited concurrent Route calls; all fields are read-only
// after construction.
type Router struct {
	policy  Policy
	tiers   TierMap
	metrics *Metrics
	logger  *logging.Logger
}

// New assembles a Router. A nil tiers map falls back to
// DefaultTierMap; nil metrics disables instrumentation.
func New(policy Policy, tiers TierMap, metrics *Metrics, logger *logging.Logger) *Router {
	if tiers == nil {
		tiers = DefaultTierMap()
	}
	return &Router{policy: policy, tiers: tiers, metrics: metrics, logger: logger}
}

// Route decides the difficulty, model tier, and source for one query.
//
// Inputs:
//
//	query    - The user's query text.
//	override - Optional difficulty label ("easy", "MEDIUM", ...). Any
//	           value that is not a known label is ignored.
//
// Outputs:
//
//	Decision - Always a valid difficulty with its model tier.
func (r *Router) Route(query, override string) Decision {
	started := time.Now()

	var decision Decision
	if level, ok := difficulty.Parse(override); ok {
		decision = Decision{Difficulty: level, Source: SourceUserOverride}
		if r.metrics != nil {
			r.metrics.OverridesTotal.Inc()
		}
	} else {
		decision = r.policy.Decide(query)
	}
	decision.ModelTier = r.tiers.Tier(decision.Difficulty)

	if r.metrics != nil {
		r.metrics.DecisionsTotal.
			WithLabelValues(string(decision.Source), decision.Difficulty.String()).Inc()
		r.metrics.DecisionDurationSeconds.Observe(time.Since(started).Seconds())
	}
	r.logger.Debug("routed query",
		"difficulty", decision.Difficulty.String(),
		"source", string(decision.Source),
		"tier", decision.ModelTier,
		"confidence", decision.Confidence,
	)
	return decision
}
