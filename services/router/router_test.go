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
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/AleutianAI/intelrouter/pkg/logging"
	"github.com/AleutianAI/intelrouter/services/router/classifier"
	"github.com/AleutianAI/intelrouter/services/router/difficulty"
	"github.com/AleutianAI/intelrouter/services/router/scorer"
)

// stubPredictor returns a fixed prediction.
type stubPredictor struct {
	pred classifier.Prediction
}

func (s stubPredictor) Predict(string) classifier.Prediction { return s.pred }

func confident(level difficulty.Level, conf float64) stubPredictor {
	return stubPredictor{classifier.Prediction{Level: level, Confidence: conf}}
}

func degradedPredictor() stubPredictor {
	return stubPredictor{classifier.Prediction{
		Level:      difficulty.Medium,
		Confidence: 0.5,
		Degraded:   true,
		Reason:     classifier.ReasonNoModel,
	}}
}

func fixedScore(outcome scorer.Outcome) ScoreFunc {
	return func(string) scorer.Outcome { return outcome }
}

func newTestRouter(policy Policy) *Router {
	return New(policy, nil, nil, logging.Default())
}

func TestRoute_OverrideAlwaysWins(t *testing.T) {
	// The classifier is unloaded; overrides must not care.
	r := newTestRouter(&MLFirst{
		Classifier: degradedPredictor(),
		Score:      fixedScore(scorer.Easy),
	})

	tests := []struct {
		override string
		want     difficulty.Level
	}{
		{"hard", difficulty.Hard},
		{"HARD", difficulty.Hard},
		{" Easy ", difficulty.Easy},
		{"medium", difficulty.Medium},
	}
	for _, tt := range tests {
		d := r.Route("any query at all", tt.override)
		if d.Difficulty != tt.want || d.Source != SourceUserOverride {
			t.Errorf("Route(override=%q) = (%s, %s), want (%s, user_override)",
				tt.override, d.Difficulty, d.Source, tt.want)
		}
	}
}

func TestRoute_InvalidOverrideIgnored(t *testing.T) {
	r := newTestRouter(&MLFirst{
		Classifier: confident(difficulty.Hard, 0.92),
		Score:      fixedScore(scorer.Easy),
	})

	for _, override := range []string{"", "IMPOSSIBLE", "42"} {
		d := r.Route("query", override)
		if d.Source != SourceML || d.Difficulty != difficulty.Hard {
			t.Errorf("Route(override=%q) = (%s, %s), want policy decision (HARD, ml)",
				override, d.Difficulty, d.Source)
		}
	}
}

func TestRoute_TierMapping(t *testing.T) {
	r := newTestRouter(&MLFirst{
		Classifier: confident(difficulty.Easy, 0.9),
		Score:      fixedScore(scorer.Easy),
	})

	d := r.Route("query", "")
	if d.ModelTier != DefaultTierMap()[difficulty.Easy] {
		t.Errorf("ModelTier = %q, want the EASY tier", d.ModelTier)
	}
}

func TestTierMap_UnmappedDefaultsToMedium(t *testing.T) {
	m := DefaultTierMap()
	if got := m.Tier(difficulty.Level(99)); got != m[difficulty.Medium] {
		t.Errorf("Tier(unmapped) = %q, want the MEDIUM tier", got)
	}
}

func TestMLFirst_Decisions(t *testing.T) {
	tests := []struct {
		name       string
		classifier stubPredictor
		score      ScoreFunc
		wantLevel  difficulty.Level
		wantSource Source
	}{
		{
			"confident prediction trusted",
			confident(difficulty.Hard, 0.88),
			fixedScore(scorer.Easy),
			difficulty.Hard, SourceML,
		},
		{
			"uncertain falls back to scorer",
			stubPredictor{classifier.Prediction{Level: difficulty.Hard, Confidence: 0.4, Uncertain: true}},
			fixedScore(scorer.Easy),
			difficulty.Easy, SourceAlgorithmicFallback,
		},
		{
			"uncertain and scorer unsure defaults to medium",
			stubPredictor{classifier.Prediction{Level: difficulty.Hard, Confidence: 0.4, Uncertain: true}},
			fixedScore(scorer.Unsure),
			difficulty.Medium, SourceAlgorithmicFallback,
		},
		{
			"degraded classifier falls back to scorer",
			degradedPredictor(),
			fixedScore(scorer.Hard),
			difficulty.Hard, SourceAlgorithmicFallback,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &MLFirst{Classifier: tt.classifier, Score: tt.score}
			d := p.Decide("query")
			if d.Difficulty != tt.wantLevel || d.Source != tt.wantSource {
				t.Errorf("Decide = (%s, %s), want (%s, %s)",
					d.Difficulty, d.Source, tt.wantLevel, tt.wantSource)
			}
		})
	}
}

func TestAlgorithmicFirst_Decisions(t *testing.T) {
	tests := []struct {
		name       string
		classifier stubPredictor
		score      ScoreFunc
		wantLevel  difficulty.Level
		wantSource Source
	}{
		{
			"decisive scorer wins without consulting the classifier",
			confident(difficulty.Hard, 0.99),
			fixedScore(scorer.Easy),
			difficulty.Easy, SourceAlgorithmic,
		},
		{
			"unsure scorer defers to a confident classifier",
			confident(difficulty.Hard, 0.85),
			fixedScore(scorer.Unsure),
			difficulty.Hard, SourceML,
		},
		{
			"unsure scorer and uncertain classifier default to medium",
			stubPredictor{classifier.Prediction{Level: difficulty.Easy, Confidence: 0.35, Uncertain: true}},
			fixedScore(scorer.Unsure),
			difficulty.Medium, SourceMLUncertain,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &AlgorithmicFirst{Classifier: tt.classifier, Score: tt.score}
			d := p.Decide("query")
			if d.Difficulty != tt.wantLevel || d.Source != tt.wantSource {
				t.Errorf("Decide = (%s, %s), want (%s, %s)",
					d.Difficulty, d.Source, tt.wantLevel, tt.wantSource)
			}
		})
	}
}

func TestRoute_ShortQueryResolvesDownward(t *testing.T) {
	// With no model loaded, a trivial query must follow the fallback
	// chain to EASY or MEDIUM, never HARD.
	r := newTestRouter(&MLFirst{
		Classifier: degradedPredictor(),
		Score:      scorer.Score,
	})

	d := r.Route("What is 2+2?", "")
	if d.Difficulty == difficulty.Hard {
		t.Errorf("Route trivial query = HARD via %s, want EASY or MEDIUM", d.Source)
	}
	if d.Source != SourceAlgorithmicFallback {
		t.Errorf("Route trivial query source = %s, want algorithmic_fallback", d.Source)
	}
}

func TestRoute_Metrics(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())
	r := New(&MLFirst{
		Classifier: confident(difficulty.Easy, 0.9),
		Score:      fixedScore(scorer.Easy),
	}, nil, metrics, logging.Default())

	r.Route("query", "")
	r.Route("query", "hard")

	if got := testutil.ToFloat64(metrics.OverridesTotal); got != 1 {
		t.Errorf("overrides_total = %f, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.DecisionsTotal.WithLabelValues("ml", "EASY")); got != 1 {
		t.Errorf(`decisions_total{ml,EASY} = %f, want 1`, got)
	}
	if got := testutil.ToFloat64(metrics.DecisionsTotal.WithLabelValues("user_override", "HARD")); got != 1 {
		t.Errorf(`decisions_total{user_override,HARD} = %f, want 1`, got)
	}
}
