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
	"github.com/AleutianAI/intelrouter/services/router/classifier"
	"github.com/AleutianAI/intelrouter/services/router/difficulty"
	"github.com/AleutianAI/intelrouter/services/router/scorer"
)

// Predictor is the classifier surface a policy consults.
type Predictor interface {
	Predict(query string) classifier.Prediction
}

// ScoreFunc is the rule-based scorer surface a policy consults.
type ScoreFunc func(query string) scorer.Outcome

// Policy arbitrates between the classifier and the rule-based scorer.
// Implementations must be safe for concurrent use.
type Policy interface {
	Name() string
	Decide(query string) Decision
}

// MLFirst trusts the classifier whenever it is confident, and falls
// back to the rule-based scorer when it is uncertain or unavailable.
// A scorer that is itself unsure defaults to MEDIUM. This is the
// standard policy.
type MLFirst struct {
	Classifier Predictor
	Score      ScoreFunc
}

func (p *MLFirst) Name() string { return "ml_first" }

func (p *MLFirst) Decide(query string) Decision {
	pred := p.Classifier.Predict(query)
	if !pred.Uncertain && !pred.Degraded {
		return Decision{
			Difficulty: pred.Level,
			Source:     SourceML,
			Confidence: pred.Confidence,
		}
	}

	outcome := p.Score(query)
	level := difficulty.Medium
	if outcome != scorer.Unsure {
		level = outcome.Level()
	}
	return Decision{Difficulty: level, Source: SourceAlgorithmicFallback}
}

// AlgorithmicFirst is the legacy ordering: the rule-based scorer
// decides outright unless it is unsure, and only then is the
// classifier consulted. An uncertain classifier defaults to MEDIUM
// with source ml_uncertain. Kept selectable for comparison against
// MLFirst in production traffic.
type AlgorithmicFirst struct {
	Classifier Predictor
	Score      ScoreFunc
}

func (p *AlgorithmicFirst) Name() string { return "algorithmic_first" }

func (p *AlgorithmicFirst) Decide(query string) Decision {
	outcome := p.Score(query)
	if outcome != scorer.Unsure {
		return Decision{Difficulty: outcome.Level(), Source: SourceAlgorithmic}
	}

	pred := p.Classifier.Predict(query)
	if pred.Uncertain || pred.Degraded {
		return Decision{
			Difficulty: difficulty.Medium,
			Source:     SourceMLUncertain,
			Confidence: pred.Confidence,
		}
	}
	return Decision{
		Difficulty: pred.Level,
		Source:     SourceML,
		Confidence: pred.Confidence,
	}
}
