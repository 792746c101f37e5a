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

import "github.com/AleutianAI/intelrouter/services/router/difficulty"

// Source tags which arbitration path produced a routing decision.
type Source string

const (
	// SourceUserOverride means the caller forced the difficulty.
	SourceUserOverride Source = "user_override"

	// SourceML means the classifier's prediction was trusted.
	SourceML Source = "ml"

	// SourceMLUncertain means the classifier was consulted but fell
	// below its confidence threshold (algorithmic-first policy only).
	SourceMLUncertain Source = "ml_uncertain"

	// SourceAlgorithmic means the rule-based scorer decided outright
	// (algorithmic-first policy only).
	SourceAlgorithmic Source = "algorithmic"

	// SourceAlgorithmicFallback means the classifier was uncertain or
	// unavailable and the rule-based scorer decided, possibly by
	// defaulting to MEDIUM.
	SourceAlgorithmicFallback Source = "algorithmic_fallback"
)

// Decision is the final arbitration result for one query.
type Decision struct {
	// Difficulty is always one of EASY, MEDIUM, HARD. Internal
	// indeterminate states never escape here.
	Difficulty difficulty.Level `json:"difficulty"`

	// ModelTier is the model name the difficulty maps to.
	ModelTier string `json:"model_tier"`

	// Source records which path decided.
	Source Source `json:"source"`

	// Confidence is the classifier's winning-class probability when an
	// ML path decided; zero otherwise.
	Confidence float64 `json:"confidence,omitempty"`
}

// TierMap maps difficulties to model tiers.
type TierMap map[difficulty.Level]string

// DefaultTierMap returns the stock three-model table.
func DefaultTierMap() TierMap {
	return TierMap{
		difficulty.Easy:   "meta-llama/Llama-3.1-8B-Instruct",
		difficulty.Medium: "Qwen/Qwen2.5-7B-Instruct-1M",
		difficulty.Hard:   "deepseek-ai/DeepSeek-R1",
	}
}

// Tier resolves a difficulty to its model tier. Unmapped difficulties
// resolve to the MEDIUM tier.
func (m TierMap) Tier(level difficulty.Level) string {
	if tier, ok := m[level]; ok {
		return tier
	}
	return m[difficulty.Medium]
}
