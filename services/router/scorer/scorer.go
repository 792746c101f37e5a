// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package scorer implements the rule-based difficulty heuristic.
//
// The scorer is a pure function of the hand-crafted text statistics:
// same query, same output, across calls and process restarts. It has
// no model state and no I/O, which makes it the safety net the hybrid
// router falls back to when the statistical classifier cannot commit.
package scorer

import (
	"github.com/AleutianAI/intelrouter/services/router/difficulty"
	"github.com/AleutianAI/intelrouter/services/router/features"
)

// Outcome is the scorer's three-way verdict. Unlike a routing decision
// it may be Unsure; resolving Unsure is the router's job, not ours.
type Outcome int

const (
	// Easy means the heuristic score fell below the easy threshold.
	Easy Outcome = iota

	// Hard means the heuristic score exceeded the hard threshold.
	Hard

	// Unsure means the score landed in the middle band.
	Unsure
)

// String returns "EASY", "HARD", or "UNSURE".
func (o Outcome) String() string {
	switch o {
	case Easy:
		return "EASY"
	case Hard:
		return "HARD"
	default:
		return "UNSURE"
	}
}

// Level maps the outcome to a difficulty tier. Unsure maps to Medium;
// callers that need to distinguish Unsure must check the Outcome.
func (o Outcome) Level() difficulty.Level {
	switch o {
	case Easy:
		return difficulty.Easy
	case Hard:
		return difficulty.Hard
	default:
		return difficulty.Medium
	}
}

// Scoring weights and thresholds. Tuned against labeled routing data;
// the scorer must stay reproducible, so these are constants rather
// than configuration.
const (
	easyThreshold = 0.3
	hardThreshold = 0.7

	longQueryBonus     = 0.15
	shortQueryPenalty  = 0.1
	manySentencesBonus = 0.15
	reasoningWeight    = 0.2
	systemDesignWeight = 0.2
	codeWeight         = 0.15
	posWeight          = 0.1
	questionBonus      = 0.15

	longQueryWords    = 50
	shortQueryWords   = 10
	manySentences     = 3
	manyQuestionWords = 2
)

// Score classifies a query as Easy, Hard, or Unsure.
//
// Inputs:
//
//	query - Raw query text.
//
// Outputs:
//
//	Outcome - The heuristic verdict.
func Score(query string) Outcome {
	score := Value(query)
	switch {
	case score < easyThreshold:
		return Easy
	case score > hardThreshold:
		return Hard
	default:
		return Unsure
	}
}

// Value computes the raw heuristic score in [0, 1]. Exposed so tests
// and diagnostics can observe the score behind an Outcome.
func Value(query string) float64 {
	stats := features.ExtractStatistics(query)

	score := 0.0
	if stats.WordCount > longQueryWords {
		score += longQueryBonus
	} else if stats.WordCount < shortQueryWords {
		score -= shortQueryPenalty
	}
	if stats.SentenceCount > manySentences {
		score += manySentencesBonus
	}

	score += stats.ReasoningRatio * reasoningWeight
	score += stats.SystemDesignRatio * systemDesignWeight
	score += stats.CodeRatio * codeWeight
	score += stats.ComplexPOSRatio * posWeight

	if stats.QuestionCount > manyQuestionWords || stats.HasMultipleQuestions == 1 {
		score += questionBonus
	}

	// Clamp to [0, 1].
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
