// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package difficulty defines the difficulty tiers shared by the scorer,
// classifier, router, and training pipeline.
//
// Every routing decision resolves to exactly one of EASY, MEDIUM, or
// HARD. Internal intermediate states (the scorer's UNSURE, the
// classifier's UNCERTAIN) live in their own packages and never leak
// past the router.
package difficulty

import "strings"

// Level is one of the three difficulty tiers.
type Level int

const (
	// Easy queries are short, factual, keyword-free lookups.
	Easy Level = iota

	// Medium is the default tier and the safe fallback whenever a
	// component cannot commit to Easy or Hard.
	Medium

	// Hard queries carry reasoning, system-design, or code signals.
	Hard
)

// String returns the canonical uppercase label used in persisted
// training data and metadata ("EASY", "MEDIUM", "HARD").
func (l Level) String() string {
	switch l {
	case Easy:
		return "EASY"
	case Medium:
		return "MEDIUM"
	case Hard:
		return "HARD"
	default:
		return "MEDIUM"
	}
}

// Parse maps a label to a Level, case-insensitively.
//
// Inputs:
//
//	label - A difficulty label such as "hard" or "EASY". Surrounding
//	        whitespace is ignored.
//
// Outputs:
//
//	Level - The parsed level. Medium when ok is false.
//	bool  - True if the label named a valid tier.
func Parse(label string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "EASY":
		return Easy, true
	case "MEDIUM":
		return Medium, true
	case "HARD":
		return Hard, true
	default:
		return Medium, false
	}
}

// Levels returns the three tiers in ascending order of difficulty.
// The order is stable and used for class ordering in trained models.
func Levels() []Level {
	return []Level{Easy, Medium, Hard}
}
