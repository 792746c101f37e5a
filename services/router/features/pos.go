// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package features

import "strings"

// Lexicon-driven part-of-speech heuristics.
//
// The POS-complexity feature needs only two signals: whether a token is
// a verb and whether it is a conjunction or preposition. Conjunctions
// and prepositions are closed word classes, so exact lexicons cover
// them. Verbs are open-class; a frequent-verb lexicon plus inflection
// suffix rules approximates them. The tagger must stay deterministic,
// since its output feeds both the scorer and trained model features.

// isConjunctionOrPreposition reports whether the token belongs to the
// CC or IN closed classes.
func isConjunctionOrPreposition(token string) bool {
	lower := strings.ToLower(token)
	if _, ok := coordinatingConjunctions[lower]; ok {
		return true
	}
	_, ok := prepositions[lower]
	return ok
}

// verbSuffixes catch inflected forms absent from the lexicon.
// Only applied to tokens long enough that the suffix is a true
// inflection rather than the whole word ("sing" is not "-ing").
var verbSuffixes = []string{"ing", "ed", "ize", "ise", "ify"}

// isLikelyVerb reports whether the token is probably a verb form.
func isLikelyVerb(token string) bool {
	lower := strings.ToLower(token)
	if _, ok := commonVerbs[lower]; ok {
		return true
	}
	// Closed-class words never double as verbs here.
	if isConjunctionOrPreposition(lower) {
		return false
	}
	for _, suffix := range verbSuffixes {
		if len(lower) >= len(suffix)+3 && strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// complexPOSRatio computes (verbs + conjunctions + prepositions) over
// total tokens. Returns 0 for an empty token list.
func complexPOSRatio(tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	count := 0
	for _, token := range tokens {
		if isLikelyVerb(token) || isConjunctionOrPreposition(token) {
			count++
		}
	}
	return float64(count) / float64(len(tokens))
}
