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

import (
	"regexp"
	"strings"
	"unicode"
)

// NumStatistics is the number of hand-crafted text statistics. The
// statistics occupy the first NumStatistics positions of every combined
// feature vector, in the order defined by Statistics.Vector.
const NumStatistics = 13

var (
	codePunctuationRe = regexp.MustCompile(`[{}();=]`)
	bracketRe         = regexp.MustCompile(`[\[\](){}]`)
)

// Statistics holds the hand-crafted text statistics for one query.
//
// Feature order is a compatibility contract: trained models index into
// the combined vector by position, so fields must keep their place in
// Vector() for the lifetime of any persisted model version.
type Statistics struct {
	// QueryLength is the character count of the raw query.
	QueryLength float64

	// WordCount is the token count, punctuation tokens included.
	WordCount float64

	// SentenceCount is the number of sentences.
	SentenceCount float64

	// ComplexPOSRatio is (verbs + conjunctions + prepositions) / tokens.
	ComplexPOSRatio float64

	// ReasoningRatio is matched reasoning keywords / catalogue size.
	ReasoningRatio float64

	// SystemDesignRatio is matched system-design keywords / catalogue size.
	SystemDesignRatio float64

	// CodeRatio is matched code indicators / catalogue size.
	CodeRatio float64

	// QuestionCount is the number of distinct question words present.
	QuestionCount float64

	// HasMultipleQuestions is 1 when the query has more than one "?".
	HasMultipleQuestions float64

	// HasCodePunctuation is 1 when the query contains {}();= characters.
	HasCodePunctuation float64

	// HasBrackets is 1 when the query contains any bracket character.
	HasBrackets float64

	// UppercaseRatio is uppercase characters / total characters.
	UppercaseRatio float64

	// DigitRatio is digit characters / total characters.
	DigitRatio float64
}

// Vector returns the statistics in their fixed feature order.
func (s Statistics) Vector() []float64 {
	return []float64{
		s.QueryLength,
		s.WordCount,
		s.SentenceCount,
		s.ComplexPOSRatio,
		s.ReasoningRatio,
		s.SystemDesignRatio,
		s.CodeRatio,
		s.QuestionCount,
		s.HasMultipleQuestions,
		s.HasCodePunctuation,
		s.HasBrackets,
		s.UppercaseRatio,
		s.DigitRatio,
	}
}

// NeutralStatistics is the degraded default returned when extraction
// fails. All-zero, which downstream consumers treat as "no signal".
func NeutralStatistics() Statistics {
	return Statistics{}
}

// ExtractStatistics computes the 13 text statistics for a query.
//
// Extraction never fails outward: it sits on the request hot path, so
// any panic from tokenization degrades to NeutralStatistics instead of
// propagating.
//
// Inputs:
//
//	query - Raw query text. May be empty.
//
// Outputs:
//
//	Statistics - The computed (or neutral) statistics.
func ExtractStatistics(query string) (stats Statistics) {
	defer func() {
		if r := recover(); r != nil {
			stats = NeutralStatistics()
		}
	}()

	lower := strings.ToLower(query)
	tokens := Words(query)
	runeCount := len([]rune(query))

	stats.QueryLength = float64(runeCount)
	stats.WordCount = float64(len(tokens))
	stats.SentenceCount = float64(len(Sentences(query)))
	stats.ComplexPOSRatio = complexPOSRatio(tokens)

	stats.ReasoningRatio = catalogueRatio(lower, ReasoningKeywords)
	stats.SystemDesignRatio = catalogueRatio(lower, SystemDesignKeywords)
	stats.CodeRatio = catalogueRatio(lower, CodeIndicators)

	for _, word := range questionWords {
		if strings.Contains(lower, word) {
			stats.QuestionCount++
		}
	}
	if strings.Count(query, "?") > 1 {
		stats.HasMultipleQuestions = 1
	}
	if codePunctuationRe.MatchString(query) {
		stats.HasCodePunctuation = 1
	}
	if bracketRe.MatchString(query) {
		stats.HasBrackets = 1
	}

	if runeCount > 0 {
		var upper, digit int
		for _, r := range query {
			if unicode.IsUpper(r) {
				upper++
			}
			if unicode.IsDigit(r) {
				digit++
			}
		}
		stats.UppercaseRatio = float64(upper) / float64(runeCount)
		stats.DigitRatio = float64(digit) / float64(runeCount)
	}

	return stats
}

// catalogueRatio counts catalogue entries appearing in the lowercased
// query and divides by the catalogue size, not the query length.
func catalogueRatio(lowerQuery string, catalogue []string) float64 {
	if len(catalogue) == 0 {
		return 0
	}
	matches := 0
	for _, keyword := range catalogue {
		if strings.Contains(lowerQuery, keyword) {
			matches++
		}
	}
	return float64(matches) / float64(len(catalogue))
}
