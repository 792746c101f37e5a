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
	"strings"
	"unicode"
)

// Words splits text into tokens. Runs of letters, digits, apostrophes,
// and internal hyphens form word tokens; every other non-space rune is
// emitted as its own punctuation token. "don't" is one token,
// "f(x)=2" is four.
func Words(text string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '-':
			current.WriteRune(r)
		case unicode.IsSpace(r):
			flush()
		default:
			flush()
			tokens = append(tokens, string(r))
		}
	}
	flush()
	return tokens
}

// Sentences splits text on terminal punctuation (".", "!", "?").
// Consecutive terminators count once, so "Really?!" is one sentence.
// Text without a terminator is a single sentence. Returns nil for
// blank input.
func Sentences(text string) []string {
	var sentences []string
	var current strings.Builder
	inTerminator := false

	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			current.WriteRune(r)
			inTerminator = true
			continue
		}
		if inTerminator {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
			inTerminator = false
		}
		current.WriteRune(r)
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
