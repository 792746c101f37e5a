// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package features turns raw query text into fixed-length numeric
// feature vectors shared by the algorithmic scorer, the statistical
// classifier, and the training pipeline.
//
// A combined vector is the 13 hand-crafted text statistics followed by
// the dense TF-IDF vector of a fitted Vectorizer. Dimensionality and
// feature order are identical between training and inference for a
// given vectorizer instance; that parity is the package's central
// invariant.
package features

// Extractor produces combined feature vectors using one fitted
// vectorizer instance. The zero vectorizer case is intentional: an
// Extractor without a vectorizer yields statistics-only vectors, which
// the scorer (the only statistics consumer) is unaffected by.
//
// # Thread Safety
//
// Extractor is immutable after construction and safe for concurrent use.
type Extractor struct {
	vectorizer *Vectorizer
}

// NewExtractor creates an Extractor bound to a fitted vectorizer.
//
// Inputs:
//
//	vectorizer - The fitted vectorizer to transform with. May be nil
//	             for statistics-only extraction.
func NewExtractor(vectorizer *Vectorizer) *Extractor {
	return &Extractor{vectorizer: vectorizer}
}

// Dimensions returns the length of vectors produced by Extract.
func (e *Extractor) Dimensions() int {
	if e.vectorizer == nil {
		return NumStatistics
	}
	return NumStatistics + e.vectorizer.Dimensions()
}

// Extract builds the combined feature vector for a query.
//
// A transform failure yields a zero TF-IDF block rather than an
// error; callers sit on the request hot path and always receive a
// vector of the expected dimensionality.
//
// Inputs:
//
//	query - Raw query text.
//
// Outputs:
//
//	[]float64 - Statistics followed by the TF-IDF block, length
//	            Dimensions().
func (e *Extractor) Extract(query string) []float64 {
	vec := make([]float64, 0, e.Dimensions())
	vec = append(vec, ExtractStatistics(query).Vector()...)

	if e.vectorizer != nil {
		tfidf, err := e.vectorizer.Transform(query)
		if err != nil {
			tfidf = make([]float64, e.vectorizer.Dimensions())
		}
		vec = append(vec, tfidf...)
	}
	return vec
}
