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
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// ErrNotFitted is returned when Transform is called before Fit (or
// before the vectorizer was deserialized from a fitted artifact).
var ErrNotFitted = errors.New("vectorizer has not been fitted")

// ErrEmptyCorpus is returned when Fit is called with no documents or
// when filtering leaves an empty vocabulary.
var ErrEmptyCorpus = errors.New("no terms survived vocabulary filtering")

// vectorizerTokenRe matches terms of two or more word characters,
// applied to the lowercased document.
var vectorizerTokenRe = regexp.MustCompile(`[a-z0-9_]{2,}`)

// =============================================================================
// Vectorizer
// =============================================================================

// Vectorizer converts documents into dense TF-IDF vectors over a
// vocabulary of 1-3 grams.
//
// The vocabulary is fitted once, during training, on the full corpus.
// Inference only transforms with the already-fitted vocabulary; the
// dimensionality and term order of a fitted instance never change.
// A Vectorizer round-trips through JSON, which is how model artifacts
// carry it between the training pipeline and the serving classifier.
//
// # Thread Safety
//
// A fitted Vectorizer is immutable and safe for concurrent Transform
// calls. Fit must not run concurrently with anything else.
type Vectorizer struct {
	// NGramMin and NGramMax bound the n-gram sizes (inclusive).
	NGramMin int `json:"ngram_min"`
	NGramMax int `json:"ngram_max"`

	// MaxFeatures caps the vocabulary size. When filtering leaves more
	// terms, the most frequent ones across the corpus are kept.
	MaxFeatures int `json:"max_features"`

	// MinDocCount drops terms appearing in fewer documents.
	MinDocCount int `json:"min_doc_count"`

	// MaxDocRatio drops terms appearing in more than this fraction of
	// documents.
	MaxDocRatio float64 `json:"max_doc_ratio"`

	// Vocabulary maps each retained term to its vector index.
	// Nil until fitted.
	Vocabulary map[string]int `json:"vocabulary"`

	// IDF holds the inverse document frequency per vocabulary index.
	IDF []float64 `json:"idf"`
}

// NewVectorizer returns an unfitted vectorizer with the standard
// configuration: 1-3 grams, vocabulary capped at 5000 terms, terms
// required in at least 2 and at most 95% of documents.
func NewVectorizer() *Vectorizer {
	return &Vectorizer{
		NGramMin:    1,
		NGramMax:    3,
		MaxFeatures: 5000,
		MinDocCount: 2,
		MaxDocRatio: 0.95,
	}
}

// Fitted reports whether the vectorizer has a vocabulary.
func (v *Vectorizer) Fitted() bool {
	return v.Vocabulary != nil
}

// Dimensions returns the length of vectors produced by Transform.
func (v *Vectorizer) Dimensions() int {
	return len(v.Vocabulary)
}

// terms produces the lowercased, stop-word-filtered n-grams of a
// document. N-grams are formed after stop-word removal, matching the
// behavior models were trained against.
func (v *Vectorizer) terms(doc string) []string {
	raw := vectorizerTokenRe.FindAllString(strings.ToLower(doc), -1)
	tokens := raw[:0]
	for _, token := range raw {
		if _, stop := stopWords[token]; !stop {
			tokens = append(tokens, token)
		}
	}

	var out []string
	for n := v.NGramMin; n <= v.NGramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

// Fit learns the vocabulary and IDF weights from a corpus.
//
// Inputs:
//
//	docs - Training documents. Must be non-empty.
//
// Outputs:
//
//	error - ErrEmptyCorpus if no terms survive frequency filtering.
func (v *Vectorizer) Fit(docs []string) error {
	if len(docs) == 0 {
		return fmt.Errorf("fit vectorizer: %w", ErrEmptyCorpus)
	}

	docFreq := make(map[string]int)
	termFreq := make(map[string]int)
	for _, doc := range docs {
		terms := v.terms(doc)
		seen := make(map[string]struct{}, len(terms))
		for _, term := range terms {
			termFreq[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				docFreq[term]++
			}
		}
	}

	maxDocs := int(v.MaxDocRatio * float64(len(docs)))
	var kept []string
	for term, df := range docFreq {
		if df < v.MinDocCount {
			continue
		}
		if maxDocs > 0 && df > maxDocs {
			continue
		}
		kept = append(kept, term)
	}
	if len(kept) == 0 {
		return fmt.Errorf("fit vectorizer on %d docs: %w", len(docs), ErrEmptyCorpus)
	}

	// Cap at MaxFeatures, keeping the most frequent terms. Ties break
	// alphabetically so fitting is deterministic.
	if v.MaxFeatures > 0 && len(kept) > v.MaxFeatures {
		sort.Slice(kept, func(i, j int) bool {
			if termFreq[kept[i]] != termFreq[kept[j]] {
				return termFreq[kept[i]] > termFreq[kept[j]]
			}
			return kept[i] < kept[j]
		})
		kept = kept[:v.MaxFeatures]
	}
	sort.Strings(kept)

	v.Vocabulary = make(map[string]int, len(kept))
	v.IDF = make([]float64, len(kept))
	n := float64(len(docs))
	for i, term := range kept {
		v.Vocabulary[term] = i
		// Smoothed IDF: pretend one extra document contains every term.
		v.IDF[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}
	return nil
}

// Transform converts one document into its dense TF-IDF vector.
//
// Inputs:
//
//	doc - The document to vectorize.
//
// Outputs:
//
//	[]float64 - L2-normalized TF-IDF vector of length Dimensions().
//	error     - ErrNotFitted when no vocabulary is loaded.
func (v *Vectorizer) Transform(doc string) ([]float64, error) {
	if !v.Fitted() {
		return nil, ErrNotFitted
	}

	vec := make([]float64, len(v.Vocabulary))
	for _, term := range v.terms(doc) {
		if idx, ok := v.Vocabulary[term]; ok {
			vec[idx]++
		}
	}

	var norm float64
	for i := range vec {
		vec[i] *= v.IDF[i]
		norm += vec[i] * vec[i]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

// Marshal serializes the fitted vectorizer for artifact storage.
func (v *Vectorizer) Marshal() ([]byte, error) {
	if !v.Fitted() {
		return nil, ErrNotFitted
	}
	return json.Marshal(v)
}

// UnmarshalVectorizer restores a vectorizer from artifact bytes.
func UnmarshalVectorizer(data []byte) (*Vectorizer, error) {
	var v Vectorizer
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("unmarshal vectorizer: %w", err)
	}
	if !v.Fitted() {
		return nil, fmt.Errorf("unmarshal vectorizer: %w", ErrNotFitted)
	}
	if len(v.IDF) != len(v.Vocabulary) {
		return nil, fmt.Errorf("unmarshal vectorizer: idf length %d does not match vocabulary size %d",
			len(v.IDF), len(v.Vocabulary))
	}
	return &v, nil
}
