// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package training

import (
	"math/rand"
	"sort"

	"github.com/AleutianAI/intelrouter/services/router/difficulty"
)

// splitSeed fixes the shuffle used by StratifiedSplit so repeated runs
// over the same data produce the same partition.
const splitSeed = 42

// Metrics summarizes classifier quality on one evaluation set.
type Metrics struct {
	// Accuracy is the fraction of correct predictions.
	Accuracy float64

	// F1 is the support-weighted mean of per-class F1 scores.
	F1 float64

	// Samples is the evaluation set size.
	Samples int
}

// StratifiedSplit partitions examples into train and test sets,
// holding out testSize of each class.
//
// The shuffle is seeded, so the split is deterministic for a given
// input order. Classes too small to contribute a test example stay
// entirely in the training set.
func StratifiedSplit(examples []Example, testSize float64) (train, test []Example) {
	byClass := make(map[difficulty.Level][]int)
	for i, ex := range examples {
		byClass[ex.Label] = append(byClass[ex.Label], i)
	}

	classes := make([]difficulty.Level, 0, len(byClass))
	for class := range byClass {
		classes = append(classes, class)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })

	rng := rand.New(rand.NewSource(splitSeed))
	for _, class := range classes {
		indices := byClass[class]
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
		holdout := int(float64(len(indices)) * testSize)
		for i, idx := range indices {
			if i < holdout {
				test = append(test, examples[idx])
			} else {
				train = append(train, examples[idx])
			}
		}
	}
	return train, test
}

// Evaluate computes accuracy and weighted F1 for predictions against
// truth labels. Both slices must be the same length.
func Evaluate(predicted, truth []difficulty.Level) Metrics {
	if len(truth) == 0 {
		return Metrics{}
	}

	correct := 0
	truePos := make(map[difficulty.Level]int)
	falsePos := make(map[difficulty.Level]int)
	falseNeg := make(map[difficulty.Level]int)
	support := make(map[difficulty.Level]int)

	for i, want := range truth {
		got := predicted[i]
		support[want]++
		if got == want {
			correct++
			truePos[want]++
		} else {
			falsePos[got]++
			falseNeg[want]++
		}
	}

	var weightedF1 float64
	for class, n := range support {
		tp := float64(truePos[class])
		fp := float64(falsePos[class])
		fn := float64(falseNeg[class])

		var precision, recall float64
		if tp+fp > 0 {
			precision = tp / (tp + fp)
		}
		if tp+fn > 0 {
			recall = tp / (tp + fn)
		}
		var f1 float64
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}
		weightedF1 += f1 * float64(n) / float64(len(truth))
	}

	return Metrics{
		Accuracy: float64(correct) / float64(len(truth)),
		F1:       weightedF1,
		Samples:  len(truth),
	}
}
