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
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/AleutianAI/intelrouter/services/router/difficulty"
)

func TestEvaluate_Perfect(t *testing.T) {
	truth := []difficulty.Level{difficulty.Easy, difficulty.Medium, difficulty.Hard}
	m := Evaluate(truth, truth)
	if m.Accuracy != 1 || m.F1 != 1 || m.Samples != 3 {
		t.Errorf("Evaluate(perfect) = %+v, want accuracy 1, f1 1, samples 3", m)
	}
}

func TestEvaluate_KnownConfusion(t *testing.T) {
	truth := []difficulty.Level{
		difficulty.Easy, difficulty.Easy, difficulty.Easy,
		difficulty.Medium, difficulty.Medium,
		difficulty.Hard,
	}
	predicted := []difficulty.Level{
		difficulty.Easy, difficulty.Easy, difficulty.Medium,
		difficulty.Medium, difficulty.Medium,
		difficulty.Hard,
	}

	m := Evaluate(predicted, truth)
	// EASY: p=1, r=2/3, f1=0.8. MEDIUM: p=2/3, r=1, f1=0.8.
	// HARD: f1=1. Weighted: (0.8*3 + 0.8*2 + 1*1)/6 = 5/6.
	if math.Abs(m.Accuracy-5.0/6.0) > 1e-12 {
		t.Errorf("Accuracy = %f, want %f", m.Accuracy, 5.0/6.0)
	}
	if math.Abs(m.F1-5.0/6.0) > 1e-12 {
		t.Errorf("F1 = %f, want %f", m.F1, 5.0/6.0)
	}
}

func TestEvaluate_Empty(t *testing.T) {
	m := Evaluate(nil, nil)
	if m.Accuracy != 0 || m.F1 != 0 || m.Samples != 0 {
		t.Errorf("Evaluate(empty) = %+v, want zero metrics", m)
	}
}

func TestStratifiedSplit_Proportions(t *testing.T) {
	var examples []Example
	for i := 0; i < 50; i++ {
		examples = append(examples, Example{Query: "easy", Label: difficulty.Easy, CreatedAt: time.Now()})
	}
	for i := 0; i < 30; i++ {
		examples = append(examples, Example{Query: "hard", Label: difficulty.Hard, CreatedAt: time.Now()})
	}

	train, test := StratifiedSplit(examples, 0.2)
	if len(train)+len(test) != len(examples) {
		t.Fatalf("split lost examples: %d + %d != %d", len(train), len(test), len(examples))
	}

	count := func(set []Example, label difficulty.Level) int {
		n := 0
		for _, ex := range set {
			if ex.Label == label {
				n++
			}
		}
		return n
	}
	if got := count(test, difficulty.Easy); got != 10 {
		t.Errorf("test EASY count = %d, want 10", got)
	}
	if got := count(test, difficulty.Hard); got != 6 {
		t.Errorf("test HARD count = %d, want 6", got)
	}
}

func TestStratifiedSplit_Deterministic(t *testing.T) {
	var examples []Example
	for i := 0; i < 40; i++ {
		label := difficulty.Easy
		if i%2 == 0 {
			label = difficulty.Hard
		}
		examples = append(examples, Example{Query: string(rune('a' + i)), Label: label})
	}

	train1, test1 := StratifiedSplit(examples, 0.25)
	train2, test2 := StratifiedSplit(examples, 0.25)
	if !reflect.DeepEqual(train1, train2) || !reflect.DeepEqual(test1, test2) {
		t.Error("two splits of identical data differ")
	}
}

func TestStratifiedSplit_TinyClassStaysInTrain(t *testing.T) {
	examples := []Example{
		{Query: "a", Label: difficulty.Easy},
		{Query: "b", Label: difficulty.Easy},
		{Query: "c", Label: difficulty.Easy},
		{Query: "d", Label: difficulty.Hard},
	}
	train, test := StratifiedSplit(examples, 0.2)
	for _, ex := range test {
		if ex.Label == difficulty.Hard {
			t.Error("single-example class leaked into the test set")
		}
	}
	if len(train)+len(test) != 4 {
		t.Errorf("split lost examples: %d + %d != 4", len(train), len(test))
	}
}
