// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package classifier

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/AleutianAI/intelrouter/services/router/difficulty"
)

// syntheticData returns three well-separated 2D clusters, one per
// difficulty level.
func syntheticData() ([][]float64, []difficulty.Level) {
	var x [][]float64
	var y []difficulty.Level
	for i := 0; i < 20; i++ {
		jitter := float64(i%5) * 0.1
		x = append(x, []float64{0 + jitter, 0 + jitter})
		y = append(y, difficulty.Easy)
		x = append(x, []float64{5 + jitter, 0 - jitter})
		y = append(y, difficulty.Medium)
		x = append(x, []float64{0 - jitter, 5 + jitter})
		y = append(y, difficulty.Hard)
	}
	return x, y
}

func TestModel_FitAndPredict(t *testing.T) {
	x, y := syntheticData()
	var m Model
	if err := m.Fit(x, y, DefaultTrainConfig()); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	want := []string{"EASY", "MEDIUM", "HARD"}
	if !reflect.DeepEqual(m.Classes, want) {
		t.Fatalf("Classes = %v, want %v", m.Classes, want)
	}

	tests := []struct {
		point []float64
		want  int
	}{
		{[]float64{0.1, 0.1}, 0},
		{[]float64{5.2, -0.1}, 1},
		{[]float64{-0.2, 5.1}, 2},
	}
	for _, tt := range tests {
		probs, err := m.PredictProba(tt.point)
		if err != nil {
			t.Fatalf("PredictProba(%v): %v", tt.point, err)
		}
		var sum float64
		best := 0
		for i, p := range probs {
			sum += p
			if p > probs[best] {
				best = i
			}
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("probabilities for %v sum to %f, want 1", tt.point, sum)
		}
		if best != tt.want {
			t.Errorf("argmax for %v = %s, want %s", tt.point, m.Classes[best], m.Classes[tt.want])
		}
	}
}

func TestModel_Deterministic(t *testing.T) {
	x, y := syntheticData()

	var a, b Model
	if err := a.Fit(x, y, DefaultTrainConfig()); err != nil {
		t.Fatalf("first Fit: %v", err)
	}
	if err := b.Fit(x, y, DefaultTrainConfig()); err != nil {
		t.Fatalf("second Fit: %v", err)
	}
	if !reflect.DeepEqual(a.Weights, b.Weights) {
		t.Error("two fits on identical data produced different weights")
	}
	if !reflect.DeepEqual(a.Intercepts, b.Intercepts) {
		t.Error("two fits on identical data produced different intercepts")
	}
}

func TestModel_FitErrors(t *testing.T) {
	tests := []struct {
		name string
		x    [][]float64
		y    []difficulty.Level
	}{
		{"empty", nil, nil},
		{
			"length mismatch",
			[][]float64{{1, 2}, {3, 4}},
			[]difficulty.Level{difficulty.Easy},
		},
		{
			"ragged rows",
			[][]float64{{1, 2}, {3}},
			[]difficulty.Level{difficulty.Easy, difficulty.Hard},
		},
		{
			"single class",
			[][]float64{{1, 2}, {3, 4}},
			[]difficulty.Level{difficulty.Easy, difficulty.Easy},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Model
			err := m.Fit(tt.x, tt.y, DefaultTrainConfig())
			if !errors.Is(err, ErrTrainingData) {
				t.Errorf("Fit: err = %v, want ErrTrainingData", err)
			}
		})
	}
}

func TestModel_PredictBeforeFit(t *testing.T) {
	var m Model
	if _, err := m.PredictProba([]float64{1}); !errors.Is(err, ErrModelNotTrained) {
		t.Errorf("PredictProba: err = %v, want ErrModelNotTrained", err)
	}
}

func TestModel_PredictDimensionMismatch(t *testing.T) {
	x, y := syntheticData()
	var m Model
	if err := m.Fit(x, y, DefaultTrainConfig()); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if _, err := m.PredictProba([]float64{1, 2, 3}); err == nil {
		t.Error("PredictProba with wrong dimensionality: err = nil, want error")
	}
}

func TestModel_MarshalRoundTrip(t *testing.T) {
	x, y := syntheticData()
	var m Model
	if err := m.Fit(x, y, DefaultTrainConfig()); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	data, err := m.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	restored, err := UnmarshalModel(data)
	if err != nil {
		t.Fatalf("UnmarshalModel: %v", err)
	}

	point := []float64{5.0, 0.2}
	orig, err := m.PredictProba(point)
	if err != nil {
		t.Fatalf("PredictProba original: %v", err)
	}
	back, err := restored.PredictProba(point)
	if err != nil {
		t.Fatalf("PredictProba restored: %v", err)
	}
	for i := range orig {
		if math.Abs(orig[i]-back[i]) > 1e-12 {
			t.Fatalf("probabilities diverge after round trip: %v vs %v", orig, back)
		}
	}
}

func TestUnmarshalModel_Invalid(t *testing.T) {
	if _, err := UnmarshalModel([]byte("not json")); err == nil {
		t.Error("UnmarshalModel(garbage): err = nil, want error")
	}
	if _, err := UnmarshalModel([]byte("{}")); !errors.Is(err, ErrModelNotTrained) {
		t.Errorf("UnmarshalModel(empty): err = %v, want ErrModelNotTrained", err)
	}
}

func TestUnmarshalModel_InconsistentShapeRejected(t *testing.T) {
	x, y := syntheticData()
	var m Model
	if err := m.Fit(x, y, DefaultTrainConfig()); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	// Each mangled artifact is shaped so PredictProba's own length check
	// would pass; the unmarshal validation has to catch it.
	tests := []struct {
		name   string
		mangle func(c Model) Model
	}{
		{"truncated weight row", func(c Model) Model {
			c.Weights = append([][]float64(nil), c.Weights...)
			c.Weights[0] = c.Weights[0][:1]
			return c
		}},
		{"missing intercept", func(c Model) Model {
			c.Intercepts = c.Intercepts[:1]
			return c
		}},
		{"extra class label", func(c Model) Model {
			c.Classes = append(append([]string(nil), c.Classes...), "EXTREME")
			return c
		}},
		{"scales shorter than means", func(c Model) Model {
			c.Scales = c.Scales[:1]
			return c
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.mangle(m))
			if err != nil {
				t.Fatalf("marshal mangled model: %v", err)
			}
			if _, err := UnmarshalModel(data); err == nil {
				t.Error("UnmarshalModel accepted an inconsistent artifact")
			}
		})
	}
}
