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
	"fmt"
	"math"
	"sort"

	"github.com/AleutianAI/intelrouter/services/router/difficulty"
)

// Sentinel errors for model training and loading.
var (
	// ErrModelNotTrained is returned when prediction is attempted on a
	// model without fitted weights.
	ErrModelNotTrained = errors.New("model has not been trained")

	// ErrTrainingData is returned when the training inputs are unusable
	// (empty, mismatched lengths, or a single class).
	ErrTrainingData = errors.New("invalid training data")
)

// TrainConfig controls the gradient-descent fit.
type TrainConfig struct {
	// Iterations is the number of full-batch gradient steps.
	Iterations int

	// LearningRate is the gradient step size.
	LearningRate float64

	// L2 is the ridge penalty applied to weights (not intercepts).
	L2 float64
}

// DefaultTrainConfig returns the standard training configuration.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{Iterations: 400, LearningRate: 0.5, L2: 1e-4}
}

// Model is a multinomial logistic-regression classifier over combined
// feature vectors.
//
// Features are standardized internally: Fit records per-feature means
// and scales so inference applies the identical transform. Training is
// deterministic (zero initialization, full-batch descent), so the same
// inputs always produce the same weights.
//
// A fitted Model is immutable and safe for unlimited concurrent
// PredictProba calls.
type Model struct {
	// Classes holds the class labels in training order (ascending
	// difficulty). Probabilities from PredictProba align with this.
	Classes []string `json:"classes"`

	// Means and Scales standardize each input feature.
	Means  []float64 `json:"means"`
	Scales []float64 `json:"scales"`

	// Weights is one row of coefficients per class over the
	// standardized features. Intercepts is one bias per class.
	Weights    [][]float64 `json:"weights"`
	Intercepts []float64   `json:"intercepts"`
}

// Trained reports whether the model has fitted weights.
func (m *Model) Trained() bool {
	return len(m.Weights) > 0
}

// Fit trains the model on feature matrix x and labels y.
//
// Inputs:
//
//	x   - One feature vector per sample; all rows the same length.
//	y   - One label per row of x. At least two distinct classes.
//	cfg - Gradient-descent settings.
//
// Outputs:
//
//	error - ErrTrainingData for unusable inputs.
func (m *Model) Fit(x [][]float64, y []difficulty.Level, cfg TrainConfig) error {
	if len(x) == 0 || len(x) != len(y) {
		return fmt.Errorf("fit: %d samples, %d labels: %w", len(x), len(y), ErrTrainingData)
	}
	numFeatures := len(x[0])
	for i, row := range x {
		if len(row) != numFeatures {
			return fmt.Errorf("fit: row %d has %d features, want %d: %w",
				i, len(row), numFeatures, ErrTrainingData)
		}
	}

	classes := classLabels(y)
	if len(classes) < 2 {
		return fmt.Errorf("fit: need at least two classes, got %d: %w", len(classes), ErrTrainingData)
	}
	classIndex := make(map[difficulty.Level]int, len(classes))
	for i, c := range classes {
		classIndex[c] = i
	}

	m.Classes = make([]string, len(classes))
	for i, c := range classes {
		m.Classes[i] = c.String()
	}

	m.fitScaler(x)
	scaled := make([][]float64, len(x))
	for i, row := range x {
		scaled[i] = m.scale(row)
	}

	numClasses := len(classes)
	m.Weights = make([][]float64, numClasses)
	for c := range m.Weights {
		m.Weights[c] = make([]float64, numFeatures)
	}
	m.Intercepts = make([]float64, numClasses)

	n := float64(len(scaled))
	gradW := make([][]float64, numClasses)
	for c := range gradW {
		gradW[c] = make([]float64, numFeatures)
	}
	gradB := make([]float64, numClasses)

	for iter := 0; iter < cfg.Iterations; iter++ {
		for c := range gradW {
			for f := range gradW[c] {
				gradW[c][f] = 0
			}
			gradB[c] = 0
		}

		for i, row := range scaled {
			probs := m.logits(row)
			softmaxInPlace(probs)
			target := classIndex[y[i]]
			for c := range probs {
				diff := probs[c]
				if c == target {
					diff -= 1
				}
				for f, v := range row {
					gradW[c][f] += diff * v
				}
				gradB[c] += diff
			}
		}

		for c := range m.Weights {
			for f := range m.Weights[c] {
				grad := gradW[c][f]/n + cfg.L2*m.Weights[c][f]
				m.Weights[c][f] -= cfg.LearningRate * grad
			}
			m.Intercepts[c] -= cfg.LearningRate * gradB[c] / n
		}
	}
	return nil
}

// PredictProba returns class probabilities for one feature vector,
// aligned with Classes.
func (m *Model) PredictProba(x []float64) ([]float64, error) {
	if !m.Trained() {
		return nil, ErrModelNotTrained
	}
	if len(x) != len(m.Means) {
		return nil, fmt.Errorf("predict: vector has %d features, model expects %d",
			len(x), len(m.Means))
	}
	probs := m.logits(m.scale(x))
	softmaxInPlace(probs)
	return probs, nil
}

// fitScaler records per-feature means and scales. Constant features
// get scale 1 so standardization never divides by zero.
func (m *Model) fitScaler(x [][]float64) {
	numFeatures := len(x[0])
	n := float64(len(x))

	m.Means = make([]float64, numFeatures)
	for _, row := range x {
		for f, v := range row {
			m.Means[f] += v
		}
	}
	for f := range m.Means {
		m.Means[f] /= n
	}

	m.Scales = make([]float64, numFeatures)
	for _, row := range x {
		for f, v := range row {
			d := v - m.Means[f]
			m.Scales[f] += d * d
		}
	}
	for f := range m.Scales {
		m.Scales[f] = math.Sqrt(m.Scales[f] / n)
		if m.Scales[f] == 0 {
			m.Scales[f] = 1
		}
	}
}

// scale standardizes one feature vector.
func (m *Model) scale(x []float64) []float64 {
	out := make([]float64, len(x))
	for f, v := range x {
		out[f] = (v - m.Means[f]) / m.Scales[f]
	}
	return out
}

// logits computes the pre-softmax class scores for a standardized
// vector.
func (m *Model) logits(scaled []float64) []float64 {
	out := make([]float64, len(m.Weights))
	for c, w := range m.Weights {
		z := m.Intercepts[c]
		for f, v := range scaled {
			z += w[f] * v
		}
		out[c] = z
	}
	return out
}

// softmaxInPlace converts logits to probabilities, shifting by the max
// for numerical stability.
func softmaxInPlace(z []float64) {
	max := z[0]
	for _, v := range z[1:] {
		if v > max {
			max = v
		}
	}
	var sum float64
	for i, v := range z {
		z[i] = math.Exp(v - max)
		sum += z[i]
	}
	for i := range z {
		z[i] /= sum
	}
}

// classLabels returns the distinct labels of y in ascending difficulty
// order.
func classLabels(y []difficulty.Level) []difficulty.Level {
	seen := make(map[difficulty.Level]struct{})
	var classes []difficulty.Level
	for _, label := range y {
		if _, ok := seen[label]; !ok {
			seen[label] = struct{}{}
			classes = append(classes, label)
		}
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })
	return classes
}

// Marshal serializes the fitted model for artifact storage.
func (m *Model) Marshal() ([]byte, error) {
	if !m.Trained() {
		return nil, ErrModelNotTrained
	}
	return json.Marshal(m)
}

// UnmarshalModel restores a model from artifact bytes.
//
// The field shapes are cross-checked so a corrupted artifact fails
// here, at load time, rather than panicking inside PredictProba on the
// serving path.
func UnmarshalModel(data []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal model: %w", err)
	}
	if !m.Trained() {
		return nil, fmt.Errorf("unmarshal model: %w", ErrModelNotTrained)
	}
	if len(m.Classes) != len(m.Weights) || len(m.Intercepts) != len(m.Weights) {
		return nil, fmt.Errorf("unmarshal model: %d classes, %d weight rows, %d intercepts",
			len(m.Classes), len(m.Weights), len(m.Intercepts))
	}
	if len(m.Scales) != len(m.Means) {
		return nil, fmt.Errorf("unmarshal model: %d scales for %d means",
			len(m.Scales), len(m.Means))
	}
	for c, row := range m.Weights {
		if len(row) != len(m.Means) {
			return nil, fmt.Errorf("unmarshal model: class %d has %d coefficients, want %d",
				c, len(row), len(m.Means))
		}
	}
	return &m, nil
}
