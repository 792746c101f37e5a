// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package registry

import "time"

// Metadata describes one trained model version.
type Metadata struct {
	// Version is the timestamp-derived version id (e.g. "v20250829_143000").
	Version string `json:"version"`

	// Accuracy and F1Score are the held-out evaluation metrics recorded
	// at training time. The regression guard compares against these.
	Accuracy float64 `json:"accuracy"`
	F1Score  float64 `json:"f1_score"`

	// ConfidenceThreshold is the minimum class probability below which
	// this model's predictions are treated as UNCERTAIN.
	ConfidenceThreshold float64 `json:"confidence_threshold"`

	// TrainingTimestamp is when the training run producing this version
	// started (UTC).
	TrainingTimestamp time.Time `json:"training_timestamp"`

	// IsActive marks the single version used for serving.
	IsActive bool `json:"is_active"`

	// CreatedAt is when the metadata row was written (UTC).
	CreatedAt time.Time `json:"created_at"`

	// Metrics is the raw metrics blob: full and recent-window accuracy,
	// F1, and sample counts.
	Metrics map[string]float64 `json:"metrics,omitempty"`
}
