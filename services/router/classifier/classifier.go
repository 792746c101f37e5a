// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package classifier serves difficulty predictions from the active
// registry model.
//
// A Classifier holds an immutable snapshot (model, vectorizer,
// threshold) behind an atomic pointer. Reload swaps the snapshot
// wholesale, so Predict never observes a half-loaded model and never
// takes a lock on the serving path.
package classifier

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/AleutianAI/intelrouter/pkg/logging"
	"github.com/AleutianAI/intelrouter/services/router/difficulty"
	"github.com/AleutianAI/intelrouter/services/router/features"
	"github.com/AleutianAI/intelrouter/services/router/registry"
)

// DefaultConfidenceThreshold is the minimum winning-class probability
// required before a prediction is trusted.
const DefaultConfidenceThreshold = 0.6

// Degraded-prediction reasons.
const (
	ReasonNoModel         = "no_model"
	ReasonPredictionError = "prediction_error"
)

// Prediction is the outcome of classifying one query.
type Prediction struct {
	// Level is the predicted difficulty. Degraded predictions carry
	// difficulty.Medium.
	Level difficulty.Level

	// Confidence is the winning-class probability, or 0.5 when
	// degraded.
	Confidence float64

	// Uncertain is true when Confidence fell below the model's
	// threshold. Level then still holds the model's best guess.
	Uncertain bool

	// Degraded is true when no model was available or prediction
	// failed. Reason says which.
	Degraded bool
	Reason   string

	// Version identifies the model that produced the prediction.
	// Empty when degraded.
	Version string
}

// snapshot is one loaded model generation. Immutable after creation.
type snapshot struct {
	version   string
	model     *Model
	extractor *features.Extractor
	threshold float64
}

// Classifier predicts query difficulty using the registry's active
// model.
//
// # Thread Safety
//
// All methods are safe for concurrent use. Predict is lock-free;
// Reload may run concurrently with serving.
type Classifier struct {
	registry registry.Registry
	logger   *logging.Logger
	current  atomic.Pointer[snapshot]
}

// New creates a Classifier and attempts an initial load of the active
// model. A registry without an active model is not an error: the
// classifier starts unloaded and degrades until a later Reload
// succeeds.
func New(ctx context.Context, reg registry.Registry, logger *logging.Logger) *Classifier {
	c := &Classifier{registry: reg, logger: logger}
	if err := c.Reload(ctx); err != nil {
		logger.Warn("classifier starting without a model", "error", err)
	}
	return c
}

// Reload fetches the registry's active model and swaps it in. On
// failure the previous snapshot, if any, stays in service.
func (c *Classifier) Reload(ctx context.Context) error {
	meta, err := c.registry.ActiveMetadata(ctx)
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	if cur := c.current.Load(); cur != nil && cur.version == meta.Version {
		return nil
	}

	artifact, err := c.registry.Download(ctx, meta.Version)
	if err != nil {
		return fmt.Errorf("reload %s: %w", meta.Version, err)
	}
	model, err := UnmarshalModel(artifact.Model)
	if err != nil {
		return fmt.Errorf("reload %s: %w", meta.Version, err)
	}
	vectorizer, err := features.UnmarshalVectorizer(artifact.Vectorizer)
	if err != nil {
		return fmt.Errorf("reload %s: %w", meta.Version, err)
	}

	threshold := meta.ConfidenceThreshold
	if threshold <= 0 || threshold >= 1 {
		threshold = DefaultConfidenceThreshold
	}

	c.current.Store(&snapshot{
		version:   meta.Version,
		model:     model,
		extractor: features.NewExtractor(vectorizer),
		threshold: threshold,
	})
	c.logger.Info("classifier model loaded",
		"version", meta.Version,
		"threshold", threshold,
	)
	return nil
}

// Loaded reports whether a model is currently in service.
func (c *Classifier) Loaded() bool {
	return c.current.Load() != nil
}

// Version returns the serving model version, or "" when unloaded.
func (c *Classifier) Version() string {
	if s := c.current.Load(); s != nil {
		return s.version
	}
	return ""
}

// Predict classifies one query.
//
// Without a loaded model, or when prediction fails, the result is a
// degraded (MEDIUM, 0.5) prediction rather than an error; routing
// always gets an answer.
func (c *Classifier) Predict(query string) Prediction {
	s := c.current.Load()
	if s == nil {
		return degraded(ReasonNoModel)
	}

	probs, err := s.model.PredictProba(s.extractor.Extract(query))
	if err != nil {
		c.logger.Warn("prediction failed", "version", s.version, "error", err)
		return degraded(ReasonPredictionError)
	}

	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	level, ok := difficulty.Parse(s.model.Classes[best])
	if !ok {
		c.logger.Warn("model emitted unknown class",
			"version", s.version,
			"class", s.model.Classes[best],
		)
		return degraded(ReasonPredictionError)
	}

	return Prediction{
		Level:      level,
		Confidence: probs[best],
		Uncertain:  probs[best] < s.threshold,
		Version:    s.version,
	}
}

func degraded(reason string) Prediction {
	return Prediction{
		Level:      difficulty.Medium,
		Confidence: 0.5,
		Degraded:   true,
		Reason:     reason,
	}
}
