// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package training retrains the difficulty classifier from labeled
// feedback and promotes new model versions through the registry.
//
// A run moves through fixed stages: load, split, featurize, train,
// evaluate, compare, then promote or reject. Rejection is a normal
// outcome, not an error; the run fails only when a stage cannot
// complete.
package training

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/intelrouter/pkg/logging"
	"github.com/AleutianAI/intelrouter/services/router/classifier"
	"github.com/AleutianAI/intelrouter/services/router/difficulty"
	"github.com/AleutianAI/intelrouter/services/router/features"
	"github.com/AleutianAI/intelrouter/services/router/registry"
)

// ErrInsufficientData is returned when too few labeled examples exist
// to train.
var ErrInsufficientData = errors.New("insufficient training data")

// versionLayout formats the timestamp-derived model version.
const versionLayout = "v20060102_150405"

// Config holds the tunable knobs of a training run.
type Config struct {
	// MinSamples is the fewest labeled examples a run will train on.
	MinSamples int

	// TestSize is the held-out fraction per class.
	TestSize float64

	// RecentWindow bounds the recent-performance evaluation set; only
	// test examples newer than now minus the window count. When fewer
	// than MinRecentSamples qualify, the full test set is used instead.
	RecentWindow     time.Duration
	MinRecentSamples int

	// RegressionTolerance scales the active model's metrics for the
	// promotion check. 0.95 allows a five percent dip before a new
	// model is rejected.
	RegressionTolerance float64

	// ConfidenceThreshold is stamped into promoted metadata and drives
	// the serving-time uncertainty cutoff.
	ConfidenceThreshold float64

	// Train configures the gradient-descent fit.
	Train classifier.TrainConfig
}

// DefaultConfig returns the standard run configuration.
func DefaultConfig() Config {
	return Config{
		MinSamples:          50,
		TestSize:            0.2,
		RecentWindow:        30 * 24 * time.Hour,
		MinRecentSamples:    10,
		RegressionTolerance: 0.95,
		ConfidenceThreshold: classifier.DefaultConfidenceThreshold,
		Train:               classifier.DefaultTrainConfig(),
	}
}

// Result reports one completed training run.
type Result struct {
	// RunID uniquely identifies the run in logs.
	RunID string

	// Version is the candidate model version the run produced.
	Version string

	// Promoted is true when the candidate became the active model.
	// When false, Reason explains the rejection.
	Promoted bool
	Reason   string

	// Full and Recent are the candidate's metrics on the full test set
	// and on the recent window.
	Full   Metrics
	Recent Metrics

	// TrainSamples is the training-set size after the split.
	TrainSamples int
}

// Pipeline runs end-to-end training against a Source and a model
// registry.
//
// # Thread Safety
//
// Run may be called from one goroutine at a time. Concurrent runs
// would race on promotion and are not supported.
type Pipeline struct {
	source   Source
	registry registry.Registry
	config   Config
	logger   *logging.Logger
	now      func() time.Time
}

// NewPipeline assembles a pipeline. Zero-value config fields fall back
// to DefaultConfig values.
func NewPipeline(source Source, reg registry.Registry, config Config, logger *logging.Logger) *Pipeline {
	defaults := DefaultConfig()
	if config.MinSamples <= 0 {
		config.MinSamples = defaults.MinSamples
	}
	if config.TestSize <= 0 || config.TestSize >= 1 {
		config.TestSize = defaults.TestSize
	}
	if config.RecentWindow <= 0 {
		config.RecentWindow = defaults.RecentWindow
	}
	if config.MinRecentSamples <= 0 {
		config.MinRecentSamples = defaults.MinRecentSamples
	}
	if config.RegressionTolerance <= 0 || config.RegressionTolerance > 1 {
		config.RegressionTolerance = defaults.RegressionTolerance
	}
	if config.ConfidenceThreshold <= 0 || config.ConfidenceThreshold >= 1 {
		config.ConfidenceThreshold = defaults.ConfidenceThreshold
	}
	if config.Train.Iterations <= 0 {
		config.Train = defaults.Train
	}
	return &Pipeline{
		source:   source,
		registry: reg,
		config:   config,
		logger:   logger,
		now:      time.Now,
	}
}

// Run executes one training run.
//
// Outputs:
//
//	*Result - The run outcome, including rejections.
//	error   - ErrInsufficientData below the sample floor, or a stage
//	          failure.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	started := p.now().UTC()
	runID := uuid.NewString()
	version := started.Format(versionLayout)
	log := p.logger.With("run_id", runID, "version", version)

	// LOAD
	examples, err := p.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load examples: %w", err)
	}
	log.Info("loaded training examples", "count", len(examples))
	if len(examples) < p.config.MinSamples {
		return nil, fmt.Errorf("%d examples, need %d: %w",
			len(examples), p.config.MinSamples, ErrInsufficientData)
	}

	// SPLIT
	train, test := StratifiedSplit(examples, p.config.TestSize)
	if len(test) == 0 {
		return nil, fmt.Errorf("split produced empty test set: %w", ErrInsufficientData)
	}
	log.Info("split examples", "train", len(train), "test", len(test))

	// FEATURIZE. The vectorizer is fitted once on the full corpus and
	// reused for every window; refitting per window would change the
	// feature space between evaluation sets.
	vectorizer := features.NewVectorizer()
	if err := vectorizer.Fit(queries(examples)); err != nil {
		return nil, fmt.Errorf("fit vectorizer: %w", err)
	}
	extractor := features.NewExtractor(vectorizer)
	trainX, err := featurize(ctx, extractor, train)
	if err != nil {
		return nil, fmt.Errorf("featurize training set: %w", err)
	}
	testX, err := featurize(ctx, extractor, test)
	if err != nil {
		return nil, fmt.Errorf("featurize test set: %w", err)
	}

	// TRAIN
	var model classifier.Model
	if err := model.Fit(trainX, labels(train), p.config.Train); err != nil {
		return nil, fmt.Errorf("train model: %w", err)
	}

	// EVALUATE
	predicted, err := predictAll(&model, testX)
	if err != nil {
		return nil, fmt.Errorf("evaluate model: %w", err)
	}
	full := Evaluate(predicted, labels(test))
	recent, err := p.recentMetrics(ctx, &model, extractor, examples, full)
	if err != nil {
		return nil, fmt.Errorf("evaluate recent window: %w", err)
	}
	log.Info("evaluated candidate model",
		"accuracy", full.Accuracy,
		"f1", full.F1,
		"recent_accuracy", recent.Accuracy,
		"recent_f1", recent.F1,
		"recent_samples", recent.Samples,
	)

	// COMPARE
	promote, reason, err := p.compare(ctx, recent)
	if err != nil {
		return nil, fmt.Errorf("compare with active model: %w", err)
	}

	// REJECT publishes nothing: the active model and the registry are
	// left exactly as found. Distinct from a failure.
	if !promote {
		log.Info("rejected model", "reason", reason)
		return &Result{
			RunID:        runID,
			Version:      version,
			Promoted:     false,
			Reason:       reason,
			Full:         full,
			Recent:       recent,
			TrainSamples: len(train),
		}, nil
	}

	// PROMOTE
	modelBytes, err := model.Marshal()
	if err != nil {
		return nil, fmt.Errorf("serialize model: %w", err)
	}
	vecBytes, err := vectorizer.Marshal()
	if err != nil {
		return nil, fmt.Errorf("serialize vectorizer: %w", err)
	}
	artifact := &registry.Artifact{Model: modelBytes, Vectorizer: vecBytes}
	if err := p.registry.Upload(ctx, version, artifact); err != nil {
		return nil, fmt.Errorf("upload artifact: %w", err)
	}

	meta := &registry.Metadata{
		Version:             version,
		Accuracy:            full.Accuracy,
		F1Score:             full.F1,
		ConfidenceThreshold: p.config.ConfidenceThreshold,
		TrainingTimestamp:   started,
		Metrics: map[string]float64{
			"accuracy":        full.Accuracy,
			"f1":              full.F1,
			"recent_accuracy": recent.Accuracy,
			"recent_f1":       recent.F1,
			"recent_samples":  float64(recent.Samples),
			"train_samples":   float64(len(train)),
			"test_samples":    float64(len(test)),
		},
	}
	if err := p.registry.SaveMetadata(ctx, meta, true); err != nil {
		return nil, fmt.Errorf("save metadata: %w", err)
	}

	log.Info("promoted model", "reason", reason)
	return &Result{
		RunID:        runID,
		Version:      version,
		Promoted:     true,
		Reason:       reason,
		Full:         full,
		Recent:       recent,
		TrainSamples: len(train),
	}, nil
}

// recentMetrics evaluates the candidate on examples inside the recent
// window, falling back to the full test-set metrics when the window is
// too thin to judge.
func (p *Pipeline) recentMetrics(ctx context.Context, model *classifier.Model, extractor *features.Extractor, examples []Example, full Metrics) (Metrics, error) {
	cutoff := p.now().UTC().Add(-p.config.RecentWindow)
	var recent []Example
	for _, ex := range examples {
		if ex.CreatedAt.After(cutoff) {
			recent = append(recent, ex)
		}
	}
	if len(recent) < p.config.MinRecentSamples {
		return full, nil
	}

	x, err := featurize(ctx, extractor, recent)
	if err != nil {
		return Metrics{}, err
	}
	predicted, err := predictAll(model, x)
	if err != nil {
		return Metrics{}, err
	}
	return Evaluate(predicted, labels(recent)), nil
}

// compare applies the regression guard against the active model's
// recorded recent metrics. No active model always promotes.
func (p *Pipeline) compare(ctx context.Context, recent Metrics) (bool, string, error) {
	active, err := p.registry.ActiveMetadata(ctx)
	if errors.Is(err, registry.ErrNoActiveModel) {
		return true, "no active model", nil
	}
	if err != nil {
		return false, "", err
	}

	activeAccuracy := active.Accuracy
	activeF1 := active.F1Score
	if v, ok := active.Metrics["recent_accuracy"]; ok {
		activeAccuracy = v
	}
	if v, ok := active.Metrics["recent_f1"]; ok {
		activeF1 = v
	}

	tolerance := p.config.RegressionTolerance
	if recent.Accuracy < activeAccuracy*tolerance {
		return false, fmt.Sprintf("accuracy regression: %.4f < %.4f of active %s",
			recent.Accuracy, activeAccuracy*tolerance, active.Version), nil
	}
	if recent.F1 < activeF1*tolerance {
		return false, fmt.Sprintf("f1 regression: %.4f < %.4f of active %s",
			recent.F1, activeF1*tolerance, active.Version), nil
	}
	return true, fmt.Sprintf("within tolerance of active %s", active.Version), nil
}

// featurize extracts combined feature vectors in parallel, preserving
// example order.
func featurize(ctx context.Context, extractor *features.Extractor, examples []Example) ([][]float64, error) {
	out := make([][]float64, len(examples))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, ex := range examples {
		g.Go(func() error {
			out[i] = extractor.Extract(ex.Query)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// predictAll returns the argmax class for each feature vector.
func predictAll(model *classifier.Model, x [][]float64) ([]difficulty.Level, error) {
	out := make([]difficulty.Level, len(x))
	for i, row := range x {
		probs, err := model.PredictProba(row)
		if err != nil {
			return nil, err
		}
		best := 0
		for c, p := range probs {
			if p > probs[best] {
				best = c
			}
		}
		level, ok := difficulty.Parse(model.Classes[best])
		if !ok {
			return nil, fmt.Errorf("model emitted unknown class %q", model.Classes[best])
		}
		out[i] = level
	}
	return out, nil
}

func queries(examples []Example) []string {
	out := make([]string, len(examples))
	for i, ex := range examples {
		out[i] = ex.Query
	}
	return out
}

func labels(examples []Example) []difficulty.Level {
	out := make([]difficulty.Level, len(examples))
	for i, ex := range examples {
		out[i] = ex.Label
	}
	return out
}
