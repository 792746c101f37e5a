// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads and validates the intelrouter configuration.
// Priority: environment variables > config file > defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/intelrouter/services/router"
	"github.com/AleutianAI/intelrouter/services/router/classifier"
	"github.com/AleutianAI/intelrouter/services/router/difficulty"
	"github.com/AleutianAI/intelrouter/services/router/training"
)

var validate = validator.New()

// Config is the top-level intelrouter configuration.
//
// Thread Safety: Safe to read concurrently. Not safe to modify after creation.
type Config struct {
	Service  ServiceConfig  `json:"service" yaml:"service"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging"`
	Registry RegistryConfig `json:"registry" yaml:"registry"`
	Routing  RoutingConfig  `json:"routing" yaml:"routing"`
	Training TrainingConfig `json:"training" yaml:"training"`
	Schedule ScheduleConfig `json:"schedule" yaml:"schedule"`
}

// ServiceConfig identifies the running service.
type ServiceConfig struct {
	Name string `json:"name" yaml:"name" validate:"required"`
}

// LoggingConfig controls structured logging output.
type LoggingConfig struct {
	Level string `json:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Dir   string `json:"dir" yaml:"dir"`
	JSON  bool   `json:"json" yaml:"json"`
}

// RegistryConfig selects and configures the model registry backend.
type RegistryConfig struct {
	// Backend is "badger" for local storage or "gcs" for artifacts in
	// Google Cloud Storage with local metadata.
	Backend string `json:"backend" yaml:"backend" validate:"oneof=badger gcs"`

	// Path is the BadgerDB directory for metadata (and artifacts when
	// Backend is "badger").
	Path string `json:"path" yaml:"path" validate:"required"`

	GCS GCSConfig `json:"gcs" yaml:"gcs"`
}

// GCSConfig configures the Google Cloud Storage artifact store.
type GCSConfig struct {
	Bucket          string `json:"bucket" yaml:"bucket"`
	Prefix          string `json:"prefix" yaml:"prefix"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
}

// RoutingConfig controls arbitration and the difficulty→model table.
type RoutingConfig struct {
	// Policy is "ml_first" or "algorithmic_first".
	Policy string `json:"policy" yaml:"policy" validate:"oneof=ml_first algorithmic_first"`

	// ConfidenceThreshold applies when a loaded model's metadata does
	// not carry its own.
	ConfidenceThreshold float64 `json:"confidence_threshold" yaml:"confidence_threshold" validate:"gt=0,lt=1"`

	// Models maps difficulty labels to model names. Unset labels keep
	// the default table.
	Models map[string]string `json:"models" yaml:"models"`
}

// TrainingConfig controls the offline training pipeline.
type TrainingConfig struct {
	MinSamples          int     `json:"min_samples" yaml:"min_samples" validate:"gte=1"`
	TestSize            float64 `json:"test_size" yaml:"test_size" validate:"gt=0,lt=1"`
	RecentWindowDays    int     `json:"recent_window_days" yaml:"recent_window_days" validate:"gte=1"`
	MinRecentSamples    int     `json:"min_recent_samples" yaml:"min_recent_samples" validate:"gte=1"`
	RegressionTolerance float64 `json:"regression_tolerance" yaml:"regression_tolerance" validate:"gt=0,lte=1"`
	Iterations          int     `json:"iterations" yaml:"iterations" validate:"gte=1"`
	LearningRate        float64 `json:"learning_rate" yaml:"learning_rate" validate:"gt=0"`
	L2                  float64 `json:"l2" yaml:"l2" validate:"gte=0"`
}

// ScheduleConfig holds cron expressions for background jobs. Empty
// disables a job.
type ScheduleConfig struct {
	// ModelReload refreshes the serving model from the registry.
	ModelReload string `json:"model_reload" yaml:"model_reload"`

	// Training triggers a full training run.
	Training string `json:"training" yaml:"training"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Service: ServiceConfig{Name: "intelrouter"},
		Logging: LoggingConfig{Level: "info"},
		Registry: RegistryConfig{
			Backend: "badger",
			Path:    "~/.intelrouter/registry",
		},
		Routing: RoutingConfig{
			Policy:              "ml_first",
			ConfidenceThreshold: classifier.DefaultConfidenceThreshold,
		},
		Training: TrainingConfig{
			MinSamples:          50,
			TestSize:            0.2,
			RecentWindowDays:    30,
			MinRecentSamples:    10,
			RegressionTolerance: 0.95,
			Iterations:          400,
			LearningRate:        0.5,
			L2:                  1e-4,
		},
		Schedule: ScheduleConfig{
			ModelReload: "@every 5m",
		},
	}
}

// Load merges configuration with priority: env > file > defaults.
//
// Inputs:
//
//	path - YAML or JSON config file. Empty or missing files are not an
//	       error; defaults apply.
//
// Outputs:
//
//	Config - The merged, validated configuration.
//	error  - Non-nil if the file is unreadable/unparsable or a value
//	         fails validation.
func Load(path string) (Config, error) {
	config := Default()

	if path != "" {
		if err := loadFile(path, &config); err != nil {
			return config, fmt.Errorf("load config file: %w", err)
		}
	}
	loadEnv(&config)

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// Validate checks field constraints plus the cross-field backend
// requirements.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Registry.Backend == "gcs" && c.Registry.GCS.Bucket == "" {
		return fmt.Errorf("registry backend gcs requires a bucket")
	}
	for label := range c.Routing.Models {
		if _, ok := difficulty.Parse(label); !ok {
			return fmt.Errorf("routing.models has unknown difficulty %q", label)
		}
	}
	return nil
}

// TierMap builds the routing tier table: the default table overlaid
// with any configured entries.
func (c *RoutingConfig) TierMap() router.TierMap {
	tiers := router.DefaultTierMap()
	for label, model := range c.Models {
		if level, ok := difficulty.Parse(label); ok {
			tiers[level] = model
		}
	}
	return tiers
}

// PipelineConfig translates the training section for the pipeline.
func (c *TrainingConfig) PipelineConfig(confidenceThreshold float64) training.Config {
	return training.Config{
		MinSamples:          c.MinSamples,
		TestSize:            c.TestSize,
		RecentWindow:        time.Duration(c.RecentWindowDays) * 24 * time.Hour,
		MinRecentSamples:    c.MinRecentSamples,
		RegressionTolerance: c.RegressionTolerance,
		ConfidenceThreshold: confidenceThreshold,
		Train: classifier.TrainConfig{
			Iterations:   c.Iterations,
			LearningRate: c.LearningRate,
			L2:           c.L2,
		},
	}
}

func loadFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	// Try YAML first, then JSON.
	if err := yaml.Unmarshal(data, config); err != nil {
		if jsonErr := json.Unmarshal(data, config); jsonErr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): YAML error: %v, JSON error: %w",
				err, jsonErr)
		}
	}
	return nil
}

func loadEnv(config *Config) {
	if v := os.Getenv("INTELROUTER_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("INTELROUTER_LOG_DIR"); v != "" {
		config.Logging.Dir = v
	}
	if v := os.Getenv("INTELROUTER_REGISTRY_BACKEND"); v != "" {
		config.Registry.Backend = v
	}
	if v := os.Getenv("INTELROUTER_REGISTRY_PATH"); v != "" {
		config.Registry.Path = v
	}
	if v := os.Getenv("INTELROUTER_GCS_BUCKET"); v != "" {
		config.Registry.GCS.Bucket = v
	}
	if v := os.Getenv("INTELROUTER_GCS_PREFIX"); v != "" {
		config.Registry.GCS.Prefix = v
	}
	if v := os.Getenv("INTELROUTER_GCS_CREDENTIALS"); v != "" {
		config.Registry.GCS.CredentialsFile = v
	}
	if v := os.Getenv("INTELROUTER_POLICY"); v != "" {
		config.Routing.Policy = v
	}
	if v := os.Getenv("INTELROUTER_CONFIDENCE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Routing.ConfidenceThreshold = f
		}
	}
	if v := os.Getenv("INTELROUTER_MIN_SAMPLES"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			config.Training.MinSamples = i
		}
	}
	if v := os.Getenv("INTELROUTER_MODEL_RELOAD_CRON"); v != "" {
		config.Schedule.ModelReload = v
	}
	if v := os.Getenv("INTELROUTER_TRAINING_CRON"); v != "" {
		config.Schedule.Training = v
	}
}
