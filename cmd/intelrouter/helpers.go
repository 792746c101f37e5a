// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/AleutianAI/intelrouter/services/router"
	"github.com/AleutianAI/intelrouter/services/router/classifier"
	"github.com/AleutianAI/intelrouter/services/router/registry"
	"github.com/AleutianAI/intelrouter/services/router/scorer"
	badgerstore "github.com/AleutianAI/intelrouter/services/router/storage/badger"
	"github.com/AleutianAI/intelrouter/services/router/training"
)

// stack bundles the storage-backed collaborators a command needs. One
// BadgerDB handle is shared by the registry metadata store and the
// feedback store.
type stack struct {
	db       *badger.DB
	registry registry.Registry
	feedback *training.FeedbackStore
}

// openStack opens storage per the loaded configuration.
func openStack(ctx context.Context) (*stack, error) {
	dbCfg := badgerstore.DefaultConfig(expandPath(cfg.Registry.Path))
	dbCfg.Logger = logger.Slog()
	db, err := badgerstore.Open(dbCfg)
	if err != nil {
		return nil, err
	}

	var artifacts registry.ArtifactStore = registry.NewBadgerArtifactStore(db)
	if cfg.Registry.Backend == "gcs" {
		artifacts, err = registry.NewGCSArtifactStore(ctx,
			cfg.Registry.GCS.Bucket,
			cfg.Registry.GCS.Prefix,
			expandPath(cfg.Registry.GCS.CredentialsFile),
		)
		if err != nil {
			db.Close()
			return nil, err
		}
	}

	return &stack{
		db:       db,
		registry: registry.NewStore(db, artifacts),
		feedback: training.NewFeedbackStore(db, logger),
	}, nil
}

func (s *stack) Close() {
	if err := s.registry.Close(); err != nil {
		logger.Warn("closing registry", "error", err)
	}
	if err := s.db.Close(); err != nil {
		logger.Warn("closing database", "error", err)
	}
}

// buildRouter assembles the full routing path over an open stack.
func buildRouter(ctx context.Context, st *stack) *router.Router {
	cls := classifier.New(ctx, st.registry, logger)
	var policy router.Policy
	switch cfg.Routing.Policy {
	case "algorithmic_first":
		policy = &router.AlgorithmicFirst{Classifier: cls, Score: scorer.Score}
	default:
		policy = &router.MLFirst{Classifier: cls, Score: scorer.Score}
	}
	return router.New(policy, cfg.Routing.TierMap(), nil, logger)
}

// newPipeline assembles the training pipeline over an open stack.
func newPipeline(st *stack) *training.Pipeline {
	return training.NewPipeline(
		st.feedback,
		st.registry,
		cfg.Training.PipelineConfig(cfg.Routing.ConfidenceThreshold),
		logger,
	)
}

// expandPath resolves a leading "~" to the user's home directory.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
