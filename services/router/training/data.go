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
	"context"
	"encoding/json"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/AleutianAI/intelrouter/pkg/logging"
	"github.com/AleutianAI/intelrouter/services/router/difficulty"
)

// Example is one labeled query available for training.
type Example struct {
	Query     string
	Label     difficulty.Level
	CreatedAt time.Time
}

// Source supplies labeled examples to the pipeline.
type Source interface {
	// Load returns all usable examples. Implementations skip and log
	// malformed rows rather than failing the load.
	Load(ctx context.Context) ([]Example, error)
}

// MemorySource is a fixed in-memory Source, used by tests and batch
// imports.
type MemorySource []Example

func (s MemorySource) Load(_ context.Context) ([]Example, error) {
	return append([]Example(nil), s...), nil
}

// feedbackKeyPrefix namespaces labeled feedback rows in BadgerDB.
const feedbackKeyPrefix = "feedback/"

// feedbackRow is the stored form of an example. Label and timestamp
// stay as strings so one bad row never poisons a whole load.
type feedbackRow struct {
	Query     string `json:"query"`
	Label     string `json:"label"`
	CreatedAt string `json:"created_at"`
}

// FeedbackStore persists labeled routing feedback in BadgerDB and
// serves it back as training examples.
//
// # Thread Safety
//
// Safe for concurrent use; BadgerDB transactions provide isolation.
type FeedbackStore struct {
	db     *badger.DB
	logger *logging.Logger
	now    func() time.Time
}

// NewFeedbackStore wraps an open BadgerDB handle. The caller retains
// ownership of the handle.
func NewFeedbackStore(db *badger.DB, logger *logging.Logger) *FeedbackStore {
	return &FeedbackStore{db: db, logger: logger, now: time.Now}
}

// Add records one labeled example.
func (s *FeedbackStore) Add(_ context.Context, query string, label difficulty.Level) error {
	row := feedbackRow{
		Query:     query,
		Label:     label.String(),
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("add feedback: %w", err)
	}
	key := []byte(feedbackKeyPrefix + uuid.NewString())
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		return fmt.Errorf("add feedback: %w", err)
	}
	return nil
}

// Load returns all stored examples.
//
// Rows with an unknown label are skipped and logged. Rows with an
// unparsable timestamp keep the current time, which makes them count
// as recent in window selection.
func (s *FeedbackStore) Load(_ context.Context) ([]Example, error) {
	var examples []Example
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(feedbackKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var row feedbackRow
				if err := json.Unmarshal(val, &row); err != nil {
					s.logger.Warn("skipping malformed feedback row",
						"key", string(item.Key()), "error", err)
					return nil
				}
				label, ok := difficulty.Parse(row.Label)
				if !ok {
					s.logger.Warn("skipping feedback row with unknown label",
						"key", string(item.Key()), "label", row.Label)
					return nil
				}
				createdAt, err := time.Parse(time.RFC3339, row.CreatedAt)
				if err != nil {
					s.logger.Warn("feedback row has unparsable timestamp, treating as recent",
						"key", string(item.Key()), "created_at", row.CreatedAt)
					createdAt = s.now().UTC()
				}
				examples = append(examples, Example{
					Query:     row.Query,
					Label:     label,
					CreatedAt: createdAt,
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load feedback: %w", err)
	}
	return examples, nil
}

// Count returns the number of stored feedback rows, including rows
// Load would skip.
func (s *FeedbackStore) Count(_ context.Context) (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(feedbackKeyPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count feedback: %w", err)
	}
	return count, nil
}
