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
	"testing"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/intelrouter/pkg/logging"
	"github.com/AleutianAI/intelrouter/services/router/difficulty"
	badgerstore "github.com/AleutianAI/intelrouter/services/router/storage/badger"
)

func newTestFeedbackStore(t *testing.T) *FeedbackStore {
	t.Helper()
	db, err := badgerstore.Open(badgerstore.InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewFeedbackStore(db, logging.Default())
}

func TestFeedbackStore_RoundTrip(t *testing.T) {
	store := newTestFeedbackStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "What is DNS?", difficulty.Easy))
	require.NoError(t, store.Add(ctx, "Design a sharded message queue.", difficulty.Hard))

	examples, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, examples, 2)

	byQuery := make(map[string]Example)
	for _, ex := range examples {
		byQuery[ex.Query] = ex
	}
	require.Equal(t, difficulty.Easy, byQuery["What is DNS?"].Label)
	require.Equal(t, difficulty.Hard, byQuery["Design a sharded message queue."].Label)
	for _, ex := range examples {
		if ex.CreatedAt.IsZero() {
			t.Errorf("example %q has zero CreatedAt", ex.Query)
		}
	}
}

func TestFeedbackStore_SkipsBadRows(t *testing.T) {
	store := newTestFeedbackStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "good row", difficulty.Medium))

	// Write rows Load must tolerate: invalid JSON and an unknown label.
	err := store.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(feedbackKeyPrefix+"garbage"), []byte("{not json")); err != nil {
			return err
		}
		return txn.Set([]byte(feedbackKeyPrefix+"badlabel"),
			[]byte(`{"query":"q","label":"IMPOSSIBLE","created_at":"2025-01-01T00:00:00Z"}`))
	})
	require.NoError(t, err)

	examples, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, examples, 1)
	require.Equal(t, "good row", examples[0].Query)

	// Count reports raw rows, skipped ones included.
	count, err := store.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, count)
}

func TestFeedbackStore_BadTimestampTreatedRecent(t *testing.T) {
	store := newTestFeedbackStore(t)
	ctx := context.Background()

	err := store.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(feedbackKeyPrefix+"badtime"),
			[]byte(`{"query":"q","label":"EASY","created_at":"yesterday-ish"}`))
	})
	require.NoError(t, err)

	before := time.Now().UTC().Add(-time.Minute)
	examples, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, examples, 1)
	if !examples[0].CreatedAt.After(before) {
		t.Errorf("unparsable timestamp resolved to %v, want approximately now", examples[0].CreatedAt)
	}
}

func TestMemorySource_CopiesSlice(t *testing.T) {
	src := MemorySource{{Query: "a", Label: difficulty.Easy}}
	loaded, err := src.Load(context.Background())
	require.NoError(t, err)

	loaded[0].Query = "mutated"
	if src[0].Query != "a" {
		t.Error("Load returned the backing slice instead of a copy")
	}
}
