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

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	badgerstore "github.com/AleutianAI/intelrouter/services/router/storage/badger"
)

// newTestStore returns a Store over an in-memory BadgerDB.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := badgerstore.Open(badgerstore.InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db, NewBadgerArtifactStore(db))
}

func TestStore_EmptyRegistry(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.ActiveVersion(ctx)
	require.ErrorIs(t, err, ErrNoActiveModel)

	_, err = store.ActiveMetadata(ctx)
	require.ErrorIs(t, err, ErrNoActiveModel)

	_, err = store.Download(ctx, "v20250101_000000")
	require.ErrorIs(t, err, ErrVersionNotFound)
}

func TestStore_UploadDownloadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	artifact := &Artifact{
		Model:      []byte(`{"weights":[1,2,3]}`),
		Vectorizer: []byte(`{"vocabulary":{"cache":0}}`),
	}
	require.NoError(t, store.Upload(ctx, "v20250101_000000", artifact))

	got, err := store.Download(ctx, "v20250101_000000")
	require.NoError(t, err)
	require.Equal(t, artifact.Model, got.Model)
	require.Equal(t, artifact.Vectorizer, got.Vectorizer)
}

func TestStore_UploadDoesNotActivate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upload(ctx, "v1", &Artifact{Model: []byte("m"), Vectorizer: []byte("v")}))
	_, err := store.ActiveVersion(ctx)
	require.ErrorIs(t, err, ErrNoActiveModel)
}

func TestStore_SaveMetadata_SingleActiveInvariant(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := &Metadata{
		Version:             "v20250101_000000",
		Accuracy:            0.9,
		F1Score:             0.88,
		ConfidenceThreshold: 0.6,
		TrainingTimestamp:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.SaveMetadata(ctx, first, true))

	active, err := store.ActiveMetadata(ctx)
	require.NoError(t, err)
	require.Equal(t, "v20250101_000000", active.Version)
	require.True(t, active.IsActive)

	second := &Metadata{
		Version:           "v20250201_000000",
		Accuracy:          0.92,
		F1Score:           0.9,
		TrainingTimestamp: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.SaveMetadata(ctx, second, true))

	all, err := store.ListMetadata(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	activeCount := 0
	for _, meta := range all {
		if meta.IsActive {
			activeCount++
			require.Equal(t, "v20250201_000000", meta.Version)
		}
	}
	require.Equal(t, 1, activeCount, "exactly one row may be active")
}

func TestStore_SaveMetadata_InactiveKeepsActive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveMetadata(ctx, &Metadata{Version: "v1", F1Score: 0.9}, true))
	// A rejected candidate's row is recorded without activation.
	require.NoError(t, store.SaveMetadata(ctx, &Metadata{Version: "v2", F1Score: 0.8}, false))

	version, err := store.ActiveVersion(ctx)
	require.NoError(t, err)
	require.Equal(t, "v1", version, "rejected candidate must not displace the active model")
}

func TestStore_ListMetadata_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range []string{"v1", "v2", "v3"} {
		ts := base.Add(time.Duration(i) * time.Hour)
		store.now = func() time.Time { return ts }
		require.NoError(t, store.SaveMetadata(ctx, &Metadata{Version: v}, false))
	}

	all, err := store.ListMetadata(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "v3", all[0].Version)
	require.Equal(t, "v1", all[2].Version)
}

func TestBadgerArtifactStore_CloseLeavesHandleOpen(t *testing.T) {
	db, err := badgerstore.Open(badgerstore.InMemoryConfig())
	require.NoError(t, err)
	defer db.Close()

	artifacts := NewBadgerArtifactStore(db)
	ctx := context.Background()
	require.NoError(t, artifacts.Put(ctx, "v1/model.json", []byte("m")))
	require.NoError(t, artifacts.Close())

	// The shared handle stays usable: the metadata store closes it.
	got, err := artifacts.Get(ctx, "v1/model.json")
	require.NoError(t, err)
	require.Equal(t, []byte("m"), got)
}

func TestBadgerArtifactStore_MissingObject(t *testing.T) {
	db, err := badgerstore.Open(badgerstore.InMemoryConfig())
	require.NoError(t, err)
	defer db.Close()

	artifacts := NewBadgerArtifactStore(db)
	_, err = artifacts.Get(context.Background(), "nope/model.json")
	if !errors.Is(err, ErrVersionNotFound) {
		t.Errorf("Get missing object: err = %v, want ErrVersionNotFound", err)
	}
}
