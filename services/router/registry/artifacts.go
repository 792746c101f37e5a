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
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// ArtifactStore stores raw artifact bytes keyed by object name.
// The Store composes one of these with its BadgerDB metadata: the
// default BadgerArtifactStore colocates bytes locally, GCSArtifactStore
// puts them in a bucket.
type ArtifactStore interface {
	// Put writes object bytes, overwriting any existing object.
	Put(ctx context.Context, name string, data []byte) error

	// Get reads object bytes. Returns ErrVersionNotFound for missing
	// objects.
	Get(ctx context.Context, name string) ([]byte, error)

	// Close releases resources held by the store.
	Close() error
}

// =============================================================================
// BadgerDB-Backed Artifact Store
// =============================================================================

// artifactKeyPrefix namespaces artifact objects within the shared
// BadgerDB instance.
const artifactKeyPrefix = "artifact/"

// BadgerArtifactStore keeps artifact bytes in a BadgerDB instance,
// typically the same one holding the metadata rows.
type BadgerArtifactStore struct {
	db *badger.DB
}

// NewBadgerArtifactStore wraps an open BadgerDB. The caller keeps
// ownership of the database handle.
func NewBadgerArtifactStore(db *badger.DB) *BadgerArtifactStore {
	return &BadgerArtifactStore{db: db}
}

// Put writes object bytes under the artifact prefix.
func (s *BadgerArtifactStore) Put(ctx context.Context, name string, data []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(artifactKeyPrefix+name), data)
	})
	if err != nil {
		return fmt.Errorf("put artifact %s: %w", name, err)
	}
	return nil
}

// Get reads object bytes from under the artifact prefix.
func (s *BadgerArtifactStore) Get(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(artifactKeyPrefix + name))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("get artifact %s: %w", name, ErrVersionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get artifact %s: %w", name, err)
	}
	return data, nil
}

// Close is a no-op: the database handle belongs to the caller, which
// shares it with the metadata store and closes it once.
func (s *BadgerArtifactStore) Close() error {
	return nil
}
