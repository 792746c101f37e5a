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
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Key layout inside the metadata database.
const (
	metadataKeyPrefix = "meta/"

	modelObjectName      = "model.json"
	vectorizerObjectName = "vectorizer.json"
)

// Store implements Registry with BadgerDB metadata and a pluggable
// ArtifactStore for the artifact bytes.
//
// # Thread Safety
//
// Safe for concurrent use. The single-active invariant is enforced
// inside one BadgerDB transaction: SaveMetadata with activation reads
// and rewrites every active row atomically.
type Store struct {
	db        *badger.DB
	artifacts ArtifactStore

	// now is injectable for tests.
	now func() time.Time
}

// NewStore creates a registry over an open BadgerDB and an artifact
// store. Pass NewBadgerArtifactStore(db) to colocate artifacts with
// metadata.
func NewStore(db *badger.DB, artifacts ArtifactStore) *Store {
	return &Store{db: db, artifacts: artifacts, now: time.Now}
}

// metadataKey returns the BadgerDB key for a version's metadata row.
func metadataKey(version string) []byte {
	return []byte(metadataKeyPrefix + version)
}

// artifactName returns the object name for one half of a version's
// artifact pair.
func artifactName(version, object string) string {
	return version + "/" + object
}

// ActiveVersion returns the active version id.
func (s *Store) ActiveVersion(ctx context.Context) (string, error) {
	meta, err := s.ActiveMetadata(ctx)
	if err != nil {
		return "", err
	}
	return meta.Version, nil
}

// ActiveMetadata returns the metadata row flagged active. If multiple
// rows are flagged (which only a corrupted store can produce), the
// newest wins.
func (s *Store) ActiveMetadata(ctx context.Context) (*Metadata, error) {
	all, err := s.ListMetadata(ctx)
	if err != nil {
		return nil, err
	}
	for _, meta := range all {
		if meta.IsActive {
			return meta, nil
		}
	}
	return nil, ErrNoActiveModel
}

// ListMetadata returns all metadata rows, newest first.
func (s *Store) ListMetadata(ctx context.Context) ([]*Metadata, error) {
	var rows []*Metadata
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(metadataKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var meta Metadata
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &meta)
			})
			if err != nil {
				return fmt.Errorf("decode metadata row %s: %w", it.Item().Key(), err)
			}
			rows = append(rows, &meta)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	return rows, nil
}

// Download fetches the artifact pair for a version.
func (s *Store) Download(ctx context.Context, version string) (*Artifact, error) {
	model, err := s.artifacts.Get(ctx, artifactName(version, modelObjectName))
	if err != nil {
		return nil, err
	}
	vectorizer, err := s.artifacts.Get(ctx, artifactName(version, vectorizerObjectName))
	if err != nil {
		return nil, err
	}
	return &Artifact{Model: model, Vectorizer: vectorizer}, nil
}

// Upload persists the artifact pair for a version without activating it.
func (s *Store) Upload(ctx context.Context, version string, artifact *Artifact) error {
	if version == "" {
		return errors.New("upload requires a version id")
	}
	if err := s.artifacts.Put(ctx, artifactName(version, modelObjectName), artifact.Model); err != nil {
		return err
	}
	return s.artifacts.Put(ctx, artifactName(version, vectorizerObjectName), artifact.Vectorizer)
}

// SaveMetadata writes a metadata row. Activation deactivates every
// other row inside the same transaction.
func (s *Store) SaveMetadata(ctx context.Context, meta *Metadata, activate bool) error {
	if meta.Version == "" {
		return errors.New("metadata requires a version id")
	}

	row := *meta
	row.IsActive = activate
	if row.CreatedAt.IsZero() {
		row.CreatedAt = s.now().UTC()
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		if activate {
			if err := deactivateAll(txn, row.Version); err != nil {
				return err
			}
		}
		encoded, err := json.Marshal(&row)
		if err != nil {
			return fmt.Errorf("encode metadata for %s: %w", row.Version, err)
		}
		return txn.Set(metadataKey(row.Version), encoded)
	})
	if err != nil {
		return fmt.Errorf("save metadata for %s: %w", row.Version, err)
	}
	return nil
}

// deactivateAll clears the active flag on every row except the one
// being written.
func deactivateAll(txn *badger.Txn, exceptVersion string) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(metadataKeyPrefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	// Collect first: BadgerDB iterators must not observe writes made
	// mid-iteration within the same transaction.
	var updates []*Metadata
	for it.Rewind(); it.Valid(); it.Next() {
		var meta Metadata
		err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &meta)
		})
		if err != nil {
			return fmt.Errorf("decode metadata row %s: %w", it.Item().Key(), err)
		}
		if meta.IsActive && meta.Version != exceptVersion {
			meta.IsActive = false
			updates = append(updates, &meta)
		}
	}

	for _, meta := range updates {
		encoded, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("encode metadata for %s: %w", meta.Version, err)
		}
		if err := txn.Set(metadataKey(meta.Version), encoded); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the artifact store. The BadgerDB handle belongs to the
// caller, which may be sharing it with the feedback store.
func (s *Store) Close() error {
	return s.artifacts.Close()
}
