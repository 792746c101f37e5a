// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package registry provides versioned storage for classifier artifacts
// and their metadata.
//
// A registry holds byte-serialized (model, vectorizer) artifact pairs
// keyed by version, plus one metadata row per version. At most one
// version is active at any time; activating a version deactivates all
// others atomically. The training pipeline writes to the registry, the
// serving classifier reads from it, and the two never share a lock:
// serving only ever performs a one-shot "load the active version".
//
// Metadata lives in BadgerDB. Artifact bytes go through the
// ArtifactStore interface, either colocated in the same BadgerDB or in
// a GCS bucket for deployments where training and serving run on
// different hosts.
package registry

import (
	"context"
	"errors"
)

// Sentinel errors for registry operations.
var (
	// ErrNoActiveModel is returned when no version is marked active.
	// Callers on the serving path treat this as a degradable condition,
	// not a failure.
	ErrNoActiveModel = errors.New("no active model version")

	// ErrVersionNotFound is returned when the requested version has no
	// metadata row or artifact pair.
	ErrVersionNotFound = errors.New("model version not found")
)

// Artifact is a byte-serialized classifier and vectorizer pair.
// The registry does not interpret the bytes; serialization formats
// belong to the classifier and features packages.
type Artifact struct {
	Model      []byte
	Vectorizer []byte
}

// Registry is the versioned artifact and metadata store.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use: the serving path
// reads while the training pipeline writes.
type Registry interface {
	// ActiveVersion returns the version id of the active model.
	// Returns ErrNoActiveModel when nothing is active.
	ActiveVersion(ctx context.Context) (string, error)

	// ActiveMetadata returns the metadata row of the active model.
	// Returns ErrNoActiveModel when nothing is active.
	ActiveMetadata(ctx context.Context) (*Metadata, error)

	// ListMetadata returns every metadata row, newest first.
	ListMetadata(ctx context.Context) ([]*Metadata, error)

	// Download fetches the artifact pair for a version.
	// Returns ErrVersionNotFound for unknown versions.
	Download(ctx context.Context, version string) (*Artifact, error)

	// Upload persists the artifact pair for a version. Uploading does
	// not activate the version; that happens via SaveMetadata.
	Upload(ctx context.Context, version string, artifact *Artifact) error

	// SaveMetadata writes a metadata row. When activate is true, every
	// other row is deactivated in the same atomic operation, preserving
	// the single-active invariant.
	SaveMetadata(ctx context.Context, meta *Metadata, activate bool) error

	// Close releases underlying resources.
	Close() error
}
