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
	"io"
	"path"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSArtifactStore keeps artifact bytes in a Google Cloud Storage
// bucket. Used when the training pipeline and the serving processes do
// not share a filesystem.
type GCSArtifactStore struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSArtifactStore creates a store against the given bucket.
//
// Inputs:
//
//	ctx        - Context for client construction.
//	bucket     - Bucket name. Required.
//	prefix     - Object name prefix inside the bucket (e.g. "ml-models").
//	credsFile  - Path to a service-account key file. Empty uses
//	             application default credentials.
//
// Outputs:
//
//	*GCSArtifactStore - The store. Caller must Close it.
//	error             - Non-nil if the client cannot be constructed.
func NewGCSArtifactStore(ctx context.Context, bucket, prefix, credsFile string) (*GCSArtifactStore, error) {
	if bucket == "" {
		return nil, errors.New("gcs artifact store requires a bucket name")
	}

	var opts []option.ClientOption
	if credsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &GCSArtifactStore{client: client, bucket: bucket, prefix: prefix}, nil
}

// object resolves the fully prefixed object handle for a name.
func (s *GCSArtifactStore) object(name string) *storage.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(path.Join(s.prefix, name))
}

// Put uploads object bytes, overwriting any existing object.
func (s *GCSArtifactStore) Put(ctx context.Context, name string, data []byte) error {
	writer := s.object(name).NewWriter(ctx)
	writer.ContentType = "application/octet-stream"

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("write gcs object %s: %w", name, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close gcs writer for %s: %w", name, err)
	}
	return nil
}

// Get downloads object bytes.
func (s *GCSArtifactStore) Get(ctx context.Context, name string) ([]byte, error) {
	reader, err := s.object(name).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("gcs object %s: %w", name, ErrVersionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open gcs object %s: %w", name, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read gcs object %s: %w", name, err)
	}
	return data, nil
}

// Close releases the underlying GCS client.
func (s *GCSArtifactStore) Close() error {
	return s.client.Close()
}
