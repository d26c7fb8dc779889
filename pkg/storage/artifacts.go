/*
 * Copyright 2026 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package storage persists assembled artifacts in the JetStream object
// store and emits the completion and failure events that downstream
// consumers key off.
package storage

import (
	"context"
	"fmt"

	"github.com/carverauto/canopy/pkg/logger"
)

// DefaultBucket is the object-store bucket artifacts land in when none is
// configured.
const DefaultBucket = "canopy-images"

// ArtifactStorage writes assembled artifacts into a JetStream object-store
// bucket. Writing the same key twice overwrites, which is what a finalizer
// retry on a future wake wants.
type ArtifactStorage struct {
	bucket ObjectPutter
	name   string
	logger logger.Logger
}

// NewArtifactStorage returns artifact storage over the given bucket.
// bucketName is embedded in returned locations.
func NewArtifactStorage(bucket ObjectPutter, bucketName string, log logger.Logger) *ArtifactStorage {
	return &ArtifactStorage{
		bucket: bucket,
		name:   bucketName,
		logger: log,
	}
}

// Put stores data under key and returns its addressable location.
func (s *ArtifactStorage) Put(ctx context.Context, key string, data []byte) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}

	if len(data) == 0 {
		return "", fmt.Errorf("%w: %s", ErrEmptyPayload, key)
	}

	info, err := s.bucket.PutBytes(ctx, key, data)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrFailedToUpload, key, err)
	}

	s.logger.Info().
		Str("key", key).
		Uint64("size", info.Size).
		Msg("stored artifact")

	return fmt.Sprintf("nats-obj://%s/%s", s.name, key), nil
}
