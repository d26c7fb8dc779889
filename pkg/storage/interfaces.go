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

package storage

import (
	"context"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/canopy/pkg/models"
)

//go:generate mockgen -destination=mock_storage.go -package=storage github.com/carverauto/canopy/pkg/storage ObjectPutter,EventPublisher,CaptureInserter

// ObjectPutter is the slice of the JetStream object store the artifact
// writer uses.
type ObjectPutter interface {
	PutBytes(ctx context.Context, key string, data []byte) (*jetstream.ObjectInfo, error)
}

// EventPublisher publishes CloudEvents envelopes.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, subject string, data interface{}) error
}

// CaptureInserter persists completed-capture catalog rows.
type CaptureInserter interface {
	InsertCapture(ctx context.Context, rec *models.CaptureRecord) error
}
