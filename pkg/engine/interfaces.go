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

package engine

//go:generate mockgen -destination=mock_engine.go -package=engine github.com/carverauto/canopy/pkg/engine LineageResolver,DeviceRegistry,WakeStore,TransferStore,ChunkStore,ArtifactStore,CompletionNotifier,DirectivePublisher,Clock

import (
	"context"
	"time"

	"github.com/carverauto/canopy/pkg/models"
)

// LineageResolver resolves a device's ownership chain, timezone, and
// effective schedule expressions. Unknown devices resolve to an unmapped
// lineage, not an error.
type LineageResolver interface {
	Resolve(ctx context.Context, deviceID string) (*models.Lineage, error)
}

// DeviceRegistry mutates device rows as wakes progress.
type DeviceRegistry interface {
	RecordStatus(ctx context.Context, deviceID string, pendingImages int, telemetry *models.Telemetry) error
	UpdateTelemetry(ctx context.Context, deviceID string, telemetry *models.Telemetry) error
	CommitWake(ctx context.Context, deviceID string, lastWake, nextWake time.Time) error
}

// WakeStore persists wake lifecycle records.
type WakeStore interface {
	CreateWakeEvent(ctx context.Context, ev *models.WakeEvent) error
	GetWakeEvent(ctx context.Context, id string) (*models.WakeEvent, error)
	GetOpenWakeEvent(ctx context.Context, deviceID string) (*models.WakeEvent, error)
	TransitionWakeState(ctx context.Context, id string, from, to models.ProtocolState) error
	AttachWakeArtifact(ctx context.Context, id, artifactName string) error
	IncrementImagesRequested(ctx context.Context, id string) error
	IncrementImagesCompleted(ctx context.Context, id string) error
}

// TransferStore persists artifact reassembly state.
type TransferStore interface {
	CreateOrReuseTransfer(ctx context.Context, t *models.ImageTransfer) (*models.ImageTransfer, bool, error)
	GetReceivingTransfer(ctx context.Context, deviceID, artifactName string) (*models.ImageTransfer, error)
	UpdateTransferProgress(ctx context.Context, id string, receivedCount int) error
	RecordMissingRequest(ctx context.Context, id string, missing []int) error
	MarkTransferComplete(ctx context.Context, id, storageLocation string) error
	MarkTransferFailed(ctx context.Context, id string, code models.FailureCode) error
}

// ChunkStore is the idempotent fragment store backing reassembly.
type ChunkStore interface {
	StoreFragment(ctx context.Context, frag *models.FragmentRecord) (bool, error)
	ReceivedCount(ctx context.Context, deviceID, artifactName string) (int, error)
	IsComplete(ctx context.Context, deviceID, artifactName string, declaredTotal int) (bool, error)
	MissingIndices(ctx context.Context, deviceID, artifactName string, declaredTotal int) ([]int, error)
	Assemble(ctx context.Context, deviceID, artifactName string, declaredTotal int) ([]byte, error)
	Clear(ctx context.Context, deviceID, artifactName string) (int64, error)
}

// ArtifactStore writes assembled artifacts to durable storage and returns
// an addressable location.
type ArtifactStore interface {
	Put(ctx context.Context, key string, data []byte) (string, error)
}

// CompletionNotifier carries finished and failed transfers downstream.
type CompletionNotifier interface {
	CaptureCompleted(ctx context.Context, rec *models.CaptureRecord) error
	NotifyTransferFailed(ctx context.Context, failure *models.TransferFailure) error
}

// DirectivePublisher emits the three outbound device directives.
type DirectivePublisher interface {
	CaptureRequest(ctx context.Context, deviceID, artifactName string) error
	RequestMissing(ctx context.Context, deviceID, artifactName string, indices []int) error
	SleepUntil(ctx context.Context, deviceID, formattedWake string) error
}

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
