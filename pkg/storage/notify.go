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
	"fmt"

	"github.com/carverauto/canopy/pkg/logger"
	"github.com/carverauto/canopy/pkg/models"
)

const (
	subjectCaptureCompleted = "canopy.events.capture.completed"
	subjectTransferFailed   = "canopy.events.transfer.failed"
)

// Notifier records completed captures and publishes the completion and
// failure CloudEvents.
type Notifier struct {
	captures  CaptureInserter
	publisher EventPublisher
	logger    logger.Logger
}

// NewNotifier wires the notifier over the capture catalog and event
// publisher.
func NewNotifier(captures CaptureInserter, publisher EventPublisher, log logger.Logger) *Notifier {
	return &Notifier{
		captures:  captures,
		publisher: publisher,
		logger:    log,
	}
}

// CaptureCompleted writes the capture catalog row linking the artifact to
// its owning lineage, then publishes the completion event. The catalog row
// is the durable linkage; the event is best-effort fan-out and failing it
// fails the call so the caller can report completion_failed.
func (n *Notifier) CaptureCompleted(ctx context.Context, rec *models.CaptureRecord) error {
	if rec == nil {
		return ErrCaptureNil
	}

	if err := n.captures.InsertCapture(ctx, rec); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFailedToRecordCapture, rec.ArtifactName, err)
	}

	if err := n.publisher.Publish(ctx, models.EventTypeCaptureCompleted, subjectCaptureCompleted, rec); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFailedToPublishEvent, models.EventTypeCaptureCompleted, err)
	}

	n.logger.Info().
		Str("device_id", rec.DeviceID).
		Str("artifact", rec.ArtifactName).
		Str("location", rec.StorageLocation).
		Msg("capture completed")

	return nil
}

// NotifyTransferFailed publishes the typed failure event.
func (n *Notifier) NotifyTransferFailed(ctx context.Context, failure *models.TransferFailure) error {
	if failure == nil {
		return ErrFailureNil
	}

	if err := n.publisher.Publish(ctx, models.EventTypeTransferFailed, subjectTransferFailed, failure); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFailedToPublishEvent, models.EventTypeTransferFailed, err)
	}

	n.logger.Warn().
		Str("device_id", failure.DeviceID).
		Str("artifact", failure.ArtifactName).
		Str("code", string(failure.Code)).
		Msg("transfer failed")

	return nil
}
