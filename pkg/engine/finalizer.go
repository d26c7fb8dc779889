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

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carverauto/canopy/pkg/alerts"
	"github.com/carverauto/canopy/pkg/db"
	"github.com/carverauto/canopy/pkg/models"
	"github.com/carverauto/canopy/pkg/schedule"
)

// finalize closes out a completed transfer: assemble, upload, notify
// downstream, advance the wake, commit the next schedule slot, and put the
// device to sleep. It runs once per transfer: the chunk-store clear at the
// end empties the key, so a later call finds the store incomplete and
// becomes a no-op, and the transfer-status compare-and-set stops any
// concurrent completion.
//
// Failures before the transfer is marked complete report a typed code and
// stop; the device's own pending counter drives re-attempt on a future
// wake. Failures after that point are logged and the remaining close-out
// steps still run where they can: the artifact is durable, and a device
// that never hears its sleep directive times out onto its own fallback
// schedule and re-announces next wake.
func (e *Engine) finalize(ctx context.Context, wake *models.WakeEvent, transfer *models.ImageTransfer) error {
	ctx, span := e.tracer.Start(ctx, "FinalizeTransfer")
	defer span.End()

	span.SetAttributes(
		attribute.String("device_id", transfer.DeviceID),
		attribute.String("artifact", transfer.ArtifactName),
		attribute.Int("declared_total", transfer.DeclaredTotal),
	)

	lin, err := e.lineage.Resolve(ctx, transfer.DeviceID)
	if err != nil {
		return err
	}

	// Finalize gate: a cleared chunk store means another pass already
	// finished this artifact.
	complete, err := e.chunks.IsComplete(ctx, transfer.DeviceID, transfer.ArtifactName, transfer.DeclaredTotal)
	if err != nil {
		return err
	}

	if !complete {
		e.logger.Debug().
			Str("device_id", transfer.DeviceID).
			Str("artifact", transfer.ArtifactName).
			Msg("Chunk store already cleared, skipping finalize")

		return nil
	}

	data, err := e.chunks.Assemble(ctx, transfer.DeviceID, transfer.ArtifactName, transfer.DeclaredTotal)
	if err != nil {
		span.RecordError(err)
		e.failTransfer(ctx, wake, transfer, models.FailureAssembly, fmt.Sprintf("assembly failed: %v", err))

		return nil
	}

	key := lin.StoragePrefix() + "/" + transfer.ArtifactName

	location, err := e.artifacts.Put(ctx, key, data)
	if err != nil {
		span.RecordError(err)
		e.failTransfer(ctx, wake, transfer, models.FailureUpload, fmt.Sprintf("upload failed: %v", err))

		return nil
	}

	rec := &models.CaptureRecord{
		CaptureID:        wake.CaptureID,
		DeviceID:         transfer.DeviceID,
		OrgID:            lin.OrgID,
		SiteID:           lin.SiteID,
		ArtifactName:     transfer.ArtifactName,
		StorageLocation:  location,
		SizeBytes:        len(data),
		Fragments:        transfer.DeclaredTotal,
		CaptureTimestamp: transfer.CaptureTimestamp,
		CompletedAt:      e.clock.Now().UTC(),
	}

	if err := e.notifier.CaptureCompleted(ctx, rec); err != nil {
		span.RecordError(err)
		e.failTransfer(ctx, wake, transfer, models.FailureCompletion, fmt.Sprintf("completion handler failed: %v", err))

		return nil
	}

	if err := e.transfers.MarkTransferComplete(ctx, transfer.ID, location); err != nil {
		if errors.Is(err, db.ErrTransferNotReceiving) {
			e.logger.Debug().
				Str("transfer_id", transfer.ID).
				Msg("Transfer already settled, finalize lost the race")

			return nil
		}

		return err
	}

	if wake.State == models.StateSnapSent {
		if err := e.wakes.TransitionWakeState(ctx, wake.ID, models.StateSnapSent, models.StateMetadataReceived); err != nil {
			e.logger.Warn().Err(err).Str("wake_id", wake.ID).Msg("Could not advance wake to metadata_received")
		} else {
			wake.State = models.StateMetadataReceived
		}
	}

	// Next wake is computed from the instant the device actually woke,
	// never from a previously scheduled slot, so late wakes self-correct
	// instead of compounding drift.
	loc := e.locationFor(lin)
	next := e.scheduleFor(lin).Next(wake.CreatedAt, loc)
	formatted := schedule.FormatWakeTime(next, loc)

	if err := e.devices.CommitWake(ctx, transfer.DeviceID, wake.CreatedAt, next); err != nil {
		e.logger.Error().Err(err).Str("device_id", transfer.DeviceID).Msg("Could not commit wake schedule")
	}

	sleepIssued := true

	if err := e.directives.SleepUntil(ctx, transfer.DeviceID, formatted); err != nil {
		sleepIssued = false

		e.logger.Error().Err(err).Str("device_id", transfer.DeviceID).Msg("Could not issue sleep directive")
	}

	if sleepIssued && wake.State == models.StateMetadataReceived {
		if err := e.wakes.TransitionWakeState(ctx, wake.ID, models.StateMetadataReceived, models.StateComplete); err != nil {
			e.logger.Warn().Err(err).Str("wake_id", wake.ID).Msg("Could not complete wake")
		}

		if err := e.wakes.IncrementImagesCompleted(ctx, wake.ID); err != nil {
			e.logger.Warn().Err(err).Str("wake_id", wake.ID).Msg("Could not bump completed counter")
		}
	}

	if _, err := e.chunks.Clear(ctx, transfer.DeviceID, transfer.ArtifactName); err != nil {
		e.logger.Warn().Err(err).
			Str("device_id", transfer.DeviceID).
			Str("artifact", transfer.ArtifactName).
			Msg("Could not clear fragments, sweep will collect them")
	}

	recordWakeCompleted(ctx)

	e.logger.Info().
		Str("device_id", transfer.DeviceID).
		Str("artifact", transfer.ArtifactName).
		Str("location", location).
		Int("size_bytes", len(data)).
		Int("fragments", transfer.DeclaredTotal).
		Str("next_wake", formatted).
		Msg("Capture finalized")

	return nil
}

// failTransfer settles a transfer with a typed failure code, fails its
// wake, and reports outward. Below this point errors are logged and
// swallowed: the reporting party is an unattended device, and its pending
// counter is the retry mechanism.
func (e *Engine) failTransfer(ctx context.Context, wake *models.WakeEvent, transfer *models.ImageTransfer, code models.FailureCode, msg string) {
	e.logger.Error().
		Str("device_id", transfer.DeviceID).
		Str("artifact", transfer.ArtifactName).
		Str("code", string(code)).
		Str("reason", msg).
		Msg("Transfer failed")

	recordTransferFailed(ctx, string(code))

	if err := e.transfers.MarkTransferFailed(ctx, transfer.ID, code); err != nil && !errors.Is(err, db.ErrTransferNotReceiving) {
		e.logger.Error().Err(err).Str("transfer_id", transfer.ID).Msg("Could not mark transfer failed")
	}

	if wake != nil && !wake.State.Terminal() {
		if err := e.wakes.TransitionWakeState(ctx, wake.ID, wake.State, models.StateFailed); err != nil {
			e.logger.Warn().Err(err).Str("wake_id", wake.ID).Msg("Could not fail wake")
		}
	}

	failure := &models.TransferFailure{
		DeviceID:     transfer.DeviceID,
		ArtifactName: transfer.ArtifactName,
		Code:         code,
		Message:      msg,
		FailedAt:     e.clock.Now().UTC(),
	}

	if err := e.notifier.NotifyTransferFailed(ctx, failure); err != nil {
		e.logger.Error().Err(err).Str("device_id", transfer.DeviceID).Msg("Could not publish failure notification")
	}

	if e.alerter == nil {
		return
	}

	alert := &alerts.WebhookAlert{
		Level:    alerts.Error,
		Title:    "Image Transfer Failed",
		Message:  msg,
		DeviceID: transfer.DeviceID,
		Details: map[string]any{
			"artifact": transfer.ArtifactName,
			"code":     string(code),
		},
	}

	if err := e.alerter.Alert(ctx, alert); err != nil {
		if errors.Is(err, alerts.ErrWebhookCooldown) {
			e.logger.Debug().Str("device_id", transfer.DeviceID).Msg("Failure alert suppressed by cooldown")
			return
		}

		e.logger.Error().Err(err).Msg("Could not send failure alert")
	}
}

// scheduleFor resolves the device's effective schedule, falling back to
// the configured default hour when nothing is set or the stored
// expressions cannot be parsed.
func (e *Engine) scheduleFor(lin *models.Lineage) schedule.Schedule {
	deviceExpr := stringValue(lin.DeviceSchedule)
	siteExpr := stringValue(lin.SiteSchedule)

	if deviceExpr == "" && siteExpr == "" {
		return schedule.DefaultAt(e.cfg.DefaultWakeHour)
	}

	sched, err := schedule.Resolve(deviceExpr, siteExpr)
	if err != nil {
		e.logger.Warn().Err(err).
			Str("device_id", lin.DeviceID).
			Str("device_schedule", deviceExpr).
			Str("site_schedule", siteExpr).
			Msg("Malformed wake schedule, using default")

		return schedule.DefaultAt(e.cfg.DefaultWakeHour)
	}

	return sched
}

// locationFor loads the lineage's timezone, defaulting to UTC.
func (e *Engine) locationFor(lin *models.Lineage) *time.Location {
	if lin.Timezone == "" {
		return time.UTC
	}

	loc, err := time.LoadLocation(lin.Timezone)
	if err != nil {
		e.logger.Warn().
			Str("device_id", lin.DeviceID).
			Str("timezone", lin.Timezone).
			Msg("Unknown timezone, using UTC")

		return time.UTC
	}

	return loc
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
