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
	"encoding/json"
	"errors"
	"fmt"

	"github.com/carverauto/canopy/pkg/db"
	"github.com/carverauto/canopy/pkg/models"
	"github.com/carverauto/canopy/pkg/schedule"
)

const (
	subjectKindStatus    = "status"
	subjectKindData      = "data"
	subjectKindTelemetry = "telemetry"
)

// route dispatches one inbound payload to its handler by subject kind.
func (e *Engine) route(ctx context.Context, kind string, data []byte) error {
	switch kind {
	case subjectKindStatus:
		var msg models.StatusMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return fmt.Errorf("%w: status: %w", ErrMalformedMessage, err)
		}

		if err := msg.Validate(); err != nil {
			return fmt.Errorf("%w: status: %w", ErrMalformedMessage, err)
		}

		return e.handleStatus(ctx, &msg)
	case subjectKindData:
		dataKind, meta, frag, err := models.ClassifyData(data)
		if err != nil {
			return fmt.Errorf("%w: data: %w", ErrMalformedMessage, err)
		}

		if dataKind == models.DataFragment {
			return e.handleFragment(ctx, frag)
		}

		return e.handleMetadata(ctx, meta)
	case subjectKindTelemetry:
		var msg models.TelemetryMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return fmt.Errorf("%w: telemetry: %w", ErrMalformedMessage, err)
		}

		if err := msg.Validate(); err != nil {
			return fmt.Errorf("%w: telemetry: %w", ErrMalformedMessage, err)
		}

		return e.handleTelemetry(ctx, &msg)
	default:
		return fmt.Errorf("%w: unknown subject kind %q", ErrMalformedMessage, kind)
	}
}

// handleStatus processes a wake announcement: the device is alive, holds
// pendingImages undelivered captures, and is waiting to be told what to do.
func (e *Engine) handleStatus(ctx context.Context, msg *models.StatusMessage) error {
	var tel *models.Telemetry
	if msg.Telemetry.HasReadings() {
		tel = &msg.Telemetry
	}

	// First contact creates the device row, so even unmapped devices
	// surface for operators.
	if err := e.devices.RecordStatus(ctx, msg.DeviceID, msg.PendingImages, tel); err != nil {
		return err
	}

	// A wake still open from an earlier radio session is dead: the device
	// only announces itself at the start of a session.
	if err := e.failStaleWake(ctx, msg.DeviceID); err != nil {
		return err
	}

	lin, err := e.lineage.Resolve(ctx, msg.DeviceID)
	if err != nil {
		return err
	}

	wake := &models.WakeEvent{
		DeviceID:        msg.DeviceID,
		State:           models.StateHelloReceived,
		PendingReported: msg.PendingImages,
	}

	if err := e.wakes.CreateWakeEvent(ctx, wake); err != nil {
		return err
	}

	recordWakeStarted(ctx)

	if !lin.Mapped || !lin.Approved {
		return e.sleepOnly(ctx, wake, lin)
	}

	if err := e.wakes.TransitionWakeState(ctx, wake.ID, models.StateHelloReceived, models.StateAckSent); err != nil {
		return err
	}

	artifact := fmt.Sprintf("%s_%d.jpg", msg.DeviceID, e.clock.Now().UTC().UnixMilli())

	if err := e.wakes.AttachWakeArtifact(ctx, wake.ID, artifact); err != nil {
		return err
	}

	if err := e.directives.CaptureRequest(ctx, msg.DeviceID, artifact); err != nil {
		return err
	}

	if err := e.wakes.TransitionWakeState(ctx, wake.ID, models.StateAckSent, models.StateSnapSent); err != nil {
		return err
	}

	if err := e.wakes.IncrementImagesRequested(ctx, wake.ID); err != nil {
		return err
	}

	e.logger.Info().
		Str("device_id", msg.DeviceID).
		Str("artifact", artifact).
		Int("pending_reported", msg.PendingImages).
		Msg("Capture requested")

	return nil
}

// failStaleWake closes out a leftover open wake before a new one begins.
func (e *Engine) failStaleWake(ctx context.Context, deviceID string) error {
	open, err := e.wakes.GetOpenWakeEvent(ctx, deviceID)
	if err != nil {
		if errors.Is(err, db.ErrWakeEventNotFound) {
			return nil
		}

		return err
	}

	e.logger.Warn().
		Str("device_id", deviceID).
		Str("wake_id", open.ID).
		Str("state", string(open.State)).
		Msg("Failing stale open wake")

	if err := e.wakes.TransitionWakeState(ctx, open.ID, open.State, models.StateFailed); err != nil {
		e.logger.Warn().Err(err).Str("wake_id", open.ID).Msg("Could not fail stale wake")
	}

	return nil
}

// sleepOnly is the short-circuit for unmapped or unapproved devices: no
// capture is requested, the device is just told when to come back. Nothing
// is lost, only deferred to when an operator maps the device. Device
// schedule state stays untouched; only the finalizer commits wake times.
func (e *Engine) sleepOnly(ctx context.Context, wake *models.WakeEvent, lin *models.Lineage) error {
	loc := e.locationFor(lin)
	next := e.scheduleFor(lin).Next(wake.CreatedAt, loc)
	formatted := schedule.FormatWakeTime(next, loc)

	if err := e.directives.SleepUntil(ctx, wake.DeviceID, formatted); err != nil {
		return err
	}

	if err := e.wakes.TransitionWakeState(ctx, wake.ID, models.StateHelloReceived, models.StateSleepOnly); err != nil {
		return err
	}

	e.logger.Info().
		Str("device_id", wake.DeviceID).
		Bool("mapped", lin.Mapped).
		Bool("approved", lin.Approved).
		Str("next_wake", formatted).
		Msg("Unprovisioned device sent back to sleep")

	return nil
}

// handleMetadata processes an artifact announcement: the device is about
// to stream declared_total fragments of image_name.
func (e *Engine) handleMetadata(ctx context.Context, meta *models.ImageMetadata) error {
	if meta.Telemetry.HasReadings() {
		if err := e.devices.UpdateTelemetry(ctx, meta.DeviceID, &meta.Telemetry); err != nil {
			e.logger.Warn().Err(err).Str("device_id", meta.DeviceID).Msg("Could not absorb metadata telemetry")
		}
	}

	// The device reports capture errors in-band on the metadata message.
	if meta.Error != "" {
		return e.handleDeviceError(ctx, meta)
	}

	wake, err := e.openOrAdoptWake(ctx, meta)
	if err != nil {
		return err
	}

	transfer, created, err := e.transfers.CreateOrReuseTransfer(ctx, &models.ImageTransfer{
		DeviceID:         meta.DeviceID,
		ArtifactName:     meta.ImageName,
		WakeEventID:      wake.ID,
		DeclaredTotal:    meta.TotalChunks,
		CaptureTimestamp: meta.CaptureTimestamp,
	})
	if err != nil {
		return err
	}

	if created {
		e.logger.Info().
			Str("device_id", meta.DeviceID).
			Str("artifact", meta.ImageName).
			Int("declared_total", meta.TotalChunks).
			Msg("Transfer started")
	} else {
		e.logger.Debug().
			Str("device_id", meta.DeviceID).
			Str("artifact", meta.ImageName).
			Msg("Metadata redelivered, reusing live transfer")
	}

	// Fragments may have raced ahead of the metadata, and a zero-fragment
	// artifact is complete on arrival.
	complete, err := e.chunks.IsComplete(ctx, meta.DeviceID, meta.ImageName, transfer.DeclaredTotal)
	if err != nil {
		return err
	}

	if complete {
		return e.finalize(ctx, wake, transfer)
	}

	return nil
}

// handleDeviceError fails the open wake when the device reports it could
// not produce the artifact.
func (e *Engine) handleDeviceError(ctx context.Context, meta *models.ImageMetadata) error {
	e.logger.Warn().
		Str("device_id", meta.DeviceID).
		Str("artifact", meta.ImageName).
		Str("device_error", meta.Error).
		Msg("Device reported capture failure")

	open, err := e.wakes.GetOpenWakeEvent(ctx, meta.DeviceID)
	if err != nil {
		if errors.Is(err, db.ErrWakeEventNotFound) {
			return nil
		}

		return err
	}

	if err := e.wakes.TransitionWakeState(ctx, open.ID, open.State, models.StateFailed); err != nil {
		e.logger.Warn().Err(err).Str("wake_id", open.ID).Msg("Could not fail wake after device error")
	}

	return nil
}

// openOrAdoptWake finds the device's open wake for this artifact, creating
// and fast-forwarding one when the wake opened mid-stream (engine restart
// between the capture request and the metadata).
func (e *Engine) openOrAdoptWake(ctx context.Context, meta *models.ImageMetadata) (*models.WakeEvent, error) {
	wake, err := e.wakes.GetOpenWakeEvent(ctx, meta.DeviceID)
	if err != nil {
		if !errors.Is(err, db.ErrWakeEventNotFound) {
			return nil, err
		}

		wake = &models.WakeEvent{
			DeviceID:     meta.DeviceID,
			ArtifactName: meta.ImageName,
			State:        models.StateHelloReceived,
		}

		if err := e.wakes.CreateWakeEvent(ctx, wake); err != nil {
			return nil, err
		}

		e.logger.Info().
			Str("device_id", meta.DeviceID).
			Str("artifact", meta.ImageName).
			Msg("Adopting wake opened mid-stream")
	}

	// Fast-forward an early wake to snap_sent so the metadata lands on a
	// wake in the expected state.
	for _, step := range []struct{ from, to models.ProtocolState }{
		{models.StateHelloReceived, models.StateAckSent},
		{models.StateAckSent, models.StateSnapSent},
	} {
		if wake.State != step.from {
			continue
		}

		if err := e.wakes.TransitionWakeState(ctx, wake.ID, step.from, step.to); err != nil {
			return nil, err
		}

		wake.State = step.to
	}

	if wake.ArtifactName != meta.ImageName {
		if wake.ArtifactName != "" {
			e.logger.Warn().
				Str("device_id", meta.DeviceID).
				Str("expected", wake.ArtifactName).
				Str("announced", meta.ImageName).
				Msg("Device announced a different artifact than requested")
		}

		if err := e.wakes.AttachWakeArtifact(ctx, wake.ID, meta.ImageName); err != nil {
			return nil, err
		}

		wake.ArtifactName = meta.ImageName
	}

	return wake, nil
}

// handleFragment stores one chunk and decides whether the transfer is now
// complete or needs a targeted retransmission request.
func (e *Engine) handleFragment(ctx context.Context, frag *models.ImageFragment) error {
	stored, err := e.chunks.StoreFragment(ctx, &models.FragmentRecord{
		DeviceID:     frag.DeviceID,
		ArtifactName: frag.ImageName,
		Index:        frag.Index,
		Payload:      frag.Payload,
		ExpiresAt:    e.clock.Now().UTC().Add(e.cfg.FragmentTTL),
	})
	if err != nil {
		return err
	}

	recordFragmentStored(ctx, stored)

	e.logger.Debug().
		Str("device_id", frag.DeviceID).
		Str("artifact", frag.ImageName).
		Int("index", frag.Index).
		Bool("newly_stored", stored).
		Msg("Fragment received")

	transfer, err := e.transfers.GetReceivingTransfer(ctx, frag.DeviceID, frag.ImageName)
	if err != nil {
		if errors.Is(err, db.ErrTransferNotFound) {
			// Fragment raced ahead of its metadata. The bytes are stored;
			// the metadata's completeness check or the TTL sweep resolves
			// them.
			e.logger.Debug().
				Str("device_id", frag.DeviceID).
				Str("artifact", frag.ImageName).
				Msg("Fragment held, no live transfer yet")

			return nil
		}

		return err
	}

	received, err := e.chunks.ReceivedCount(ctx, frag.DeviceID, frag.ImageName)
	if err != nil {
		return err
	}

	if err := e.transfers.UpdateTransferProgress(ctx, transfer.ID, received); err != nil {
		if errors.Is(err, db.ErrTransferNotReceiving) {
			return nil
		}

		return err
	}

	complete, err := e.chunks.IsComplete(ctx, frag.DeviceID, frag.ImageName, transfer.DeclaredTotal)
	if err != nil {
		return err
	}

	if complete {
		wake, err := e.wakeForTransfer(ctx, transfer)
		if err != nil {
			return err
		}

		return e.finalize(ctx, wake, transfer)
	}

	if e.shouldRequestMissing(frag.Index, transfer) {
		return e.requestMissing(ctx, transfer)
	}

	return nil
}

// shouldRequestMissing reports whether this fragment ends a send pass: the
// device just sent its last declared index, or the last index of the list
// it was previously asked to resend. Either way the transfer is still
// incomplete, so it is time for one targeted re-request.
func (e *Engine) shouldRequestMissing(index int, transfer *models.ImageTransfer) bool {
	if transfer.DeclaredTotal > 0 && index == transfer.DeclaredTotal-1 {
		return true
	}

	if n := len(transfer.MissingRequest); n > 0 && index == transfer.MissingRequest[n-1] {
		return true
	}

	return false
}

// requestMissing sends a single targeted retransmission request, never a
// full-image restart.
func (e *Engine) requestMissing(ctx context.Context, transfer *models.ImageTransfer) error {
	missing, err := e.chunks.MissingIndices(ctx, transfer.DeviceID, transfer.ArtifactName, transfer.DeclaredTotal)
	if err != nil {
		return err
	}

	if len(missing) == 0 {
		return nil
	}

	if err := e.directives.RequestMissing(ctx, transfer.DeviceID, transfer.ArtifactName, missing); err != nil {
		return err
	}

	if err := e.transfers.RecordMissingRequest(ctx, transfer.ID, missing); err != nil {
		if !errors.Is(err, db.ErrTransferNotReceiving) {
			return err
		}
	}

	e.logger.Info().
		Str("device_id", transfer.DeviceID).
		Str("artifact", transfer.ArtifactName).
		Ints("missing", missing).
		Int("request_count", transfer.RequestCount+1).
		Msg("Requested missing fragments")

	return nil
}

// wakeForTransfer loads the wake a transfer belongs to, falling back to
// the device's open wake for rows linked before the wake existed.
func (e *Engine) wakeForTransfer(ctx context.Context, transfer *models.ImageTransfer) (*models.WakeEvent, error) {
	if transfer.WakeEventID != "" {
		return e.wakes.GetWakeEvent(ctx, transfer.WakeEventID)
	}

	return e.wakes.GetOpenWakeEvent(ctx, transfer.DeviceID)
}

// handleTelemetry records standalone sensor readings. This is the only
// message kind that never touches the wake or transfer path.
func (e *Engine) handleTelemetry(ctx context.Context, msg *models.TelemetryMessage) error {
	if !msg.Telemetry.HasReadings() {
		e.logger.Debug().Str("device_id", msg.DeviceID).Msg("Telemetry message with no readings")
		return nil
	}

	if err := e.devices.UpdateTelemetry(ctx, msg.DeviceID, &msg.Telemetry); err != nil {
		return err
	}

	e.logger.Debug().Str("device_id", msg.DeviceID).Msg("Telemetry recorded")

	return nil
}
