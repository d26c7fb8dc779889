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

package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/carverauto/canopy/pkg/models"
)

const (
	insertWakeEventSQL = `
INSERT INTO wake_events (
	id,
	device_id,
	capture_id,
	artifact_name,
	state,
	pending_reported,
	images_requested,
	images_completed,
	is_complete,
	created_at,
	updated_at
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11
)`

	selectWakeEventSQL = `
SELECT id, device_id, capture_id, artifact_name, state, pending_reported,
       images_requested, images_completed, ack_issued_at, capture_requested_at,
       sleep_issued_at, is_complete, created_at, updated_at
FROM wake_events`
)

// CreateWakeEvent records the start of a wake. Missing identifiers and
// timestamps are filled in and written back to ev.
func (db *DB) CreateWakeEvent(ctx context.Context, ev *models.WakeEvent) error {
	if ev == nil {
		return ErrWakeEventNil
	}

	if strings.TrimSpace(ev.DeviceID) == "" {
		return ErrWakeDeviceRequired
	}

	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}

	if ev.CaptureID == "" {
		ev.CaptureID = uuid.NewString()
	}

	if ev.State == "" {
		ev.State = models.StateHelloReceived
	}

	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	ev.UpdatedAt = ev.CreatedAt

	_, err := db.pool.Exec(ctx, insertWakeEventSQL,
		ev.ID,
		ev.DeviceID,
		ev.CaptureID,
		ev.ArtifactName,
		ev.State,
		ev.PendingReported,
		ev.ImagesRequested,
		ev.ImagesCompleted,
		ev.IsComplete,
		ev.CreatedAt,
		ev.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w wake event: %w", ErrFailedToInsert, err)
	}

	return nil
}

// GetWakeEvent loads one wake event by id.
func (db *DB) GetWakeEvent(ctx context.Context, id string) (*models.WakeEvent, error) {
	row := db.pool.QueryRow(ctx, selectWakeEventSQL+` WHERE id = $1`, id)

	ev, err := scanWakeEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrWakeEventNotFound, id)
		}

		return nil, fmt.Errorf("%w wake event: %w", ErrFailedToScan, err)
	}

	return ev, nil
}

// GetOpenWakeEvent returns the newest wake for a device that has not yet
// reached a terminal state.
func (db *DB) GetOpenWakeEvent(ctx context.Context, deviceID string) (*models.WakeEvent, error) {
	row := db.pool.QueryRow(ctx, selectWakeEventSQL+`
 WHERE device_id = $1 AND state NOT IN ($2, $3, $4)
 ORDER BY created_at DESC
 LIMIT 1`,
		deviceID, models.StateComplete, models.StateSleepOnly, models.StateFailed)

	ev, err := scanWakeEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no open wake for device %s", ErrWakeEventNotFound, deviceID)
		}

		return nil, fmt.Errorf("%w open wake event: %w", ErrFailedToScan, err)
	}

	return ev, nil
}

// TransitionWakeState advances a wake from one state to another as a
// compare-and-set. Milestone timestamps are stamped by target state:
// ack_sent records the acknowledgment, snap_sent the capture request, and
// the terminal sleep_only/complete states the sleep directive. Illegal
// transitions are rejected before touching the database.
func (db *DB) TransitionWakeState(ctx context.Context, id string, from, to models.ProtocolState) error {
	if !from.CanTransition(to) {
		return fmt.Errorf("%w: %s to %s", ErrIllegalTransition, from, to)
	}

	set := "state = $1, updated_at = now()"

	switch to {
	case models.StateAckSent:
		set += ", ack_issued_at = now()"
	case models.StateSnapSent:
		set += ", capture_requested_at = now()"
	case models.StateSleepOnly:
		set += ", sleep_issued_at = now()"
	case models.StateComplete:
		set += ", sleep_issued_at = now(), is_complete = TRUE"
	}

	tag, err := db.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE wake_events SET %s WHERE id = $2 AND state = $3`, set),
		to, id, from)
	if err != nil {
		return fmt.Errorf("%w wake state: %w", ErrFailedToUpdate, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: wake %s is not in state %s", ErrWakeStateConflict, id, from)
	}

	return nil
}

// AttachWakeArtifact records the device-chosen artifact name on the wake.
func (db *DB) AttachWakeArtifact(ctx context.Context, id, artifactName string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE wake_events SET artifact_name = $2, updated_at = now() WHERE id = $1`,
		id, artifactName)
	if err != nil {
		return fmt.Errorf("%w wake artifact: %w", ErrFailedToUpdate, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrWakeEventNotFound, id)
	}

	return nil
}

// IncrementImagesRequested bumps the per-wake request counter when a
// capture command goes out.
func (db *DB) IncrementImagesRequested(ctx context.Context, id string) error {
	return db.bumpWakeCounter(ctx, id, "images_requested")
}

// IncrementImagesCompleted bumps the per-wake completion counter once an
// artifact finishes the pipeline.
func (db *DB) IncrementImagesCompleted(ctx context.Context, id string) error {
	return db.bumpWakeCounter(ctx, id, "images_completed")
}

func (db *DB) bumpWakeCounter(ctx context.Context, id, column string) error {
	tag, err := db.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE wake_events SET %s = %s + 1, updated_at = now() WHERE id = $1`, column, column),
		id)
	if err != nil {
		return fmt.Errorf("%w wake counter %s: %w", ErrFailedToUpdate, column, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrWakeEventNotFound, id)
	}

	return nil
}

func scanWakeEvent(row pgx.Row) (*models.WakeEvent, error) {
	var ev models.WakeEvent

	if err := row.Scan(
		&ev.ID,
		&ev.DeviceID,
		&ev.CaptureID,
		&ev.ArtifactName,
		&ev.State,
		&ev.PendingReported,
		&ev.ImagesRequested,
		&ev.ImagesCompleted,
		&ev.AckIssuedAt,
		&ev.CaptureRequestedAt,
		&ev.SleepIssuedAt,
		&ev.IsComplete,
		&ev.CreatedAt,
		&ev.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &ev, nil
}
