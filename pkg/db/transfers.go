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
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/carverauto/canopy/pkg/models"
)

const (
	insertTransferSQL = `
INSERT INTO image_transfers (
	id,
	device_id,
	artifact_name,
	wake_event_id,
	declared_total,
	received_count,
	capture_timestamp,
	status,
	failure_code,
	storage_location,
	missing_request,
	request_count,
	created_at,
	updated_at
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14
)
ON CONFLICT (device_id, artifact_name) WHERE status = 'receiving' DO NOTHING`

	selectTransferColumns = `
SELECT id, device_id, artifact_name, wake_event_id, declared_total,
       received_count, capture_timestamp, status, failure_code,
       storage_location, missing_request, request_count, created_at,
       updated_at`
)

// CreateOrReuseTransfer inserts a fresh transfer for (device, artifact) or,
// when a live one already exists, returns that row instead. The returned
// bool reports whether a new transfer was created.
func (db *DB) CreateOrReuseTransfer(ctx context.Context, t *models.ImageTransfer) (*models.ImageTransfer, bool, error) {
	if t == nil {
		return nil, false, ErrTransferNil
	}

	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	if t.Status == "" {
		t.Status = models.TransferReceiving
	}

	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	t.UpdatedAt = t.CreatedAt

	if t.MissingRequest == nil {
		t.MissingRequest = []int{}
	}

	tag, err := db.pool.Exec(ctx, insertTransferSQL,
		t.ID,
		t.DeviceID,
		t.ArtifactName,
		nullableID(t.WakeEventID),
		t.DeclaredTotal,
		t.ReceivedCount,
		t.CaptureTimestamp,
		t.Status,
		string(t.FailureCode),
		t.StorageLocation,
		t.MissingRequest,
		t.RequestCount,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		return nil, false, fmt.Errorf("%w image transfer: %w", ErrFailedToInsert, err)
	}

	if tag.RowsAffected() > 0 {
		return t, true, nil
	}

	existing, err := db.GetReceivingTransfer(ctx, t.DeviceID, t.ArtifactName)
	if err != nil {
		return nil, false, err
	}

	return existing, false, nil
}

// GetReceivingTransfer returns the live transfer for (device, artifact).
func (db *DB) GetReceivingTransfer(ctx context.Context, deviceID, artifactName string) (*models.ImageTransfer, error) {
	row := db.pool.QueryRow(ctx, selectTransferColumns+`
FROM image_transfers
WHERE device_id = $1 AND artifact_name = $2 AND status = $3`,
		deviceID, artifactName, models.TransferReceiving)

	t, err := scanTransfer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s/%s", ErrTransferNotFound, deviceID, artifactName)
		}

		return nil, fmt.Errorf("%w image transfer: %w", ErrFailedToScan, err)
	}

	return t, nil
}

// UpdateTransferProgress refreshes the received-fragment count, which also
// bumps updated_at and keeps the transfer out of the staleness sweep.
func (db *DB) UpdateTransferProgress(ctx context.Context, id string, receivedCount int) error {
	return db.updateReceiving(ctx, id, "progress",
		`UPDATE image_transfers
		 SET received_count = $2, updated_at = now()
		 WHERE id = $1 AND status = 'receiving'`, receivedCount)
}

// RecordMissingRequest remembers the missing-fragment list just sent to the
// device and bumps the request counter.
func (db *DB) RecordMissingRequest(ctx context.Context, id string, missing []int) error {
	if missing == nil {
		missing = []int{}
	}

	return db.updateReceiving(ctx, id, "missing request",
		`UPDATE image_transfers
		 SET missing_request = $2, request_count = request_count + 1, updated_at = now()
		 WHERE id = $1 AND status = 'receiving'`, missing)
}

// MarkTransferComplete finishes a live transfer, recording where the
// assembled artifact was stored.
func (db *DB) MarkTransferComplete(ctx context.Context, id, storageLocation string) error {
	return db.updateReceiving(ctx, id, "completion",
		`UPDATE image_transfers
		 SET status = 'complete', storage_location = $2, updated_at = now()
		 WHERE id = $1 AND status = 'receiving'`, storageLocation)
}

// MarkTransferFailed fails a live transfer with a typed failure code.
func (db *DB) MarkTransferFailed(ctx context.Context, id string, code models.FailureCode) error {
	return db.updateReceiving(ctx, id, "failure",
		`UPDATE image_transfers
		 SET status = 'failed', failure_code = $2, updated_at = now()
		 WHERE id = $1 AND status = 'receiving'`, string(code))
}

func (db *DB) updateReceiving(ctx context.Context, id, op, sql string, arg interface{}) error {
	tag, err := db.pool.Exec(ctx, sql, id, arg)
	if err != nil {
		return fmt.Errorf("%w transfer %s: %w", ErrFailedToUpdate, op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrTransferNotReceiving, id)
	}

	return nil
}

// FailStaleTransfers claims every live transfer whose last activity is
// older than cutoff, marking each failed with the timeout code. Each
// returned transfer was claimed by exactly one caller, so failure
// notifications fire once per abandonment.
func (db *DB) FailStaleTransfers(ctx context.Context, cutoff time.Time) ([]*models.ImageTransfer, error) {
	rows, err := db.pool.Query(ctx, `
UPDATE image_transfers
SET status = 'failed', failure_code = $2, updated_at = now()
WHERE status = 'receiving' AND updated_at < $1
RETURNING id, device_id, artifact_name, wake_event_id, declared_total,
          received_count, capture_timestamp, status, failure_code,
          storage_location, missing_request, request_count, created_at,
          updated_at`,
		cutoff, string(models.FailureTimeout))
	if err != nil {
		return nil, fmt.Errorf("%w stale transfers: %w", ErrFailedToUpdate, err)
	}
	defer rows.Close()

	var stale []*models.ImageTransfer

	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("%w stale transfer row: %w", ErrFailedToScan, err)
		}
		stale = append(stale, t)
	}

	return stale, rows.Err()
}

func scanTransfer(row pgx.Row) (*models.ImageTransfer, error) {
	var (
		t           models.ImageTransfer
		wakeEventID *string
	)

	if err := row.Scan(
		&t.ID,
		&t.DeviceID,
		&t.ArtifactName,
		&wakeEventID,
		&t.DeclaredTotal,
		&t.ReceivedCount,
		&t.CaptureTimestamp,
		&t.Status,
		&t.FailureCode,
		&t.StorageLocation,
		&t.MissingRequest,
		&t.RequestCount,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if wakeEventID != nil {
		t.WakeEventID = *wakeEventID
	}

	return &t, nil
}

func nullableID(id string) interface{} {
	if id == "" {
		return nil
	}

	return id
}
