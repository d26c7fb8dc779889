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
	"fmt"
	"time"

	"github.com/carverauto/canopy/pkg/models"
)

const insertCaptureSQL = `
INSERT INTO captures (
	capture_id,
	device_id,
	org_id,
	site_id,
	artifact_name,
	storage_location,
	size_bytes,
	fragments,
	capture_timestamp,
	temperature,
	humidity,
	pressure,
	gas_resistance,
	completed_at
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14
)
ON CONFLICT (capture_id) DO NOTHING`

// InsertCapture files a completed capture into the catalog. Replays of the
// same capture id are absorbed silently.
func (db *DB) InsertCapture(ctx context.Context, rec *models.CaptureRecord) error {
	if rec == nil {
		return nil
	}

	completedAt := rec.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now().UTC()
	}

	var temperature, humidity, pressure, gasResistance *float64
	if rec.Telemetry != nil {
		temperature = rec.Telemetry.Temperature
		humidity = rec.Telemetry.Humidity
		pressure = rec.Telemetry.Pressure
		gasResistance = rec.Telemetry.GasResistance
	}

	_, err := db.pool.Exec(ctx, insertCaptureSQL,
		rec.CaptureID,
		rec.DeviceID,
		rec.OrgID,
		rec.SiteID,
		rec.ArtifactName,
		rec.StorageLocation,
		rec.SizeBytes,
		rec.Fragments,
		rec.CaptureTimestamp,
		temperature,
		humidity,
		pressure,
		gasResistance,
		completedAt,
	)
	if err != nil {
		return fmt.Errorf("%w capture record: %w", ErrFailedToInsert, err)
	}

	return nil
}
