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

package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/carverauto/canopy/pkg/models"
)

const upsertDeviceStatusSQL = `
	INSERT INTO devices (
		device_id, pending_images, last_seen_at,
		temperature, humidity, pressure, gas_resistance
	) VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (device_id) DO UPDATE SET
		pending_images = EXCLUDED.pending_images,
		last_seen_at   = EXCLUDED.last_seen_at,
		temperature    = COALESCE(EXCLUDED.temperature, devices.temperature),
		humidity       = COALESCE(EXCLUDED.humidity, devices.humidity),
		pressure       = COALESCE(EXCLUDED.pressure, devices.pressure),
		gas_resistance = COALESCE(EXCLUDED.gas_resistance, devices.gas_resistance),
		updated_at     = now()`

// RecordStatus upserts the device row on an alive/status message: first
// contact creates the device unmapped and unapproved so operators can see
// it, repeat contact refreshes pending count, last-seen, and any readings.
func (r *Registry) RecordStatus(ctx context.Context, deviceID string, pendingImages int, telemetry *models.Telemetry) error {
	if deviceID == "" {
		return ErrDeviceIDRequired
	}

	var readings models.Telemetry
	if telemetry != nil {
		readings = *telemetry
	}

	_, err := r.pool.Exec(ctx, upsertDeviceStatusSQL,
		deviceID,
		pendingImages,
		time.Now().UTC(),
		readings.Temperature,
		readings.Humidity,
		readings.Pressure,
		readings.GasResistance,
	)
	if err != nil {
		return fmt.Errorf("%w: status for %s: %w", ErrFailedToUpsert, deviceID, err)
	}

	return nil
}

const upsertDeviceTelemetrySQL = `
	INSERT INTO devices (
		device_id, last_seen_at,
		temperature, humidity, pressure, gas_resistance
	) VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (device_id) DO UPDATE SET
		last_seen_at   = EXCLUDED.last_seen_at,
		temperature    = COALESCE(EXCLUDED.temperature, devices.temperature),
		humidity       = COALESCE(EXCLUDED.humidity, devices.humidity),
		pressure       = COALESCE(EXCLUDED.pressure, devices.pressure),
		gas_resistance = COALESCE(EXCLUDED.gas_resistance, devices.gas_resistance),
		updated_at     = now()`

// UpdateTelemetry records sensor readings and last-seen without touching
// the pending count.
func (r *Registry) UpdateTelemetry(ctx context.Context, deviceID string, telemetry *models.Telemetry) error {
	if deviceID == "" {
		return ErrDeviceIDRequired
	}

	var readings models.Telemetry
	if telemetry != nil {
		readings = *telemetry
	}

	_, err := r.pool.Exec(ctx, upsertDeviceTelemetrySQL,
		deviceID,
		time.Now().UTC(),
		readings.Temperature,
		readings.Humidity,
		readings.Pressure,
		readings.GasResistance,
	)
	if err != nil {
		return fmt.Errorf("%w: telemetry for %s: %w", ErrFailedToUpsert, deviceID, err)
	}

	return nil
}

const commitWakeSQL = `
	UPDATE devices SET
		last_wake_at = GREATEST(COALESCE(last_wake_at, $2), $2),
		next_wake_at = $3,
		updated_at   = now()
	WHERE device_id = $1`

// CommitWake advances the device's wake timestamps after a completed wake.
// last_wake_at only moves forward; next_wake_at always takes the newly
// computed value since a schedule change can legitimately pull it earlier.
func (r *Registry) CommitWake(ctx context.Context, deviceID string, lastWake, nextWake time.Time) error {
	if deviceID == "" {
		return ErrDeviceIDRequired
	}

	if lastWake.IsZero() || nextWake.IsZero() {
		return fmt.Errorf("%w: device %s", ErrZeroWakeTimestamp, deviceID)
	}

	tag, err := r.pool.Exec(ctx, commitWakeSQL, deviceID, lastWake.UTC(), nextWake.UTC())
	if err != nil {
		return fmt.Errorf("%w: device %s: %w", ErrFailedToCommit, deviceID, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
	}

	r.logger.Info().
		Str("device_id", deviceID).
		Time("last_wake", lastWake.UTC()).
		Time("next_wake", nextWake.UTC()).
		Msg("committed wake schedule")

	return nil
}
