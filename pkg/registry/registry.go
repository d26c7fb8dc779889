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

// Package registry resolves device lineage (org → site → device plus the
// effective scheduling inputs) and owns the device-row mutations the wake
// engine performs: presence upserts, telemetry, and the wake-timestamp
// commit. Lineage is always read fresh; the finalizer depends on
// re-resolution picking up schedule and approval changes made mid-transfer.
package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carverauto/canopy/pkg/logger"
	"github.com/carverauto/canopy/pkg/models"
)

// Registry is the Postgres-backed device registry.
type Registry struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

// New creates a Registry over the shared connection pool.
func New(pool *pgxpool.Pool, log logger.Logger) *Registry {
	return &Registry{
		pool:   pool,
		logger: log,
	}
}

const selectLineageSQL = `
	SELECT
		d.approved,
		d.wake_schedule,
		d.site_id,
		s.org_id,
		s.name,
		s.timezone,
		s.wake_schedule
	FROM devices d
	LEFT JOIN sites s ON s.site_id = d.site_id
	WHERE d.device_id = $1`

// Resolve returns the ownership chain for a device. An unknown device or
// one without a site yields Mapped=false, which is a protocol branch, not
// an error.
func (r *Registry) Resolve(ctx context.Context, deviceID string) (*models.Lineage, error) {
	if deviceID == "" {
		return nil, ErrDeviceIDRequired
	}

	var (
		approved       bool
		deviceSchedule *string
		siteID         *string
		orgID          *string
		siteName       *string
		timezone       *string
		siteSchedule   *string
	)

	err := r.pool.QueryRow(ctx, selectLineageSQL, deviceID).Scan(
		&approved, &deviceSchedule, &siteID,
		&orgID, &siteName, &timezone, &siteSchedule,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		r.logger.Debug().Str("device_id", deviceID).Msg("unknown device")

		return &models.Lineage{DeviceID: deviceID}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w: lineage for %s: %w", ErrFailedToQuery, deviceID, err)
	}

	lineage := &models.Lineage{
		DeviceID:       deviceID,
		Approved:       approved,
		DeviceSchedule: deviceSchedule,
	}

	if siteID != nil && orgID != nil {
		lineage.Mapped = true
		lineage.SiteID = *siteID
		lineage.OrgID = *orgID
		lineage.SiteSchedule = siteSchedule

		if siteName != nil {
			lineage.SiteName = *siteName
		}

		if timezone != nil {
			lineage.Timezone = *timezone
		}
	}

	return lineage, nil
}
