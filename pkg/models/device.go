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

package models

import "time"

// Device is one registered camera sensor. Schedule fields (LastWakeAt,
// NextWakeAt) are advanced only by the finalizer after a successful wake;
// telemetry fields are updated on any inbound message that carries readings.
type Device struct {
	DeviceID      string     `json:"device_id"`
	SiteID        *string    `json:"site_id,omitempty"`
	Approved      bool       `json:"approved"`
	WakeSchedule  *string    `json:"wake_schedule,omitempty"` // overrides the site schedule when set
	LastWakeAt    *time.Time `json:"last_wake_at,omitempty"`
	NextWakeAt    *time.Time `json:"next_wake_at,omitempty"`
	LastSeenAt    *time.Time `json:"last_seen_at,omitempty"`
	PendingImages int        `json:"pending_images"`
	Telemetry     Telemetry  `json:"telemetry"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Site is a physical deployment location that devices are mapped to. Its
// schedule is the fallback for devices without one of their own.
type Site struct {
	SiteID       string  `json:"site_id"`
	OrgID        string  `json:"org_id"`
	Name         string  `json:"name"`
	Timezone     string  `json:"timezone"`
	WakeSchedule *string `json:"wake_schedule,omitempty"`
}

// Lineage is the resolved ownership chain for a device: org → site →
// device, plus the effective scheduling inputs. Mapped is false when the
// device is not linked to a site yet; Approved is false until an operator
// has cleared it for capture. Either condition short-circuits the wake to
// sleep_only.
type Lineage struct {
	DeviceID       string  `json:"device_id"`
	Mapped         bool    `json:"mapped"`
	Approved       bool    `json:"approved"`
	OrgID          string  `json:"org_id,omitempty"`
	SiteID         string  `json:"site_id,omitempty"`
	SiteName       string  `json:"site_name,omitempty"`
	Timezone       string  `json:"timezone,omitempty"`
	DeviceSchedule *string `json:"device_schedule,omitempty"`
	SiteSchedule   *string `json:"site_schedule,omitempty"`
}

// StoragePrefix returns the object-key prefix for artifacts produced by
// this device, derived from the ownership chain.
func (l *Lineage) StoragePrefix() string {
	org := l.OrgID
	if org == "" {
		org = "unassigned"
	}

	site := l.SiteID
	if site == "" {
		site = "unassigned"
	}

	return org + "/" + site + "/" + l.DeviceID
}

// Telemetry holds the optional BME680 readings a device reports alongside
// status or metadata messages. Pointers distinguish absent from zero.
type Telemetry struct {
	Temperature   *float64 `json:"temperature,omitempty"`
	Humidity      *float64 `json:"humidity,omitempty"`
	Pressure      *float64 `json:"pressure,omitempty"`
	GasResistance *float64 `json:"gas_resistance,omitempty"`
}

// HasReadings reports whether any reading is present.
func (t *Telemetry) HasReadings() bool {
	return t.Temperature != nil || t.Humidity != nil || t.Pressure != nil || t.GasResistance != nil
}
