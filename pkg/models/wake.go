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

// WakeEvent is the append-only record of one device wake attempt. Created
// on the first inbound message of a wake, mutated only by the engine, never
// deleted. ImagesRequested/ImagesCompleted stay a counter pair even though
// the current contract is one image per wake, so a multi-image loop is a
// local extension later.
type WakeEvent struct {
	ID                 string        `json:"id"`
	DeviceID           string        `json:"device_id"`
	CaptureID          string        `json:"capture_id"`
	ArtifactName       string        `json:"artifact_name,omitempty"`
	State              ProtocolState `json:"state"`
	PendingReported    int           `json:"pending_reported"`
	ImagesRequested    int           `json:"images_requested"`
	ImagesCompleted    int           `json:"images_completed"`
	AckIssuedAt        *time.Time    `json:"ack_issued_at,omitempty"`
	CaptureRequestedAt *time.Time    `json:"capture_requested_at,omitempty"`
	SleepIssuedAt      *time.Time    `json:"sleep_issued_at,omitempty"`
	IsComplete         bool          `json:"is_complete"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// ImageTransfer tracks one artifact's reassembly. At most one live
// (status=receiving) transfer exists per (device, artifact) pair; metadata
// redelivery reuses the live row instead of creating a duplicate.
type ImageTransfer struct {
	ID               string         `json:"id"`
	DeviceID         string         `json:"device_id"`
	ArtifactName     string         `json:"artifact_name"`
	WakeEventID      string         `json:"wake_event_id,omitempty"`
	DeclaredTotal    int            `json:"declared_total"`
	ReceivedCount    int            `json:"received_count"` // informational; completeness is decided by the chunk store
	CaptureTimestamp string         `json:"capture_timestamp,omitempty"` // device-reported, opaque
	Status           TransferStatus `json:"status"`
	FailureCode      FailureCode    `json:"failure_code,omitempty"`
	StorageLocation  string         `json:"storage_location,omitempty"`
	MissingRequest   []int          `json:"missing_request,omitempty"` // last missing-fragment request sent
	RequestCount     int            `json:"request_count"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// FragmentRecord is one stored image fragment, keyed by
// (device, artifact, index). Write-once: a redelivered fragment never
// overwrites. Swept after ExpiresAt regardless of transfer state.
type FragmentRecord struct {
	DeviceID     string    `json:"device_id"`
	ArtifactName string    `json:"artifact_name"`
	Index        int       `json:"index"`
	Payload      []byte    `json:"payload"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// CaptureRecord is the completion-notification payload handed downstream
// once an artifact is assembled and durably stored.
type CaptureRecord struct {
	CaptureID        string     `json:"capture_id"`
	DeviceID         string     `json:"device_id"`
	OrgID            string     `json:"org_id,omitempty"`
	SiteID           string     `json:"site_id,omitempty"`
	ArtifactName     string     `json:"artifact_name"`
	StorageLocation  string     `json:"storage_location"`
	SizeBytes        int        `json:"size_bytes"`
	Fragments        int        `json:"fragments"`
	CaptureTimestamp string     `json:"capture_timestamp,omitempty"` // device-reported, opaque
	CompletedAt      time.Time  `json:"completed_at"`
	Telemetry        *Telemetry `json:"telemetry,omitempty"`
}
