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

import (
	"fmt"
	"time"
)

var (
	errEventStreamNameRequired = fmt.Errorf("events stream name is required")
	errEventSubjectsRequired   = fmt.Errorf("events subjects are required")
)

// CloudEvent is the CloudEvents 1.0 envelope used for downstream
// notifications on the events stream.
type CloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	ID              string      `json:"id"`
	Source          string      `json:"source"`
	Type            string      `json:"type"`
	DataContentType string      `json:"datacontenttype,omitempty"`
	Subject         string      `json:"subject,omitempty"`
	Time            *time.Time  `json:"time,omitempty"`
	Data            interface{} `json:"data,omitempty"`
}

// Event types emitted by the engine.
const (
	EventTypeCaptureCompleted = "com.carverauto.canopy.capture.completed"
	EventTypeTransferFailed   = "com.carverauto.canopy.transfer.failed"
)

// TransferFailure is the payload of a transfer.failed event.
type TransferFailure struct {
	DeviceID     string      `json:"device_id"`
	ArtifactName string      `json:"artifact_name"`
	Code         FailureCode `json:"code"`
	Message      string      `json:"message"`
	FailedAt     time.Time   `json:"failed_at"`
}

// EventsConfig configures the CloudEvents publishing stream.
type EventsConfig struct {
	Enabled    bool     `json:"enabled"`
	StreamName string   `json:"stream_name"`
	Subjects   []string `json:"subjects"`
}

// Validate ensures the events configuration is valid.
func (c *EventsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.StreamName == "" {
		return errEventStreamNameRequired
	}

	if len(c.Subjects) == 0 {
		return errEventSubjectsRequired
	}

	return nil
}
