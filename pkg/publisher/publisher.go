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

// Package publisher sends the three outbound directives to devices over
// plain NATS publishes. Directives are fire-and-forget; a device that
// misses one re-announces itself on its next wake.
package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/carverauto/canopy/pkg/logger"
	"github.com/carverauto/canopy/pkg/models"
)

// DefaultSubjectPrefix is the root of the per-device subject tree.
const DefaultSubjectPrefix = "canopy.device"

var (
	ErrDeviceIDRequired = errors.New("device id is required")
	ErrArtifactRequired = errors.New("artifact name is required")
	ErrNoMissingIndices = errors.New("missing-fragment request has no indices")
	ErrFailedToPublish  = errors.New("failed to publish directive")
)

// NATSPublisher publishes directives on the per-device cmd and ack
// subjects.
type NATSPublisher struct {
	conn   Conn
	prefix string
	logger logger.Logger
}

// New creates a directive publisher. An empty prefix falls back to
// DefaultSubjectPrefix.
func New(conn Conn, prefix string, log logger.Logger) *NATSPublisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}

	return &NATSPublisher{
		conn:   conn,
		prefix: prefix,
		logger: log,
	}
}

// CaptureRequest names the artifact the device should produce this wake.
// Safe to send more than once for the same artifact.
func (p *NATSPublisher) CaptureRequest(ctx context.Context, deviceID, artifactName string) error {
	if deviceID == "" {
		return ErrDeviceIDRequired
	}

	if artifactName == "" {
		return ErrArtifactRequired
	}

	cmd := models.DeviceCommand{
		CaptureImage: true,
		SendImage:    artifactName,
	}

	if err := p.publish(ctx, p.cmdSubject(deviceID), cmd); err != nil {
		return err
	}

	p.logger.Info().
		Str("device_id", deviceID).
		Str("artifact", artifactName).
		Msg("sent capture request")

	return nil
}

// RequestMissing asks the device to resend exactly the given fragment
// indices. Indices are sent sorted ascending.
func (p *NATSPublisher) RequestMissing(ctx context.Context, deviceID, artifactName string, indices []int) error {
	if deviceID == "" {
		return ErrDeviceIDRequired
	}

	if artifactName == "" {
		return ErrArtifactRequired
	}

	if len(indices) == 0 {
		return fmt.Errorf("%w: %s", ErrNoMissingIndices, artifactName)
	}

	sorted := make([]int, len(indices))
	copy(sorted, indices)
	sort.Ints(sorted)

	ack := models.MissingFragmentAck{
		ImageName:     artifactName,
		MissingChunks: sorted,
	}

	if err := p.publish(ctx, p.ackSubject(deviceID), ack); err != nil {
		return err
	}

	p.logger.Info().
		Str("device_id", deviceID).
		Str("artifact", artifactName).
		Ints("missing", sorted).
		Msg("requested missing fragments")

	return nil
}

// SleepUntil closes out the wake: the cmd subject carries the next-wake
// display string, and the ack subject carries the final acknowledgment the
// firmware waits on before powering down.
func (p *NATSPublisher) SleepUntil(ctx context.Context, deviceID, formattedWake string) error {
	if deviceID == "" {
		return ErrDeviceIDRequired
	}

	cmd := models.DeviceCommand{NextWake: formattedWake}
	if err := p.publish(ctx, p.cmdSubject(deviceID), cmd); err != nil {
		return err
	}

	ack := models.SleepAck{AckOK: models.SleepAckBody{NextWakeTime: formattedWake}}
	if err := p.publish(ctx, p.ackSubject(deviceID), ack); err != nil {
		return err
	}

	p.logger.Info().
		Str("device_id", deviceID).
		Str("next_wake", formattedWake).
		Msg("sent sleep directive")

	return nil
}

func (p *NATSPublisher) publish(ctx context.Context, subject string, payload interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: marshal for %s: %w", ErrFailedToPublish, subject, err)
	}

	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFailedToPublish, subject, err)
	}

	return nil
}

func (p *NATSPublisher) cmdSubject(deviceID string) string {
	return p.prefix + "." + deviceID + ".cmd"
}

func (p *NATSPublisher) ackSubject(deviceID string) string {
	return p.prefix + "." + deviceID + ".ack"
}
