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

package natsutil

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/canopy/pkg/logger"
	"github.com/carverauto/canopy/pkg/models"
)

// EventPublisher publishes CloudEvents onto a JetStream events stream.
type EventPublisher struct {
	js     jetstream.JetStream
	source string
	logger logger.Logger
}

// NewEventPublisher creates an EventPublisher; source names the emitting
// service in every envelope.
func NewEventPublisher(js jetstream.JetStream, source string, log logger.Logger) *EventPublisher {
	return &EventPublisher{
		js:     js,
		source: source,
		logger: log,
	}
}

// NopPublisher drops events. It stands in for the EventPublisher when the
// events stream is disabled.
type NopPublisher struct{}

// Publish discards the event.
func (NopPublisher) Publish(_ context.Context, _, _ string, _ interface{}) error {
	return nil
}

// Publish wraps data in a CloudEvents envelope and publishes it to the
// given subject.
func (p *EventPublisher) Publish(ctx context.Context, eventType, subject string, data interface{}) error {
	now := time.Now().UTC()

	event := models.CloudEvent{
		SpecVersion:     "1.0",
		ID:              uuid.New().String(),
		Source:          p.source,
		Type:            eventType,
		DataContentType: "application/json",
		Subject:         subject,
		Time:            &now,
		Data:            data,
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", eventType, err)
	}

	ack, err := p.js.Publish(ctx, subject, eventBytes)
	if err != nil {
		return fmt.Errorf("failed to publish event %s: %w", eventType, err)
	}

	p.logger.Debug().
		Str("event_id", event.ID).
		Str("type", eventType).
		Str("subject", subject).
		Uint64("seq", ack.Sequence).
		Msg("Published event")

	return nil
}
