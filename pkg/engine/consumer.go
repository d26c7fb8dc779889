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

package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

const (
	consumerAckWait       = 30 * time.Second
	consumerMaxDeliver    = 5
	consumerMaxAckPending = 1000
	fetchErrorBackoff     = time.Second
)

// ensureConsumer creates or retrieves the durable pull consumer filtered to
// the three inbound subject patterns.
func (e *Engine) ensureConsumer(ctx context.Context) error {
	consumer, err := e.js.Consumer(ctx, e.cfg.StreamName, e.cfg.ConsumerName)
	if err != nil {
		cfg := jetstream.ConsumerConfig{
			Durable:        e.cfg.ConsumerName,
			AckPolicy:      jetstream.AckExplicitPolicy,
			AckWait:        consumerAckWait,
			MaxDeliver:     consumerMaxDeliver,
			MaxAckPending:  consumerMaxAckPending,
			FilterSubjects: e.cfg.Subjects(),
		}

		consumer, err = e.js.CreateConsumer(ctx, e.cfg.StreamName, cfg)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFailedToConsume, err)
		}
	}

	e.consumer = consumer

	return nil
}

// fetchLoop pulls message batches and routes each onto its device's shard.
func (e *Engine) fetchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msgs, err := e.consumer.Fetch(e.cfg.FetchBatch, jetstream.FetchMaxWait(e.cfg.FetchWait))
		if err != nil {
			e.logger.Warn().Err(err).Msg("Failed to fetch messages")
			time.Sleep(fetchErrorBackoff)

			continue
		}

		for msg := range msgs.Messages() {
			e.dispatch(ctx, msg)
		}

		if fetchErr := msgs.Error(); fetchErr != nil {
			e.logger.Warn().Err(fetchErr).Msg("Fetch batch ended with error")
		}
	}
}

// dispatch queues a message onto the shard owning its device. Messages on
// subjects the engine cannot parse are acked away immediately.
func (e *Engine) dispatch(ctx context.Context, msg jetstream.Msg) {
	deviceID, kind, ok := parseSubject(e.cfg.SubjectPrefix, msg.Subject())
	if !ok {
		e.logger.Warn().Str("subject", msg.Subject()).Msg("Discarding message on unroutable subject")

		_ = msg.Ack()

		return
	}

	in := &inboundMessage{msg: msg, deviceID: deviceID, kind: kind}

	select {
	case e.shards[e.shardFor(deviceID)] <- in:
	case <-ctx.Done():
		// Shutting down: leave the message unacked for redelivery.
	}
}

// process routes one message and settles it against the stream. Malformed
// payloads are acked and discarded; transient failures are redelivered
// until the consumer's delivery cap drops them.
func (e *Engine) process(ctx context.Context, in *inboundMessage) {
	err := e.route(ctx, in.kind, in.msg.Data())
	if err == nil {
		_ = in.msg.Ack()
		return
	}

	if errors.Is(err, ErrMalformedMessage) {
		e.logger.Warn().
			Err(err).
			Str("subject", in.msg.Subject()).
			Str("device_id", in.deviceID).
			Msg("Discarding malformed message")

		_ = in.msg.Ack()

		return
	}

	e.logger.Error().
		Err(err).
		Str("subject", in.msg.Subject()).
		Str("device_id", in.deviceID).
		Msg("Failed to process message")

	metadata, metaErr := in.msg.Metadata()
	if metaErr == nil && metadata.NumDelivered >= consumerMaxDeliver {
		e.logger.Error().
			Str("subject", in.msg.Subject()).
			Uint64("deliveries", metadata.NumDelivered).
			Msg("Delivery cap reached, dropping message")

		_ = in.msg.Ack()

		return
	}

	_ = in.msg.Nak()
}

// parseSubject splits "<prefix>.<deviceID>.<kind>" into its parts.
func parseSubject(prefix, subject string) (deviceID, kind string, ok bool) {
	if !strings.HasPrefix(subject, prefix+".") {
		return "", "", false
	}

	rest := strings.TrimPrefix(subject, prefix+".")

	idx := strings.LastIndex(rest, ".")
	if idx <= 0 || idx == len(rest)-1 {
		return "", "", false
	}

	return rest[:idx], rest[idx+1:], true
}
