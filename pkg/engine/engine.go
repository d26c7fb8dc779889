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

// Package engine is the wake-protocol core: it consumes device messages
// from the ingest stream, drives each wake through its state machine,
// reassembles chunked image transfers, and closes every wake with a sleep
// directive carrying the device's next computed wake time.
//
// Messages for one device are serialized onto a single worker shard so a
// wake's state changes apply in order, while distinct devices proceed
// independently. All dedup is structural (write-once fragments, state CAS,
// live-transfer uniqueness), so redelivery from the at-least-once stream
// is safe everywhere.
package engine

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/carverauto/canopy/pkg/alerts"
	"github.com/carverauto/canopy/pkg/logger"
	"github.com/carverauto/canopy/pkg/schedule"
)

const (
	// DefaultStreamName is the ingest stream the engine consumes.
	DefaultStreamName = "CANOPY_INGEST"
	// DefaultSubjectPrefix roots the per-device subject tree.
	DefaultSubjectPrefix = "canopy.device"

	defaultConsumerName = "canopy-engine"
	defaultWorkerShards = 8
	defaultFetchBatch   = 64
	defaultFetchWait    = 5 * time.Second
	defaultFragmentTTL  = 30 * time.Minute

	shardQueueDepth = 64
)

// Config tunes the engine's consumer and protocol behavior. Zero values
// take the package defaults.
type Config struct {
	StreamName      string
	ConsumerName    string
	SubjectPrefix   string
	WorkerShards    int
	FetchBatch      int
	FetchWait       time.Duration
	FragmentTTL     time.Duration
	DefaultWakeHour int
}

func (c Config) withDefaults() Config {
	if c.StreamName == "" {
		c.StreamName = DefaultStreamName
	}

	if c.ConsumerName == "" {
		c.ConsumerName = defaultConsumerName
	}

	if c.SubjectPrefix == "" {
		c.SubjectPrefix = DefaultSubjectPrefix
	}

	if c.WorkerShards <= 0 {
		c.WorkerShards = defaultWorkerShards
	}

	if c.FetchBatch <= 0 {
		c.FetchBatch = defaultFetchBatch
	}

	if c.FetchWait <= 0 {
		c.FetchWait = defaultFetchWait
	}

	if c.FragmentTTL <= 0 {
		c.FragmentTTL = defaultFragmentTTL
	}

	if c.DefaultWakeHour <= 0 || c.DefaultWakeHour > 23 {
		c.DefaultWakeHour = schedule.DefaultWakeHour
	}

	return c
}

// Subjects returns the inbound subject filters for the ingest stream and
// its consumer. It assumes a non-empty prefix; call after defaults apply.
func (c Config) Subjects() []string {
	return []string{
		c.SubjectPrefix + ".*.status",
		c.SubjectPrefix + ".*.data",
		c.SubjectPrefix + ".*.telemetry",
	}
}

// Dependencies carries the collaborators the engine drives. Alerter and
// Clock are optional; everything else is required.
type Dependencies struct {
	Lineage    LineageResolver
	Devices    DeviceRegistry
	Wakes      WakeStore
	Transfers  TransferStore
	Chunks     ChunkStore
	Artifacts  ArtifactStore
	Notifier   CompletionNotifier
	Directives DirectivePublisher
	Alerter    alerts.AlertService
	Clock      Clock
}

func (d *Dependencies) validate() error {
	required := []struct {
		name string
		ok   bool
	}{
		{"lineage resolver", d.Lineage != nil},
		{"device registry", d.Devices != nil},
		{"wake store", d.Wakes != nil},
		{"transfer store", d.Transfers != nil},
		{"chunk store", d.Chunks != nil},
		{"artifact store", d.Artifacts != nil},
		{"completion notifier", d.Notifier != nil},
		{"directive publisher", d.Directives != nil},
	}

	for _, dep := range required {
		if !dep.ok {
			return fmt.Errorf("%w: %s", ErrNilDependency, dep.name)
		}
	}

	return nil
}

// Engine consumes the ingest stream and runs the wake protocol.
type Engine struct {
	js         jetstream.JetStream
	cfg        Config
	lineage    LineageResolver
	devices    DeviceRegistry
	wakes      WakeStore
	transfers  TransferStore
	chunks     ChunkStore
	artifacts  ArtifactStore
	notifier   CompletionNotifier
	directives DirectivePublisher
	alerter    alerts.AlertService
	clock      Clock
	tracer     trace.Tracer
	logger     logger.Logger

	consumer jetstream.Consumer
	shards   []chan *inboundMessage
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// inboundMessage is one fetched stream message with its subject already
// parsed, queued onto the shard owning its device.
type inboundMessage struct {
	msg      jetstream.Msg
	deviceID string
	kind     string
}

// NewEngine wires an engine over its collaborators. The stream itself must
// already exist; Start creates or reuses the durable consumer.
func NewEngine(js jetstream.JetStream, deps Dependencies, cfg Config, log logger.Logger) (*Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	clock := deps.Clock
	if clock == nil {
		clock = realClock{}
	}

	return &Engine{
		js:         js,
		cfg:        cfg.withDefaults(),
		lineage:    deps.Lineage,
		devices:    deps.Devices,
		wakes:      deps.Wakes,
		transfers:  deps.Transfers,
		chunks:     deps.Chunks,
		artifacts:  deps.Artifacts,
		notifier:   deps.Notifier,
		directives: deps.Directives,
		alerter:    deps.Alerter,
		clock:      clock,
		tracer:     otel.Tracer("canopy-engine"),
		logger:     log,
	}, nil
}

// Start creates the durable consumer and launches the fetch loop and
// worker shards. It does not block.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.ensureConsumer(ctx); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel

	e.shards = make([]chan *inboundMessage, e.cfg.WorkerShards)
	for i := range e.shards {
		e.shards[i] = make(chan *inboundMessage, shardQueueDepth)

		e.wg.Add(1)

		go e.worker(runCtx, e.shards[i])
	}

	e.wg.Add(1)

	go func() {
		defer e.wg.Done()

		e.fetchLoop(runCtx)

		for _, shard := range e.shards {
			close(shard)
		}
	}()

	e.logger.Info().
		Str("stream", e.cfg.StreamName).
		Str("consumer", e.cfg.ConsumerName).
		Int("worker_shards", e.cfg.WorkerShards).
		Msg("Wake engine started")

	return nil
}

// Stop halts fetching, drains the shard queues, and waits for workers to
// finish, bounded by ctx.
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel == nil {
		return nil
	}

	e.cancel()

	done := make(chan struct{})

	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info().Msg("Wake engine stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// worker drains one shard, handling each message to completion before the
// next so per-device ordering holds.
func (e *Engine) worker(ctx context.Context, shard <-chan *inboundMessage) {
	defer e.wg.Done()

	for in := range shard {
		e.process(ctx, in)
	}
}

// shardFor maps a device to its worker shard by FNV hash.
func (e *Engine) shardFor(deviceID string) int {
	h := fnv.New32a()

	_, err := h.Write([]byte(deviceID))
	if err != nil {
		return 0
	}

	return int(h.Sum32()) % e.cfg.WorkerShards
}
