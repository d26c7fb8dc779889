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
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName             = "canopy.engine"
	metricWakesStarted    = "canopy_wakes_started_total"
	metricWakesCompleted  = "canopy_wakes_completed_total"
	metricFragmentsStored = "canopy_fragments_received_total"
	metricTransfersFailed = "canopy_transfers_failed_total"
)

var (
	// instrumentation handles are cached globally to avoid re-registering OTEL instruments on every call.
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	meterOnce sync.Once
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	wakesStartedCounter metric.Int64Counter
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	wakesCompletedCounter metric.Int64Counter
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	fragmentsStoredCounter metric.Int64Counter
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	transfersFailedCounter metric.Int64Counter
)

func initMeter() {
	meter := otel.Meter(meterName)

	started, err := meter.Int64Counter(
		metricWakesStarted,
		metric.WithDescription("Total wake events opened"),
	)
	if err != nil {
		otel.Handle(err)
	}
	wakesStartedCounter = started

	completed, err := meter.Int64Counter(
		metricWakesCompleted,
		metric.WithDescription("Total wakes finalized with a delivered artifact"),
	)
	if err != nil {
		otel.Handle(err)
	}
	wakesCompletedCounter = completed

	fragments, err := meter.Int64Counter(
		metricFragmentsStored,
		metric.WithDescription("Total image fragments received"),
	)
	if err != nil {
		otel.Handle(err)
	}
	fragmentsStoredCounter = fragments

	failed, err := meter.Int64Counter(
		metricTransfersFailed,
		metric.WithDescription("Total transfers failed by typed code"),
	)
	if err != nil {
		otel.Handle(err)
	}
	transfersFailedCounter = failed
}

func recordWakeStarted(ctx context.Context) {
	meterOnce.Do(initMeter)
	if wakesStartedCounter == nil {
		return
	}

	wakesStartedCounter.Add(ctx, 1)
}

func recordWakeCompleted(ctx context.Context) {
	meterOnce.Do(initMeter)
	if wakesCompletedCounter == nil {
		return
	}

	wakesCompletedCounter.Add(ctx, 1)
}

func recordFragmentStored(ctx context.Context, newlyStored bool) {
	meterOnce.Do(initMeter)
	if fragmentsStoredCounter == nil {
		return
	}

	outcome := "stored"
	if !newlyStored {
		outcome = "duplicate"
	}

	fragmentsStoredCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func recordTransferFailed(ctx context.Context, code string) {
	meterOnce.Do(initMeter)
	if transfersFailedCounter == nil {
		return
	}

	transfersFailedCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("code", code)))
}
