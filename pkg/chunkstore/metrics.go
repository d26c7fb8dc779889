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

package chunkstore

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName               = "canopy.chunkstore"
	metricFragmentsPurged   = "canopy_fragments_purged_total"
	metricTransfersAbandons = "canopy_transfers_abandoned_total"
)

var (
	// instrumentation handles are cached globally to avoid re-registering OTEL instruments on every call.
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	meterOnce sync.Once
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	purgedCounter metric.Int64Counter
	//nolint:gochecknoglobals // metrics instruments are shared across the process intentionally
	abandonedCounter metric.Int64Counter
)

func initMeter() {
	meter := otel.Meter(meterName)

	purged, err := meter.Int64Counter(
		metricFragmentsPurged,
		metric.WithDescription("Total expired fragment rows removed by the sweep"),
	)
	if err != nil {
		otel.Handle(err)
	}
	purgedCounter = purged

	abandoned, err := meter.Int64Counter(
		metricTransfersAbandons,
		metric.WithDescription("Total transfers abandoned after the receive TTL"),
	)
	if err != nil {
		otel.Handle(err)
	}
	abandonedCounter = abandoned
}

func recordFragmentsPurged(ctx context.Context, count int64) {
	if count == 0 {
		return
	}

	meterOnce.Do(initMeter)
	if purgedCounter == nil {
		return
	}

	purgedCounter.Add(ctx, count)
}

func recordTransferAbandoned(ctx context.Context) {
	meterOnce.Do(initMeter)
	if abandonedCounter == nil {
		return
	}

	abandonedCounter.Add(ctx, 1)
}
