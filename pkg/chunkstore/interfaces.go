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

//go:generate mockgen -destination=mock_chunkstore.go -package=chunkstore github.com/carverauto/canopy/pkg/chunkstore Clock,Ticker,FragmentPurger,TransferFailer,FailureNotifier

import (
	"context"
	"time"

	"github.com/carverauto/canopy/pkg/models"
)

// Clock abstracts time-related operations.
type Clock interface {
	Now() time.Time
	Ticker(d time.Duration) Ticker
}

// Ticker abstracts the ticker behavior.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

// FragmentPurger removes fragment rows during sweeps.
type FragmentPurger interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	Clear(ctx context.Context, deviceID, artifactName string) (int64, error)
}

// TransferFailer claims live transfers that have gone stale. Each returned
// transfer is claimed exactly once across all callers.
type TransferFailer interface {
	FailStaleTransfers(ctx context.Context, cutoff time.Time) ([]*models.ImageTransfer, error)
}

// FailureNotifier reports typed transfer failures downstream.
type FailureNotifier interface {
	NotifyTransferFailed(ctx context.Context, failure *models.TransferFailure) error
}
