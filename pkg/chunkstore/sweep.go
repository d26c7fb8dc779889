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
	"errors"
	"fmt"
	"time"

	"github.com/carverauto/canopy/pkg/alerts"
	"github.com/carverauto/canopy/pkg/logger"
	"github.com/carverauto/canopy/pkg/models"
)

const (
	defaultSweepInterval = 5 * time.Minute
	defaultTransferTTL   = 30 * time.Minute
)

// SweeperConfig tunes the background TTL sweep.
type SweeperConfig struct {
	Interval    time.Duration
	TransferTTL time.Duration
}

// Sweeper is the only timeout mechanism in the transfer pipeline. It
// deletes expired fragments and fails live transfers whose last activity
// is older than the TTL, emitting one failure notification and one alert
// per abandoned transfer.
type Sweeper struct {
	store     FragmentPurger
	transfers TransferFailer
	notifier  FailureNotifier
	alerter   alerts.AlertService
	clock     Clock
	interval  time.Duration
	ttl       time.Duration
	done      chan struct{}
	logger    logger.Logger
}

// NewSweeper wires a sweeper over the fragment store and transfer failer.
// The alerter is optional; a nil clock means wall time.
func NewSweeper(
	store FragmentPurger,
	transfers TransferFailer,
	notifier FailureNotifier,
	alerter alerts.AlertService,
	cfg SweeperConfig,
	clock Clock,
	log logger.Logger,
) *Sweeper {
	if clock == nil {
		clock = realClock{}
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	ttl := cfg.TransferTTL
	if ttl <= 0 {
		ttl = defaultTransferTTL
	}

	return &Sweeper{
		store:     store,
		transfers: transfers,
		notifier:  notifier,
		alerter:   alerter,
		clock:     clock,
		interval:  interval,
		ttl:       ttl,
		done:      make(chan struct{}),
		logger:    log,
	}
}

// Start runs the sweep loop until Stop is called or ctx is canceled.
func (s *Sweeper) Start(ctx context.Context) {
	go s.run(ctx)
}

// Stop terminates the sweep loop.
func (s *Sweeper) Stop() {
	close(s.done)
}

func (s *Sweeper) run(ctx context.Context) {
	ticker := s.clock.Ticker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-ticker.Chan():
			s.Sweep(ctx)
		}
	}
}

// Sweep performs one pass: expired fragments out, stale transfers failed.
func (s *Sweeper) Sweep(ctx context.Context) {
	now := s.clock.Now()

	removed, err := s.store.DeleteExpired(ctx, now)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to delete expired fragments")
	} else if removed > 0 {
		recordFragmentsPurged(ctx, removed)
		s.logger.Info().Int64("fragments", removed).Msg("deleted expired fragments")
	}

	stale, err := s.transfers.FailStaleTransfers(ctx, now.Add(-s.ttl))
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fail stale transfers")
		return
	}

	for _, transfer := range stale {
		s.abandonTransfer(ctx, transfer, now)
	}
}

func (s *Sweeper) abandonTransfer(ctx context.Context, transfer *models.ImageTransfer, now time.Time) {
	recordTransferAbandoned(ctx)

	s.logger.Warn().
		Str("device_id", transfer.DeviceID).
		Str("artifact", transfer.ArtifactName).
		Int("received", transfer.ReceivedCount).
		Int("declared_total", transfer.DeclaredTotal).
		Msg("abandoning stale image transfer")

	if _, err := s.store.Clear(ctx, transfer.DeviceID, transfer.ArtifactName); err != nil {
		s.logger.Error().Err(err).
			Str("device_id", transfer.DeviceID).
			Str("artifact", transfer.ArtifactName).
			Msg("failed to clear fragments of abandoned transfer")
	}

	failure := &models.TransferFailure{
		DeviceID:     transfer.DeviceID,
		ArtifactName: transfer.ArtifactName,
		Code:         models.FailureTimeout,
		Message: fmt.Sprintf("transfer abandoned after %s with %d/%d fragments",
			s.ttl, transfer.ReceivedCount, transfer.DeclaredTotal),
		FailedAt: now,
	}

	if err := s.notifier.NotifyTransferFailed(ctx, failure); err != nil {
		s.logger.Error().Err(err).
			Str("device_id", transfer.DeviceID).
			Str("artifact", transfer.ArtifactName).
			Msg("failed to publish transfer failure")
	}

	if s.alerter == nil {
		return
	}

	alert := &alerts.WebhookAlert{
		Level:    alerts.Warning,
		Title:    "Image Transfer Abandoned",
		Message:  failure.Message,
		DeviceID: transfer.DeviceID,
		Details: map[string]any{
			"artifact":       transfer.ArtifactName,
			"received":       transfer.ReceivedCount,
			"declared_total": transfer.DeclaredTotal,
			"request_count":  transfer.RequestCount,
		},
	}

	if err := s.alerter.Alert(ctx, alert); err != nil {
		if errors.Is(err, alerts.ErrWebhookCooldown) {
			s.logger.Debug().Str("device_id", transfer.DeviceID).Msg("abandonment alert in cooldown")
			return
		}

		s.logger.Error().Err(err).Str("device_id", transfer.DeviceID).Msg("failed to send abandonment alert")
	}
}
