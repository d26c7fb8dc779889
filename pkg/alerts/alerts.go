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

// Package alerts delivers operator notifications over outbound webhooks.
package alerts

//go:generate mockgen -destination=mock_alerts.go -package=alerts github.com/carverauto/canopy/pkg/alerts AlertService

import (
	"context"
	"errors"
)

// AlertLevel represents the severity of an alert.
type AlertLevel string

const (
	Info    AlertLevel = "info"
	Warning AlertLevel = "warning"
	Error   AlertLevel = "error"
)

// WebhookAlert is the payload POSTed to configured webhooks.
type WebhookAlert struct {
	Level     AlertLevel     `json:"level"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Timestamp string         `json:"timestamp"`
	DeviceID  string         `json:"device_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// AlertService sends an alert to a single destination.
type AlertService interface {
	Alert(ctx context.Context, alert *WebhookAlert) error
}

var (
	ErrWebhookDisabled = errors.New("webhook alerter disabled")
	ErrWebhookCooldown = errors.New("alert suppressed by cooldown")
	ErrWebhookStatus   = errors.New("webhook returned error status")
)

// MultiAlerter fans each alert out to every destination. Cooldown
// suppressions count as delivered; other failures are joined.
type MultiAlerter struct {
	services []AlertService
}

// NewMultiAlerter combines multiple destinations behind one AlertService.
func NewMultiAlerter(services ...AlertService) *MultiAlerter {
	return &MultiAlerter{services: services}
}

// Alert sends to every destination even when an earlier one fails.
func (m *MultiAlerter) Alert(ctx context.Context, alert *WebhookAlert) error {
	var errs []error

	for _, svc := range m.services {
		if err := svc.Alert(ctx, alert); err != nil && !errors.Is(err, ErrWebhookCooldown) {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
