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

package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/carverauto/canopy/pkg/models"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	maxErrorBodyBytes  = 512
)

// WebhookAlerter delivers alerts to one webhook URL, enforcing a per-title
// cooldown so a flapping condition cannot flood the destination.
type WebhookAlerter struct {
	config   models.WebhookConfig
	client   *http.Client
	mu       sync.Mutex
	lastSent map[string]time.Time
	nowFunc  func() time.Time
}

// NewWebhookAlerter creates an alerter for the given webhook configuration.
func NewWebhookAlerter(config models.WebhookConfig) *WebhookAlerter {
	return &WebhookAlerter{
		config:   config,
		client:   &http.Client{Timeout: defaultHTTPTimeout},
		lastSent: make(map[string]time.Time),
		nowFunc:  time.Now,
	}
}

// Alert POSTs the alert as JSON. Within the cooldown window a repeat alert
// with the same title returns ErrWebhookCooldown without sending.
func (w *WebhookAlerter) Alert(ctx context.Context, alert *WebhookAlert) error {
	if !w.config.Enabled {
		return ErrWebhookDisabled
	}

	if err := w.checkCooldown(alert.Title); err != nil {
		return err
	}

	if alert.Timestamp == "" {
		alert.Timestamp = w.nowFunc().UTC().Format(time.RFC3339)
	}

	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.config.URL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	for _, header := range w.config.Headers {
		req.Header.Set(header.Key, header.Value)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post webhook alert: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

		return fmt.Errorf("%w: %d %s", ErrWebhookStatus, resp.StatusCode, bytes.TrimSpace(body))
	}

	return nil
}

func (w *WebhookAlerter) checkCooldown(title string) error {
	if w.config.Cooldown <= 0 {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.nowFunc()

	if last, ok := w.lastSent[title]; ok && now.Sub(last) < time.Duration(w.config.Cooldown) {
		return ErrWebhookCooldown
	}

	w.lastSent[title] = now

	return nil
}
