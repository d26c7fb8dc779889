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

package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/carverauto/canopy/pkg/logger"
)

// Duration is a time.Duration that unmarshals from either a Go duration
// string ("90s") or a raw nanosecond count.
type Duration time.Duration

var (
	errInvalidDuration      = fmt.Errorf("invalid duration")
	errNATSURLRequired      = fmt.Errorf("nats url is required")
	errDatabaseHostRequired = fmt.Errorf("database host is required")
	errDatabaseNameRequired = fmt.Errorf("database name is required")
)

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		// parse numeric as nanoseconds
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// WebhookConfig represents a webhook notification configuration.
type WebhookConfig struct {
	Enabled  bool     `json:"enabled"`
	URL      string   `json:"url"`
	Cooldown Duration `json:"cooldown"`
	Headers  []Header `json:"headers,omitempty"` // Optional custom headers
}

// Header represents a custom HTTP header.
type Header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// TLSConfig holds mTLS material for a client connection. Relative paths are
// resolved against the owning config's cert_dir.
type TLSConfig struct {
	CertFile   string `json:"cert_file"`
	KeyFile    string `json:"key_file"`
	CAFile     string `json:"ca_file"`
	ServerName string `json:"server_name,omitempty"`
}

// PostgresConfig describes the Postgres cluster backing canopy state.
type PostgresConfig struct {
	Host               string            `json:"host"`
	Port               int               `json:"port"`
	Database           string            `json:"database"`
	Username           string            `json:"username"`
	Password           string            `json:"password"`
	SSLMode            string            `json:"sslmode,omitempty"`
	ApplicationName    string            `json:"application_name,omitempty"`
	MaxConnections     int32             `json:"max_connections,omitempty"`
	MinConnections     int32             `json:"min_connections,omitempty"`
	MaxConnLifetime    Duration          `json:"max_conn_lifetime,omitempty"`
	HealthCheckPeriod  Duration          `json:"health_check_period,omitempty"`
	StatementTimeout   Duration          `json:"statement_timeout,omitempty"`
	ExtraRuntimeParams map[string]string `json:"extra_runtime_params,omitempty"`
	CertDir            string            `json:"cert_dir,omitempty"`
	TLS                *TLSConfig        `json:"tls,omitempty"`
}

// NATSConfig describes the NATS/JetStream backbone connection.
type NATSConfig struct {
	URL      string     `json:"url"`
	CertDir  string     `json:"cert_dir,omitempty"`
	Security *TLSConfig `json:"security,omitempty"`
}

// Validate ensures the NATS configuration is valid.
func (c *NATSConfig) Validate() error {
	if c.URL == "" {
		return errNATSURLRequired
	}

	return nil
}

// EngineConfig tunes the wake engine's ingest consumer and background work.
// Zero values fall back to the defaults the engine applies at startup.
type EngineConfig struct {
	StreamName        string   `json:"stream_name,omitempty"`
	ConsumerName      string   `json:"consumer_name,omitempty"`
	SubjectPrefix     string   `json:"subject_prefix,omitempty"`
	ObjectStoreBucket string   `json:"object_store_bucket,omitempty"`
	WorkerShards      int      `json:"worker_shards,omitempty"`
	FetchBatch        int      `json:"fetch_batch,omitempty"`
	FetchWait         Duration `json:"fetch_wait,omitempty"`
	FragmentTTL       Duration `json:"fragment_ttl,omitempty"`
	TransferTTL       Duration `json:"transfer_ttl,omitempty"`
	SweepInterval     Duration `json:"sweep_interval,omitempty"`
	DefaultWakeHour   int      `json:"default_wake_hour,omitempty"`
}

// CanopyConfig represents the configuration for the canopy service.
type CanopyConfig struct {
	NATS     NATSConfig      `json:"nats"`
	Database PostgresConfig  `json:"database"`
	Engine   EngineConfig    `json:"engine,omitempty"`
	Events   *EventsConfig   `json:"events,omitempty"`
	Webhooks []WebhookConfig `json:"webhooks,omitempty"`
	Logging  *logger.Config  `json:"logging,omitempty"`
}

func (c *CanopyConfig) Validate() error {
	if err := c.NATS.Validate(); err != nil {
		return err
	}

	if c.Database.Host == "" {
		return errDatabaseHostRequired
	}

	if c.Database.Database == "" {
		return errDatabaseNameRequired
	}

	if c.Events != nil {
		if err := c.Events.Validate(); err != nil {
			return err
		}
	}

	return nil
}
