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

// The canopy binary runs the wake engine and the TTL sweeper over a shared
// Postgres pool and NATS connection.
package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/canopy/pkg/alerts"
	"github.com/carverauto/canopy/pkg/chunkstore"
	"github.com/carverauto/canopy/pkg/config"
	"github.com/carverauto/canopy/pkg/db"
	"github.com/carverauto/canopy/pkg/engine"
	"github.com/carverauto/canopy/pkg/lifecycle"
	"github.com/carverauto/canopy/pkg/logger"
	"github.com/carverauto/canopy/pkg/models"
	"github.com/carverauto/canopy/pkg/natsutil"
	"github.com/carverauto/canopy/pkg/publisher"
	"github.com/carverauto/canopy/pkg/registry"
	"github.com/carverauto/canopy/pkg/storage"
	"github.com/carverauto/canopy/pkg/version"
)

const (
	serviceName = "canopy"

	defaultEventsStream = "CANOPY_EVENTS"
)

var defaultEventSubjects = []string{"canopy.events.>"}

func main() {
	configPath := flag.String("config", "/etc/canopy/canopy.json", "Path to config file")
	flag.Parse()

	ctx := context.Background()

	var cfg models.CanopyConfig
	if err := config.NewConfig(nil).LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	loggerConfig := cfg.Logging
	if loggerConfig == nil {
		loggerConfig = logger.DefaultConfig()
	}

	mainLogger, err := lifecycle.CreateLogger(serviceName, loggerConfig)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	mainLogger.Info().
		Str("version", version.GetFullVersion()).
		Msg("Starting canopy")

	telemetryCfg := logger.TelemetryConfig{ServiceName: serviceName, OTel: &loggerConfig.OTel}

	tp, err := logger.InitializeTracing(ctx, telemetryCfg)
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	mp, err := logger.InitializeMetrics(ctx, telemetryCfg)
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}
	defer func() { _ = mp.Shutdown(context.Background()) }()

	database, err := db.New(ctx, &cfg.Database, componentLogger("db", loggerConfig))
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	natsLogger := componentLogger("nats", loggerConfig)

	nc, err := natsutil.Connect(natsConnConfig(&cfg.NATS), natsLogger)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer nc.Close()

	js, err := jetstream.New(nc)
	if err != nil {
		log.Fatalf("Failed to initialize JetStream: %v", err)
	}

	engineCfg := engineConfig(&cfg.Engine)

	if _, err = natsutil.EnsureStream(ctx, js, engineCfg.StreamName, engineCfg.Subjects()); err != nil {
		log.Fatalf("Failed to ensure ingest stream: %v", err)
	}

	bucketName := cfg.Engine.ObjectStoreBucket
	if bucketName == "" {
		bucketName = storage.DefaultBucket
	}

	bucket, err := natsutil.EnsureObjectStore(ctx, js, bucketName)
	if err != nil {
		log.Fatalf("Failed to ensure object store bucket: %v", err)
	}

	events, err := eventsPublisher(ctx, js, cfg.Events, natsLogger)
	if err != nil {
		log.Fatalf("Failed to ensure events stream: %v", err)
	}

	storageLogger := componentLogger("storage", loggerConfig)
	artifacts := storage.NewArtifactStorage(bucket, bucketName, storageLogger)
	notifier := storage.NewNotifier(database, events, storageLogger)

	reg := registry.New(database.Pool(), componentLogger("registry", loggerConfig))
	chunks := chunkstore.New(database.Pool(), componentLogger("chunkstore", loggerConfig))
	directives := publisher.New(nc, engineCfg.SubjectPrefix, componentLogger("publisher", loggerConfig))
	alerter := webhookAlerter(cfg.Webhooks)

	eng, err := engine.NewEngine(js, engine.Dependencies{
		Lineage:    reg,
		Devices:    reg,
		Wakes:      database,
		Transfers:  database,
		Chunks:     chunks,
		Artifacts:  artifacts,
		Notifier:   notifier,
		Directives: directives,
		Alerter:    alerter,
	}, engineCfg, componentLogger("engine", loggerConfig))
	if err != nil {
		log.Fatalf("Failed to initialize wake engine: %v", err)
	}

	sweeper := chunkstore.NewSweeper(
		chunks,
		database,
		notifier,
		alerter,
		chunkstore.SweeperConfig{
			Interval:    time.Duration(cfg.Engine.SweepInterval),
			TransferTTL: time.Duration(cfg.Engine.TransferTTL),
		},
		nil,
		componentLogger("sweeper", loggerConfig),
	)

	svc := &canopyService{engine: eng, sweeper: sweeper}

	if err := lifecycle.Run(ctx, &lifecycle.RunOptions{
		Service: svc,
		Logger:  mainLogger,
	}); err != nil {
		mainLogger.Fatal().Err(err).Msg("Canopy service failed")
	}
}

// canopyService runs the wake engine and the TTL sweeper as one unit.
type canopyService struct {
	engine  *engine.Engine
	sweeper *chunkstore.Sweeper
}

func (s *canopyService) Start(ctx context.Context) error {
	if err := s.engine.Start(ctx); err != nil {
		return err
	}

	s.sweeper.Start(ctx)

	return nil
}

func (s *canopyService) Stop(ctx context.Context) error {
	s.sweeper.Stop()

	return s.engine.Stop(ctx)
}

func componentLogger(component string, cfg *logger.Config) logger.Logger {
	l, err := lifecycle.CreateComponentLogger(serviceName, component, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize %s logger: %v", component, err)
	}

	return l
}

// engineConfig maps the file configuration onto engine.Config, resolving
// the names the stream bootstrap needs before the engine applies the rest
// of its defaults.
func engineConfig(ec *models.EngineConfig) engine.Config {
	cfg := engine.Config{
		StreamName:      ec.StreamName,
		ConsumerName:    ec.ConsumerName,
		SubjectPrefix:   ec.SubjectPrefix,
		WorkerShards:    ec.WorkerShards,
		FetchBatch:      ec.FetchBatch,
		FetchWait:       time.Duration(ec.FetchWait),
		FragmentTTL:     time.Duration(ec.FragmentTTL),
		DefaultWakeHour: ec.DefaultWakeHour,
	}

	if cfg.StreamName == "" {
		cfg.StreamName = engine.DefaultStreamName
	}

	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = engine.DefaultSubjectPrefix
	}

	return cfg
}

// natsConnConfig converts the file configuration into connection options,
// resolving relative certificate paths against cert_dir.
func natsConnConfig(cfg *models.NATSConfig) *natsutil.ConnConfig {
	conn := &natsutil.ConnConfig{
		URL:  cfg.URL,
		Name: serviceName,
	}

	if cfg.Security != nil {
		conn.Security = &natsutil.TLSConfig{
			CertFile:   resolveCertPath(cfg.CertDir, cfg.Security.CertFile),
			KeyFile:    resolveCertPath(cfg.CertDir, cfg.Security.KeyFile),
			CAFile:     resolveCertPath(cfg.CertDir, cfg.Security.CAFile),
			ServerName: cfg.Security.ServerName,
		}
	}

	return conn
}

func resolveCertPath(dir, path string) string {
	if path == "" || dir == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(dir, path)
}

// eventsPublisher bootstraps the events stream and returns its publisher.
// Events default on; an explicit enabled=false drops them.
func eventsPublisher(ctx context.Context, js jetstream.JetStream, ev *models.EventsConfig, log logger.Logger) (storage.EventPublisher, error) {
	if ev == nil {
		ev = &models.EventsConfig{
			Enabled:    true,
			StreamName: defaultEventsStream,
			Subjects:   defaultEventSubjects,
		}
	}

	if !ev.Enabled {
		return natsutil.NopPublisher{}, nil
	}

	if _, err := natsutil.EnsureStream(ctx, js, ev.StreamName, ev.Subjects); err != nil {
		return nil, err
	}

	return natsutil.NewEventPublisher(js, serviceName, log), nil
}

// webhookAlerter builds the alert fan-out from the enabled webhooks. A nil
// return disables alerting; the engine and sweeper treat it as optional.
func webhookAlerter(hooks []models.WebhookConfig) alerts.AlertService {
	enabled := make([]alerts.AlertService, 0, len(hooks))

	for _, hook := range hooks {
		if hook.Enabled {
			enabled = append(enabled, alerts.NewWebhookAlerter(hook))
		}
	}

	switch len(enabled) {
	case 0:
		return nil
	case 1:
		return enabled[0]
	default:
		return alerts.NewMultiAlerter(enabled...)
	}
}
