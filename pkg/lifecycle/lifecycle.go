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

// Package lifecycle runs long-lived services with signal-aware shutdown
// and builds their loggers.
package lifecycle

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/carverauto/canopy/pkg/logger"
)

const defaultShutdownTimeout = 10 * time.Second

// Service is a long-running component. Start must return promptly after
// launching background work; Stop must be safe to call once after Start.
type Service interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// RunOptions configures Run.
type RunOptions struct {
	Service         Service
	Logger          logger.Logger
	ShutdownTimeout time.Duration
}

// Run starts the service and blocks until the context is canceled or an
// interrupt/termination signal arrives, then stops it with a bounded
// shutdown timeout.
func Run(ctx context.Context, opts *RunOptions) error {
	log := opts.Logger
	if log == nil {
		log = logger.NewTestLogger()
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := opts.Service.Start(sigCtx); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}

	<-sigCtx.Done()
	log.Info().Msg("Shutdown signal received, stopping service")

	timeout := opts.ShutdownTimeout
	if timeout == 0 {
		timeout = defaultShutdownTimeout
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := opts.Service.Stop(stopCtx); err != nil {
		return fmt.Errorf("failed to stop service cleanly: %w", err)
	}

	log.Info().Msg("Service stopped")

	return nil
}
