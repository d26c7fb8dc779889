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

package lifecycle

import (
	"github.com/rs/zerolog"

	"github.com/carverauto/canopy/pkg/logger"
)

// CreateLogger creates a logger instance that can be injected into
// services.
func CreateLogger(serviceName string, config *logger.Config) (logger.Logger, error) {
	return logger.New(config, serviceName)
}

// CreateComponentLogger creates a logger tagged with a component field.
func CreateComponentLogger(serviceName, component string, config *logger.Config) (logger.Logger, error) {
	base, err := logger.New(config, serviceName)
	if err != nil {
		return nil, err
	}

	return &componentLogger{inner: base.WithComponent(component)}, nil
}

// componentLogger wraps a zerolog.Logger carrying a component field so it
// still satisfies the logger.Logger interface.
type componentLogger struct {
	inner zerolog.Logger
}

func (c *componentLogger) Trace() *zerolog.Event { return c.inner.Trace() }
func (c *componentLogger) Debug() *zerolog.Event { return c.inner.Debug() }
func (c *componentLogger) Info() *zerolog.Event  { return c.inner.Info() }
func (c *componentLogger) Warn() *zerolog.Event  { return c.inner.Warn() }
func (c *componentLogger) Error() *zerolog.Event { return c.inner.Error() }
func (c *componentLogger) Fatal() *zerolog.Event { return c.inner.Fatal() }
func (c *componentLogger) Panic() *zerolog.Event { return c.inner.Panic() }
func (c *componentLogger) With() zerolog.Context { return c.inner.With() }

func (c *componentLogger) WithComponent(component string) zerolog.Logger {
	return c.inner.With().Str("component", component).Logger()
}

func (c *componentLogger) WithFields(fields map[string]interface{}) zerolog.Logger {
	ctx := c.inner.With()
	for key, value := range fields {
		ctx = ctx.Interface(key, value)
	}

	return ctx.Logger()
}

func (c *componentLogger) SetLevel(level zerolog.Level) {
	c.inner = c.inner.Level(level)
}

func (c *componentLogger) SetDebug(debug bool) {
	if debug {
		c.SetLevel(zerolog.DebugLevel)
	} else {
		c.SetLevel(zerolog.InfoLevel)
	}
}
