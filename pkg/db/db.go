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

// Package db owns the Postgres persistence layer for canopy: the pooled
// connection, schema migrations, and the wake event and image transfer
// stores the engine drives.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carverauto/canopy/pkg/logger"
	"github.com/carverauto/canopy/pkg/models"
)

// DB is the Postgres-backed store for wake events and image transfers.
type DB struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

// New dials Postgres, hydrates the schema, and returns the store.
func New(ctx context.Context, cfg *models.PostgresConfig, log logger.Logger) (*DB, error) {
	pool, err := NewPool(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, pool, log); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %w", ErrFailedOpenDB, err)
	}

	return &DB{pool: pool, logger: log}, nil
}

// NewWithPool wraps an existing pool without running migrations.
func NewWithPool(pool *pgxpool.Pool, log logger.Logger) *DB {
	return &DB{pool: pool, logger: log}
}

// Pool exposes the underlying pgx pool for collaborating stores.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// Close releases the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}
