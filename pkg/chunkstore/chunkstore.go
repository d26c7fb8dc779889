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

// Package chunkstore is the durable, deduplicated fragment store behind
// image reassembly. Fragments are keyed by (device, artifact, index) and
// write-once: a redelivered fragment never overwrites what arrived first.
// Clearing a key is the finalize guard, since a second finalize attempt
// finds nothing to assemble and becomes a no-op.
package chunkstore

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carverauto/canopy/pkg/logger"
	"github.com/carverauto/canopy/pkg/models"
)

// Store persists image fragments in Postgres.
type Store struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

// New creates a fragment store over an existing pool.
func New(pool *pgxpool.Pool, log logger.Logger) *Store {
	return &Store{pool: pool, logger: log}
}

const storeFragmentSQL = `
INSERT INTO image_fragments (
	device_id,
	artifact_name,
	idx,
	payload,
	expires_at,
	created_at
) VALUES (
	$1,$2,$3,$4,$5,$6
)
ON CONFLICT (device_id, artifact_name, idx) DO NOTHING`

// StoreFragment writes a fragment if that index is absent. The returned
// bool reports whether this call newly stored data; a duplicate delivery
// is absorbed and behaves identically apart from the flag.
func (s *Store) StoreFragment(ctx context.Context, frag *models.FragmentRecord) (bool, error) {
	if frag == nil {
		return false, ErrFragmentNil
	}

	if frag.DeviceID == "" || frag.ArtifactName == "" {
		return false, ErrKeyFieldsRequired
	}

	if frag.Index < 0 {
		return false, fmt.Errorf("%w: %d", ErrNegativeIndex, frag.Index)
	}

	if frag.CreatedAt.IsZero() {
		frag.CreatedAt = time.Now().UTC()
	}

	tag, err := s.pool.Exec(ctx, storeFragmentSQL,
		frag.DeviceID,
		frag.ArtifactName,
		frag.Index,
		frag.Payload,
		frag.ExpiresAt,
		frag.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrFailedToStore, err)
	}

	stored := tag.RowsAffected() > 0
	if !stored {
		s.logger.Debug().
			Str("device_id", frag.DeviceID).
			Str("artifact", frag.ArtifactName).
			Int("index", frag.Index).
			Msg("duplicate fragment absorbed")
	}

	return stored, nil
}

// ReceivedCount returns how many distinct fragment indices are stored for
// the key, regardless of the declared total.
func (s *Store) ReceivedCount(ctx context.Context, deviceID, artifactName string) (int, error) {
	var count int

	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM image_fragments WHERE device_id = $1 AND artifact_name = $2`,
		deviceID, artifactName).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}

	return count, nil
}

// IsComplete reports whether every index in [0, declaredTotal) is stored.
// A declared total of zero is trivially complete.
func (s *Store) IsComplete(ctx context.Context, deviceID, artifactName string, declaredTotal int) (bool, error) {
	if declaredTotal < 0 {
		return false, fmt.Errorf("%w: %d", ErrInvalidTotal, declaredTotal)
	}

	var count int

	err := s.pool.QueryRow(ctx, `
SELECT COUNT(*) FROM image_fragments
WHERE device_id = $1 AND artifact_name = $2 AND idx >= 0 AND idx < $3`,
		deviceID, artifactName, declaredTotal).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}

	return count == declaredTotal, nil
}

// MissingIndices returns the ascending list of indices in
// [0, declaredTotal) not yet stored, for a targeted retransmission request.
func (s *Store) MissingIndices(ctx context.Context, deviceID, artifactName string, declaredTotal int) ([]int, error) {
	if declaredTotal < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTotal, declaredTotal)
	}

	rows, err := s.pool.Query(ctx, `
SELECT idx FROM image_fragments
WHERE device_id = $1 AND artifact_name = $2 AND idx >= 0 AND idx < $3
ORDER BY idx`,
		deviceID, artifactName, declaredTotal)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}
	defer rows.Close()

	present := make([]int, 0, declaredTotal)

	for rows.Next() {
		var idx int
		if err := rows.Scan(&idx); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
		}
		present = append(present, idx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}

	return complementOf(present, declaredTotal), nil
}

// Assemble concatenates the stored fragments strictly in index order. Any
// absent index in range fails the assembly; callers are expected to have
// checked IsComplete first, but the gap check stands on its own.
func (s *Store) Assemble(ctx context.Context, deviceID, artifactName string, declaredTotal int) ([]byte, error) {
	if declaredTotal < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTotal, declaredTotal)
	}

	rows, err := s.pool.Query(ctx, `
SELECT idx, payload FROM image_fragments
WHERE device_id = $1 AND artifact_name = $2 AND idx >= 0 AND idx < $3
ORDER BY idx`,
		deviceID, artifactName, declaredTotal)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}
	defer rows.Close()

	fragments := make([]indexedPayload, 0, declaredTotal)

	for rows.Next() {
		var frag indexedPayload
		if err := rows.Scan(&frag.index, &frag.payload); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
		}
		fragments = append(fragments, frag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}

	return assembleFragments(fragments, declaredTotal)
}

// Clear deletes every fragment for the key and reports how many rows went
// away. A zero return on a key that was expected to hold data means some
// other path finalized or swept it first.
func (s *Store) Clear(ctx context.Context, deviceID, artifactName string) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM image_fragments WHERE device_id = $1 AND artifact_name = $2`,
		deviceID, artifactName)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFailedToClear, err)
	}

	return tag.RowsAffected(), nil
}

// DeleteExpired removes every fragment whose expiry has passed.
func (s *Store) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM image_fragments WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFailedToClear, err)
	}

	return tag.RowsAffected(), nil
}

type indexedPayload struct {
	index   int
	payload []byte
}

// complementOf walks the ascending present list against [0, declaredTotal)
// and returns the sorted gaps.
func complementOf(present []int, declaredTotal int) []int {
	missing := make([]int, 0)
	next := 0

	for _, idx := range present {
		for next < idx {
			missing = append(missing, next)
			next++
		}
		next = idx + 1
	}

	for next < declaredTotal {
		missing = append(missing, next)
		next++
	}

	return missing
}

func assembleFragments(fragments []indexedPayload, declaredTotal int) ([]byte, error) {
	var buf bytes.Buffer

	expected := 0

	for _, frag := range fragments {
		if frag.index != expected {
			return nil, fmt.Errorf("%w: index %d", ErrFragmentGap, expected)
		}

		buf.Write(frag.payload)
		expected++
	}

	if expected != declaredTotal {
		return nil, fmt.Errorf("%w: index %d", ErrFragmentGap, expected)
	}

	return buf.Bytes(), nil
}
