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

package registry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/carverauto/canopy/pkg/logger"
)

func TestResolveRequiresDeviceID(t *testing.T) {
	t.Parallel()

	r := New(nil, logger.NewTestLogger())

	_, err := r.Resolve(context.Background(), "")
	require.ErrorIs(t, err, ErrDeviceIDRequired)
}

func TestRecordStatusRequiresDeviceID(t *testing.T) {
	t.Parallel()

	r := New(nil, logger.NewTestLogger())

	err := r.RecordStatus(context.Background(), "", 0, nil)
	require.ErrorIs(t, err, ErrDeviceIDRequired)
}

func TestUpdateTelemetryRequiresDeviceID(t *testing.T) {
	t.Parallel()

	r := New(nil, logger.NewTestLogger())

	err := r.UpdateTelemetry(context.Background(), "", nil)
	require.ErrorIs(t, err, ErrDeviceIDRequired)
}

func TestCommitWakeRejectsZeroTimestamps(t *testing.T) {
	t.Parallel()

	r := New(nil, logger.NewTestLogger())

	err := r.CommitWake(context.Background(), "cam-01", time.Time{}, time.Now())
	require.ErrorIs(t, err, ErrZeroWakeTimestamp)

	err = r.CommitWake(context.Background(), "cam-01", time.Now(), time.Time{})
	require.ErrorIs(t, err, ErrZeroWakeTimestamp)
}

func TestCommitWakeRequiresDeviceID(t *testing.T) {
	t.Parallel()

	r := New(nil, logger.NewTestLogger())

	err := r.CommitWake(context.Background(), "", time.Now(), time.Now())
	require.ErrorIs(t, err, ErrDeviceIDRequired)
}
