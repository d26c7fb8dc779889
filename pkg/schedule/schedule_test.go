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

package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHourList(t *testing.T) {
	t.Parallel()

	s, err := Parse("19,7,13")
	require.NoError(t, err)

	next := s.Next(time.Date(2026, 3, 14, 9, 15, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, time.Date(2026, 3, 14, 13, 0, 0, 0, time.UTC), next)
}

func TestParseHourListToleratesSpacesAndDuplicates(t *testing.T) {
	t.Parallel()

	s, err := Parse(" 7, 7 ,13 ")
	require.NoError(t, err)

	next := s.Next(time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, time.Date(2026, 3, 14, 13, 0, 0, 0, time.UTC), next)
}

func TestParseSingleHour(t *testing.T) {
	t.Parallel()

	s, err := Parse("14")
	require.NoError(t, err)

	next := s.Next(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, time.Date(2026, 3, 14, 14, 0, 0, 0, time.UTC), next)
}

func TestParseInterval(t *testing.T) {
	t.Parallel()

	for _, expr := range []string{"every 6h", "every 6 hours", "Every 6 Hours", "every 6hr"} {
		s, err := Parse(expr)
		require.NoError(t, err, "expression %q", expr)

		ref := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
		assert.Equal(t, ref.Add(6*time.Hour), s.Next(ref, time.UTC), "expression %q", expr)
	}
}

func TestParseRejectsUnsupportedExpressions(t *testing.T) {
	t.Parallel()

	for _, expr := range []string{"7:30", "every 90m", "every 0 hours", "banana", "7;13"} {
		_, err := Parse(expr)
		require.ErrorIs(t, err, ErrUnsupportedExpression, "expression %q", expr)
	}
}

func TestParseRejectsOutOfRangeHours(t *testing.T) {
	t.Parallel()

	for _, expr := range []string{"24", "-1", "7,25"} {
		_, err := Parse(expr)
		require.ErrorIs(t, err, ErrHourOutOfRange, "expression %q", expr)
	}
}

func TestParseRejectsEmptyExpression(t *testing.T) {
	t.Parallel()

	_, err := Parse("   ")
	require.ErrorIs(t, err, ErrEmptyExpression)
}

func TestResolveDeviceScheduleWins(t *testing.T) {
	t.Parallel()

	s, err := Resolve("6,18", "8,16")
	require.NoError(t, err)

	next := s.Next(time.Date(2026, 3, 14, 7, 0, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, 18, next.Hour())
}

func TestResolveFallsBackToSiteSchedule(t *testing.T) {
	t.Parallel()

	s, err := Resolve("", "8,16")
	require.NoError(t, err)

	next := s.Next(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, time.Date(2026, 3, 14, 16, 0, 0, 0, time.UTC), next)
}

func TestResolveFallsBackToDefault(t *testing.T) {
	t.Parallel()

	s, err := Resolve("", "")
	require.NoError(t, err)

	next := s.Next(time.Date(2026, 3, 14, 13, 0, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, time.Date(2026, 3, 15, DefaultWakeHour, 0, 0, 0, time.UTC), next)
}

func TestResolveSurfacesMalformedDeviceExpression(t *testing.T) {
	t.Parallel()

	_, err := Resolve("7:30", "8,16")
	require.ErrorIs(t, err, ErrUnsupportedExpression)
	assert.Contains(t, err.Error(), "device schedule")
}

// A device that woke late still gets its next wake measured from when it
// actually woke, not from when it should have.
func TestNextIntervalIsDriftFree(t *testing.T) {
	t.Parallel()

	s, err := Parse("every 6 hours")
	require.NoError(t, err)

	actualWake := time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC)

	next := s.Next(actualWake, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC), next)
}

func TestNextHourListWrapsToNextDay(t *testing.T) {
	t.Parallel()

	s, err := Parse("7,13,19")
	require.NoError(t, err)

	next := s.Next(time.Date(2026, 3, 14, 20, 10, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, time.Date(2026, 3, 15, 7, 0, 0, 0, time.UTC), next)
}

func TestNextSkipsHourAlreadyUnderway(t *testing.T) {
	t.Parallel()

	s, err := Parse("7,13,19")
	require.NoError(t, err)

	// Waking at 13:05 is the 13:00 slot; the next wake is 19:00, not a
	// re-trigger of 13:00.
	next := s.Next(time.Date(2026, 3, 14, 13, 5, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC), next)

	next = s.Next(time.Date(2026, 3, 14, 13, 45, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC), next)
}

func TestNextMidnightHourWraps(t *testing.T) {
	t.Parallel()

	s, err := Parse("0,12")
	require.NoError(t, err)

	next := s.Next(time.Date(2026, 3, 14, 13, 0, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), next)
}

func TestNextUsesLocation(t *testing.T) {
	t.Parallel()

	mountain := time.FixedZone("MST", -7*3600)

	s, err := Parse("8,16")
	require.NoError(t, err)

	// 18:30 UTC is 11:30 local, so the next local wake hour is 16.
	ref := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

	next := s.Next(ref, mountain)
	assert.Equal(t, time.Date(2026, 3, 14, 16, 0, 0, 0, mountain), next)
}

func TestNextZeroScheduleUsesDefaultHour(t *testing.T) {
	t.Parallel()

	var s Schedule

	next := s.Next(time.Date(2026, 3, 14, 7, 0, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, time.Date(2026, 3, 14, DefaultWakeHour, 0, 0, 0, time.UTC), next)
}

func TestFormatWakeTime(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "6:30 PM", FormatWakeTime(time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC), nil))
	assert.Equal(t, "9:05 AM", FormatWakeTime(time.Date(2026, 3, 14, 9, 5, 0, 0, time.UTC), nil))
	assert.Equal(t, "12:00 PM", FormatWakeTime(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC), nil))
}

func TestFormatWakeTimeConvertsLocation(t *testing.T) {
	t.Parallel()

	mountain := time.FixedZone("MST", -7*3600)

	utc := time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "4:00 PM", FormatWakeTime(utc, mountain))
}
