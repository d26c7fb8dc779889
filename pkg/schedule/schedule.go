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

// Package schedule computes device wake times from schedule expressions.
// Three shapes are supported: a comma-separated hour list ("7,13,19"),
// a fixed-step interval ("every 6h", "every 6 hours"), and a single hour
// ("14"). Granularity is whole hours; expressions carrying minutes are
// rejected.
package schedule

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultWakeHour is the fallback wake hour when neither the device nor
// its site carries a schedule expression.
const DefaultWakeHour = 9

const wakeTimeLayout = "3:04 PM"

var (
	ErrEmptyExpression       = errors.New("empty schedule expression")
	ErrUnsupportedExpression = errors.New("unsupported schedule expression")
	ErrHourOutOfRange        = errors.New("schedule hour out of range")
)

type scheduleKind int

const (
	kindHours scheduleKind = iota
	kindInterval
)

// Schedule is a parsed wake schedule. The zero value behaves like the
// fixed default.
type Schedule struct {
	kind  scheduleKind
	hours []int
	step  time.Duration
}

// Default returns the fixed single-hour fallback schedule.
func Default() Schedule {
	return DefaultAt(DefaultWakeHour)
}

// DefaultAt returns a single-hour schedule at the given hour. Hours outside
// 0-23 fall back to DefaultWakeHour.
func DefaultAt(hour int) Schedule {
	if hour < 0 || hour > 23 {
		hour = DefaultWakeHour
	}

	return Schedule{kind: kindHours, hours: []int{hour}}
}

// Parse parses a schedule expression into a Schedule.
func Parse(expr string) (Schedule, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return Schedule{}, ErrEmptyExpression
	}

	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "every ") {
		return parseInterval(lower)
	}

	return parseHourList(trimmed)
}

// Resolve picks the effective schedule: the device's own expression wins,
// then the site's, then the fixed default. A malformed expression is an
// error, not a silent fallback.
func Resolve(deviceExpr, siteExpr string) (Schedule, error) {
	if strings.TrimSpace(deviceExpr) != "" {
		s, err := Parse(deviceExpr)
		if err != nil {
			return Schedule{}, fmt.Errorf("device schedule: %w", err)
		}

		return s, nil
	}

	if strings.TrimSpace(siteExpr) != "" {
		s, err := Parse(siteExpr)
		if err != nil {
			return Schedule{}, fmt.Errorf("site schedule: %w", err)
		}

		return s, nil
	}

	return Default(), nil
}

// Next computes the wake instant following ref in the given location.
// ref must be the device's actual most recent wake time; deriving it from
// a previously scheduled time compounds drift whenever a device wakes late.
//
// Interval schedules add the step to ref, preserving minutes. Hour-list
// schedules pick the smallest scheduled hour strictly after ref's local
// hour at minute zero; a scheduled hour equal to the current one counts as
// the wake already underway and is never re-scheduled for the same day.
// With no later hour today the schedule wraps to the first hour of the
// next calendar day.
func (s Schedule) Next(ref time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}

	local := ref.In(loc)

	if s.kind == kindInterval {
		return local.Add(s.step)
	}

	hours := s.hours
	if len(hours) == 0 {
		hours = []int{DefaultWakeHour}
	}

	for _, h := range hours {
		if h > local.Hour() {
			return time.Date(local.Year(), local.Month(), local.Day(), h, 0, 0, 0, loc)
		}
	}

	tomorrow := local.AddDate(0, 0, 1)

	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), hours[0], 0, 0, 0, loc)
}

// FormatWakeTime renders a wake instant as the compact display string the
// device firmware parses, e.g. "6:30 PM".
func FormatWakeTime(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}

	return t.Format(wakeTimeLayout)
}

func parseInterval(lower string) (Schedule, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(lower, "every "))

	for _, suffix := range []string{"hours", "hour", "hrs", "hr", "h"} {
		if strings.HasSuffix(rest, suffix) {
			rest = strings.TrimSpace(strings.TrimSuffix(rest, suffix))
			break
		}
	}

	n, err := strconv.Atoi(rest)
	if err != nil {
		return Schedule{}, fmt.Errorf("%w: %q", ErrUnsupportedExpression, lower)
	}

	if n < 1 {
		return Schedule{}, fmt.Errorf("%w: %q: interval must be at least one hour", ErrUnsupportedExpression, lower)
	}

	return Schedule{kind: kindInterval, step: time.Duration(n) * time.Hour}, nil
}

func parseHourList(expr string) (Schedule, error) {
	parts := strings.Split(expr, ",")

	hours := make([]int, 0, len(parts))
	seen := make(map[int]bool)

	for _, part := range parts {
		h, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return Schedule{}, fmt.Errorf("%w: %q", ErrUnsupportedExpression, expr)
		}

		if h < 0 || h > 23 {
			return Schedule{}, fmt.Errorf("%w: %d", ErrHourOutOfRange, h)
		}

		if !seen[h] {
			seen[h] = true

			hours = append(hours, h)
		}
	}

	sort.Ints(hours)

	return Schedule{kind: kindHours, hours: hours}, nil
}
