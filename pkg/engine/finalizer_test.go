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

package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/canopy/pkg/alerts"
	"github.com/carverauto/canopy/pkg/db"
	"github.com/carverauto/canopy/pkg/models"
)

func finalizeFixtures(wokeAt time.Time) (*models.WakeEvent, *models.ImageTransfer) {
	wake := &models.WakeEvent{
		ID:           "wake-1",
		DeviceID:     "cam-01",
		CaptureID:    "cap-1",
		ArtifactName: "a.jpg",
		State:        models.StateSnapSent,
		CreatedAt:    wokeAt,
	}

	transfer := &models.ImageTransfer{
		ID:               "tr-1",
		DeviceID:         "cam-01",
		ArtifactName:     "a.jpg",
		WakeEventID:      "wake-1",
		DeclaredTotal:    3,
		CaptureTimestamp: "2026-03-14 12:31:02",
		Status:           models.TransferReceiving,
	}

	return wake, transfer
}

func TestFinalizeStoresNotifiesAndSleeps(t *testing.T) {
	eng, h := newEngineHarness(t)

	wokeAt := time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC)
	completedAt := time.Date(2026, 3, 14, 12, 33, 5, 0, time.UTC)
	h.clock.EXPECT().Now().Return(completedAt).AnyTimes()

	wake, transfer := finalizeFixtures(wokeAt)

	siteSched := "every 6h"
	lin := &models.Lineage{
		DeviceID:     "cam-01",
		Mapped:       true,
		Approved:     true,
		OrgID:        "org-1",
		SiteID:       "site-1",
		SiteSchedule: &siteSched,
	}

	data := []byte("jpeg-bytes")
	location := "nats-obj://canopy-images/org-1/site-1/cam-01/a.jpg"

	gomock.InOrder(
		h.lineage.EXPECT().Resolve(gomock.Any(), "cam-01").Return(lin, nil),
		h.chunks.EXPECT().IsComplete(gomock.Any(), "cam-01", "a.jpg", 3).Return(true, nil),
		h.chunks.EXPECT().Assemble(gomock.Any(), "cam-01", "a.jpg", 3).Return(data, nil),
		h.artifacts.EXPECT().Put(gomock.Any(), "org-1/site-1/cam-01/a.jpg", data).Return(location, nil),
		h.notifier.EXPECT().CaptureCompleted(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, rec *models.CaptureRecord) error {
				assert.Equal(t, "cap-1", rec.CaptureID)
				assert.Equal(t, "cam-01", rec.DeviceID)
				assert.Equal(t, "org-1", rec.OrgID)
				assert.Equal(t, "site-1", rec.SiteID)
				assert.Equal(t, "a.jpg", rec.ArtifactName)
				assert.Equal(t, location, rec.StorageLocation)
				assert.Equal(t, len(data), rec.SizeBytes)
				assert.Equal(t, 3, rec.Fragments)
				assert.Equal(t, "2026-03-14 12:31:02", rec.CaptureTimestamp)
				assert.Equal(t, completedAt, rec.CompletedAt)

				return nil
			}),
		h.transfers.EXPECT().MarkTransferComplete(gomock.Any(), "tr-1", location).Return(nil),
		h.wakes.EXPECT().TransitionWakeState(gomock.Any(), "wake-1", models.StateSnapSent, models.StateMetadataReceived).Return(nil),
		h.devices.EXPECT().CommitWake(gomock.Any(), "cam-01", wokeAt, wokeAt.Add(6*time.Hour)).Return(nil),
		h.directives.EXPECT().SleepUntil(gomock.Any(), "cam-01", "6:30 PM").Return(nil),
		h.wakes.EXPECT().TransitionWakeState(gomock.Any(), "wake-1", models.StateMetadataReceived, models.StateComplete).Return(nil),
		h.wakes.EXPECT().IncrementImagesCompleted(gomock.Any(), "wake-1").Return(nil),
		h.chunks.EXPECT().Clear(gomock.Any(), "cam-01", "a.jpg").Return(int64(3), nil),
	)

	require.NoError(t, eng.finalize(context.Background(), wake, transfer))
}

func TestFinalizeSiteHourListPicksNextSlot(t *testing.T) {
	eng, h := newEngineHarness(t)

	// Woke at 12:30 against a site schedule of 8:00 and 16:00: the next
	// slot is 16:00 today.
	wokeAt := time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC)
	nextWake := time.Date(2026, 3, 14, 16, 0, 0, 0, time.UTC)
	h.clock.EXPECT().Now().Return(wokeAt.Add(2 * time.Minute)).AnyTimes()

	wake, transfer := finalizeFixtures(wokeAt)

	siteSched := "8,16"
	lin := &models.Lineage{
		DeviceID:     "cam-01",
		Mapped:       true,
		Approved:     true,
		OrgID:        "org-1",
		SiteID:       "site-1",
		SiteSchedule: &siteSched,
	}

	h.lineage.EXPECT().Resolve(gomock.Any(), "cam-01").Return(lin, nil)
	h.chunks.EXPECT().IsComplete(gomock.Any(), "cam-01", "a.jpg", 3).Return(true, nil)
	h.chunks.EXPECT().Assemble(gomock.Any(), "cam-01", "a.jpg", 3).Return([]byte("img"), nil)
	h.artifacts.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Return("nats-obj://canopy-images/x", nil)
	h.notifier.EXPECT().CaptureCompleted(gomock.Any(), gomock.Any()).Return(nil)
	h.transfers.EXPECT().MarkTransferComplete(gomock.Any(), "tr-1", gomock.Any()).Return(nil)
	h.wakes.EXPECT().TransitionWakeState(gomock.Any(), "wake-1", models.StateSnapSent, models.StateMetadataReceived).Return(nil)
	h.devices.EXPECT().CommitWake(gomock.Any(), "cam-01", wokeAt, nextWake).Return(nil)
	h.directives.EXPECT().SleepUntil(gomock.Any(), "cam-01", "4:00 PM").Return(nil)
	h.wakes.EXPECT().TransitionWakeState(gomock.Any(), "wake-1", models.StateMetadataReceived, models.StateComplete).Return(nil)
	h.wakes.EXPECT().IncrementImagesCompleted(gomock.Any(), "wake-1").Return(nil)
	h.chunks.EXPECT().Clear(gomock.Any(), "cam-01", "a.jpg").Return(int64(3), nil)

	require.NoError(t, eng.finalize(context.Background(), wake, transfer))
}

func TestFinalizeSkipsWhenChunksAlreadyCleared(t *testing.T) {
	eng, h := newEngineHarness(t)

	wake, transfer := finalizeFixtures(time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC))

	h.lineage.EXPECT().Resolve(gomock.Any(), "cam-01").
		Return(&models.Lineage{DeviceID: "cam-01", Mapped: true, Approved: true}, nil)
	h.chunks.EXPECT().IsComplete(gomock.Any(), "cam-01", "a.jpg", 3).Return(false, nil)

	require.NoError(t, eng.finalize(context.Background(), wake, transfer))
}

func TestFinalizeAssemblyFailureSettlesTransfer(t *testing.T) {
	eng, h := newEngineHarness(t)

	failedAt := time.Date(2026, 3, 14, 12, 33, 5, 0, time.UTC)
	h.clock.EXPECT().Now().Return(failedAt).AnyTimes()

	wake, transfer := finalizeFixtures(time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC))

	gomock.InOrder(
		h.lineage.EXPECT().Resolve(gomock.Any(), "cam-01").
			Return(&models.Lineage{DeviceID: "cam-01", Mapped: true, Approved: true}, nil),
		h.chunks.EXPECT().IsComplete(gomock.Any(), "cam-01", "a.jpg", 3).Return(true, nil),
		h.chunks.EXPECT().Assemble(gomock.Any(), "cam-01", "a.jpg", 3).
			Return(nil, errors.New("fragment 2 vanished")),
		h.transfers.EXPECT().MarkTransferFailed(gomock.Any(), "tr-1", models.FailureAssembly).Return(nil),
		h.wakes.EXPECT().TransitionWakeState(gomock.Any(), "wake-1", models.StateSnapSent, models.StateFailed).Return(nil),
		h.notifier.EXPECT().NotifyTransferFailed(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, failure *models.TransferFailure) error {
				assert.Equal(t, "cam-01", failure.DeviceID)
				assert.Equal(t, "a.jpg", failure.ArtifactName)
				assert.Equal(t, models.FailureAssembly, failure.Code)
				assert.Contains(t, failure.Message, "fragment 2 vanished")
				assert.Equal(t, failedAt, failure.FailedAt)

				return nil
			}),
		h.alerter.EXPECT().Alert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, alert *alerts.WebhookAlert) error {
				assert.Equal(t, alerts.Error, alert.Level)
				assert.Equal(t, "cam-01", alert.DeviceID)
				assert.Equal(t, "assembly_failed", alert.Details["code"])

				return nil
			}),
	)

	// A settled failure is not a processing error: the message acks away.
	require.NoError(t, eng.finalize(context.Background(), wake, transfer))
}

func TestFinalizeUploadFailureSettlesTransfer(t *testing.T) {
	eng, h := newEngineHarness(t)

	h.clock.EXPECT().Now().Return(time.Date(2026, 3, 14, 12, 33, 5, 0, time.UTC)).AnyTimes()

	wake, transfer := finalizeFixtures(time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC))

	gomock.InOrder(
		h.lineage.EXPECT().Resolve(gomock.Any(), "cam-01").
			Return(&models.Lineage{DeviceID: "cam-01", Mapped: true, Approved: true, OrgID: "org-1", SiteID: "site-1"}, nil),
		h.chunks.EXPECT().IsComplete(gomock.Any(), "cam-01", "a.jpg", 3).Return(true, nil),
		h.chunks.EXPECT().Assemble(gomock.Any(), "cam-01", "a.jpg", 3).Return([]byte("img"), nil),
		h.artifacts.EXPECT().Put(gomock.Any(), "org-1/site-1/cam-01/a.jpg", []byte("img")).
			Return("", errors.New("object store unavailable")),
		h.transfers.EXPECT().MarkTransferFailed(gomock.Any(), "tr-1", models.FailureUpload).Return(nil),
		h.wakes.EXPECT().TransitionWakeState(gomock.Any(), "wake-1", models.StateSnapSent, models.StateFailed).Return(nil),
		h.notifier.EXPECT().NotifyTransferFailed(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, failure *models.TransferFailure) error {
				assert.Equal(t, models.FailureUpload, failure.Code)
				return nil
			}),
		h.alerter.EXPECT().Alert(gomock.Any(), gomock.Any()).Return(nil),
	)

	require.NoError(t, eng.finalize(context.Background(), wake, transfer))
}

func TestFinalizeCompletionFailureSettlesTransfer(t *testing.T) {
	eng, h := newEngineHarness(t)

	h.clock.EXPECT().Now().Return(time.Date(2026, 3, 14, 12, 33, 5, 0, time.UTC)).AnyTimes()

	wake, transfer := finalizeFixtures(time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC))

	gomock.InOrder(
		h.lineage.EXPECT().Resolve(gomock.Any(), "cam-01").
			Return(&models.Lineage{DeviceID: "cam-01", Mapped: true, Approved: true}, nil),
		h.chunks.EXPECT().IsComplete(gomock.Any(), "cam-01", "a.jpg", 3).Return(true, nil),
		h.chunks.EXPECT().Assemble(gomock.Any(), "cam-01", "a.jpg", 3).Return([]byte("img"), nil),
		h.artifacts.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Return("nats-obj://canopy-images/x", nil),
		h.notifier.EXPECT().CaptureCompleted(gomock.Any(), gomock.Any()).
			Return(errors.New("events stream rejected publish")),
		h.transfers.EXPECT().MarkTransferFailed(gomock.Any(), "tr-1", models.FailureCompletion).Return(nil),
		h.wakes.EXPECT().TransitionWakeState(gomock.Any(), "wake-1", models.StateSnapSent, models.StateFailed).Return(nil),
		h.notifier.EXPECT().NotifyTransferFailed(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, failure *models.TransferFailure) error {
				assert.Equal(t, models.FailureCompletion, failure.Code)
				return nil
			}),
		h.alerter.EXPECT().Alert(gomock.Any(), gomock.Any()).Return(nil),
	)

	require.NoError(t, eng.finalize(context.Background(), wake, transfer))
}

func TestFinalizeLosesRaceToConcurrentCompletion(t *testing.T) {
	eng, h := newEngineHarness(t)

	h.clock.EXPECT().Now().Return(time.Date(2026, 3, 14, 12, 33, 5, 0, time.UTC)).AnyTimes()

	wake, transfer := finalizeFixtures(time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC))

	// Another pass settled the transfer between our notification and the
	// completion mark. Nothing after the mark may run.
	gomock.InOrder(
		h.lineage.EXPECT().Resolve(gomock.Any(), "cam-01").
			Return(&models.Lineage{DeviceID: "cam-01", Mapped: true, Approved: true}, nil),
		h.chunks.EXPECT().IsComplete(gomock.Any(), "cam-01", "a.jpg", 3).Return(true, nil),
		h.chunks.EXPECT().Assemble(gomock.Any(), "cam-01", "a.jpg", 3).Return([]byte("img"), nil),
		h.artifacts.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Return("nats-obj://canopy-images/x", nil),
		h.notifier.EXPECT().CaptureCompleted(gomock.Any(), gomock.Any()).Return(nil),
		h.transfers.EXPECT().MarkTransferComplete(gomock.Any(), "tr-1", gomock.Any()).
			Return(db.ErrTransferNotReceiving),
	)

	require.NoError(t, eng.finalize(context.Background(), wake, transfer))
}

func TestFinalizeSleepFailureLeavesWakeOpen(t *testing.T) {
	eng, h := newEngineHarness(t)

	wokeAt := time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC)
	h.clock.EXPECT().Now().Return(wokeAt.Add(3 * time.Minute)).AnyTimes()

	wake, transfer := finalizeFixtures(wokeAt)

	// The sleep directive never leaves, so the wake must not be marked
	// complete; the next status message fails it as stale. The artifact is
	// already durable, so fragment cleanup still runs.
	gomock.InOrder(
		h.lineage.EXPECT().Resolve(gomock.Any(), "cam-01").
			Return(&models.Lineage{DeviceID: "cam-01", Mapped: true, Approved: true}, nil),
		h.chunks.EXPECT().IsComplete(gomock.Any(), "cam-01", "a.jpg", 3).Return(true, nil),
		h.chunks.EXPECT().Assemble(gomock.Any(), "cam-01", "a.jpg", 3).Return([]byte("img"), nil),
		h.artifacts.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Return("nats-obj://canopy-images/x", nil),
		h.notifier.EXPECT().CaptureCompleted(gomock.Any(), gomock.Any()).Return(nil),
		h.transfers.EXPECT().MarkTransferComplete(gomock.Any(), "tr-1", gomock.Any()).Return(nil),
		h.wakes.EXPECT().TransitionWakeState(gomock.Any(), "wake-1", models.StateSnapSent, models.StateMetadataReceived).Return(nil),
		h.devices.EXPECT().CommitWake(gomock.Any(), "cam-01", wokeAt, gomock.Any()).Return(nil),
		h.directives.EXPECT().SleepUntil(gomock.Any(), "cam-01", gomock.Any()).
			Return(errors.New("command publish failed")),
		h.chunks.EXPECT().Clear(gomock.Any(), "cam-01", "a.jpg").Return(int64(3), nil),
	)

	require.NoError(t, eng.finalize(context.Background(), wake, transfer))
}

func TestFinalizeFailsZeroFragmentArtifactOnEmptyUpload(t *testing.T) {
	eng, h := newEngineHarness(t)

	h.clock.EXPECT().Now().Return(time.Date(2026, 3, 14, 12, 33, 5, 0, time.UTC)).AnyTimes()

	// A metadata message declaring zero fragments is complete on arrival,
	// assembles to nothing, and dies at the upload step.
	wake := &models.WakeEvent{
		ID:           "wake-1",
		DeviceID:     "cam-01",
		ArtifactName: "a.jpg",
		State:        models.StateSnapSent,
		CreatedAt:    time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC),
	}

	gomock.InOrder(
		h.wakes.EXPECT().GetOpenWakeEvent(gomock.Any(), "cam-01").Return(wake, nil),
		h.transfers.EXPECT().CreateOrReuseTransfer(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tr *models.ImageTransfer) (*models.ImageTransfer, bool, error) {
				out := *tr
				out.ID = "tr-1"
				out.Status = models.TransferReceiving

				return &out, true, nil
			}),
		h.chunks.EXPECT().IsComplete(gomock.Any(), "cam-01", "a.jpg", 0).Return(true, nil),
		h.lineage.EXPECT().Resolve(gomock.Any(), "cam-01").
			Return(&models.Lineage{DeviceID: "cam-01", Mapped: true, Approved: true, OrgID: "org-1", SiteID: "site-1"}, nil),
		h.chunks.EXPECT().IsComplete(gomock.Any(), "cam-01", "a.jpg", 0).Return(true, nil),
		h.chunks.EXPECT().Assemble(gomock.Any(), "cam-01", "a.jpg", 0).Return([]byte{}, nil),
		h.artifacts.EXPECT().Put(gomock.Any(), "org-1/site-1/cam-01/a.jpg", []byte{}).
			Return("", errors.New("artifact is empty")),
		h.transfers.EXPECT().MarkTransferFailed(gomock.Any(), "tr-1", models.FailureUpload).Return(nil),
		h.wakes.EXPECT().TransitionWakeState(gomock.Any(), "wake-1", models.StateSnapSent, models.StateFailed).Return(nil),
		h.notifier.EXPECT().NotifyTransferFailed(gomock.Any(), gomock.Any()).Return(nil),
		h.alerter.EXPECT().Alert(gomock.Any(), gomock.Any()).Return(nil),
	)

	err := eng.route(context.Background(), subjectKindData,
		[]byte(`{"device_id":"cam-01","image_name":"a.jpg","image_size":0,"total_chunks_count":0}`))
	require.NoError(t, err)
}

func TestFinalizeToleratesAlertCooldown(t *testing.T) {
	eng, h := newEngineHarness(t)

	h.clock.EXPECT().Now().Return(time.Date(2026, 3, 14, 12, 33, 5, 0, time.UTC)).AnyTimes()

	wake, transfer := finalizeFixtures(time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC))

	gomock.InOrder(
		h.lineage.EXPECT().Resolve(gomock.Any(), "cam-01").
			Return(&models.Lineage{DeviceID: "cam-01", Mapped: true, Approved: true}, nil),
		h.chunks.EXPECT().IsComplete(gomock.Any(), "cam-01", "a.jpg", 3).Return(true, nil),
		h.chunks.EXPECT().Assemble(gomock.Any(), "cam-01", "a.jpg", 3).
			Return(nil, errors.New("fragment 1 vanished")),
		h.transfers.EXPECT().MarkTransferFailed(gomock.Any(), "tr-1", models.FailureAssembly).Return(nil),
		h.wakes.EXPECT().TransitionWakeState(gomock.Any(), "wake-1", models.StateSnapSent, models.StateFailed).Return(nil),
		h.notifier.EXPECT().NotifyTransferFailed(gomock.Any(), gomock.Any()).Return(nil),
		h.alerter.EXPECT().Alert(gomock.Any(), gomock.Any()).Return(alerts.ErrWebhookCooldown),
	)

	require.NoError(t, eng.finalize(context.Background(), wake, transfer))
}

func TestScheduleForPrefersDeviceSchedule(t *testing.T) {
	eng, _ := newEngineHarness(t)

	deviceSched := "every 2h"
	siteSched := "8,16"

	lin := &models.Lineage{
		DeviceID:       "cam-01",
		DeviceSchedule: &deviceSched,
		SiteSchedule:   &siteSched,
	}

	ref := time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC)
	next := eng.scheduleFor(lin).Next(ref, time.UTC)

	assert.Equal(t, ref.Add(2*time.Hour), next)
}

func TestScheduleForFallsBackOnMalformedExpression(t *testing.T) {
	eng, _ := newEngineHarness(t)

	bad := "whenever"
	lin := &models.Lineage{DeviceID: "cam-01", DeviceSchedule: &bad}

	ref := time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC)
	next := eng.scheduleFor(lin).Next(ref, time.UTC)

	assert.Equal(t, time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC), next)
}

func TestScheduleForDefaultsWhenUnset(t *testing.T) {
	eng, _ := newEngineHarness(t)

	ref := time.Date(2026, 3, 14, 6, 0, 0, 0, time.UTC)
	next := eng.scheduleFor(&models.Lineage{DeviceID: "cam-01"}).Next(ref, time.UTC)

	assert.Equal(t, time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC), next)
}

func TestLocationForFallsBackToUTC(t *testing.T) {
	eng, _ := newEngineHarness(t)

	assert.Equal(t, time.UTC, eng.locationFor(&models.Lineage{DeviceID: "cam-01"}))
	assert.Equal(t, time.UTC, eng.locationFor(&models.Lineage{DeviceID: "cam-01", Timezone: "Mars/Phobos"}))
}
