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
	"encoding/base64"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/canopy/pkg/alerts"
	"github.com/carverauto/canopy/pkg/db"
	"github.com/carverauto/canopy/pkg/logger"
	"github.com/carverauto/canopy/pkg/models"
)

type engineHarness struct {
	lineage    *MockLineageResolver
	devices    *MockDeviceRegistry
	wakes      *MockWakeStore
	transfers  *MockTransferStore
	chunks     *MockChunkStore
	artifacts  *MockArtifactStore
	notifier   *MockCompletionNotifier
	directives *MockDirectivePublisher
	alerter    *alerts.MockAlertService
	clock      *MockClock
}

func newEngineHarness(t *testing.T) (*Engine, *engineHarness) {
	t.Helper()

	ctrl := gomock.NewController(t)

	h := &engineHarness{
		lineage:    NewMockLineageResolver(ctrl),
		devices:    NewMockDeviceRegistry(ctrl),
		wakes:      NewMockWakeStore(ctrl),
		transfers:  NewMockTransferStore(ctrl),
		chunks:     NewMockChunkStore(ctrl),
		artifacts:  NewMockArtifactStore(ctrl),
		notifier:   NewMockCompletionNotifier(ctrl),
		directives: NewMockDirectivePublisher(ctrl),
		alerter:    alerts.NewMockAlertService(ctrl),
		clock:      NewMockClock(ctrl),
	}

	eng, err := NewEngine(nil, Dependencies{
		Lineage:    h.lineage,
		Devices:    h.devices,
		Wakes:      h.wakes,
		Transfers:  h.transfers,
		Chunks:     h.chunks,
		Artifacts:  h.artifacts,
		Notifier:   h.notifier,
		Directives: h.directives,
		Alerter:    h.alerter,
		Clock:      h.clock,
	}, Config{}, logger.NewTestLogger())
	require.NoError(t, err)

	return eng, h
}

func TestHandleStatusRequestsCapture(t *testing.T) {
	eng, h := newEngineHarness(t)

	now := time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC)
	h.clock.EXPECT().Now().Return(now).AnyTimes()

	lin := &models.Lineage{
		DeviceID: "cam-01",
		Mapped:   true,
		Approved: true,
		OrgID:    "org-1",
		SiteID:   "site-1",
	}

	artifact := fmt.Sprintf("cam-01_%d.jpg", now.UnixMilli())

	gomock.InOrder(
		h.devices.EXPECT().RecordStatus(gomock.Any(), "cam-01", 2, nil).Return(nil),
		h.wakes.EXPECT().GetOpenWakeEvent(gomock.Any(), "cam-01").Return(nil, db.ErrWakeEventNotFound),
		h.lineage.EXPECT().Resolve(gomock.Any(), "cam-01").Return(lin, nil),
		h.wakes.EXPECT().CreateWakeEvent(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, ev *models.WakeEvent) error {
				assert.Equal(t, "cam-01", ev.DeviceID)
				assert.Equal(t, models.StateHelloReceived, ev.State)
				assert.Equal(t, 2, ev.PendingReported)

				ev.ID = "wake-1"
				ev.CreatedAt = now

				return nil
			}),
		h.wakes.EXPECT().TransitionWakeState(gomock.Any(), "wake-1", models.StateHelloReceived, models.StateAckSent).Return(nil),
		h.wakes.EXPECT().AttachWakeArtifact(gomock.Any(), "wake-1", artifact).Return(nil),
		h.directives.EXPECT().CaptureRequest(gomock.Any(), "cam-01", artifact).Return(nil),
		h.wakes.EXPECT().TransitionWakeState(gomock.Any(), "wake-1", models.StateAckSent, models.StateSnapSent).Return(nil),
		h.wakes.EXPECT().IncrementImagesRequested(gomock.Any(), "wake-1").Return(nil),
	)

	err := eng.route(context.Background(), subjectKindStatus,
		[]byte(`{"device_id":"cam-01","status":"awake","pendingImg":2}`))
	require.NoError(t, err)
}

func TestHandleStatusUnmappedDeviceSleepsOnly(t *testing.T) {
	eng, h := newEngineHarness(t)

	wokeAt := time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC)

	var recorded *models.Telemetry

	gomock.InOrder(
		h.devices.EXPECT().RecordStatus(gomock.Any(), "cam-99", 0, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, _ int, tel *models.Telemetry) error {
				recorded = tel
				return nil
			}),
		h.wakes.EXPECT().GetOpenWakeEvent(gomock.Any(), "cam-99").Return(nil, db.ErrWakeEventNotFound),
		h.lineage.EXPECT().Resolve(gomock.Any(), "cam-99").
			Return(&models.Lineage{DeviceID: "cam-99", Mapped: false}, nil),
		h.wakes.EXPECT().CreateWakeEvent(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, ev *models.WakeEvent) error {
				ev.ID = "wake-1"
				ev.CreatedAt = wokeAt

				return nil
			}),
		// No schedule anywhere, so the default hour applies; 09:00 has
		// passed at 12:30, so the device comes back tomorrow morning.
		h.directives.EXPECT().SleepUntil(gomock.Any(), "cam-99", "9:00 AM").Return(nil),
		h.wakes.EXPECT().TransitionWakeState(gomock.Any(), "wake-1", models.StateHelloReceived, models.StateSleepOnly).Return(nil),
	)

	err := eng.route(context.Background(), subjectKindStatus,
		[]byte(`{"device_id":"cam-99","status":"awake","temperature":21.4}`))
	require.NoError(t, err)

	require.NotNil(t, recorded, "telemetry on the status message should reach the registry")
	assert.InDelta(t, 21.4, *recorded.Temperature, 0.001)
}

func TestHandleStatusUnapprovedDeviceSleepsOnly(t *testing.T) {
	eng, h := newEngineHarness(t)

	wokeAt := time.Date(2026, 3, 14, 6, 5, 0, 0, time.UTC)

	gomock.InOrder(
		h.devices.EXPECT().RecordStatus(gomock.Any(), "cam-02", 1, nil).Return(nil),
		h.wakes.EXPECT().GetOpenWakeEvent(gomock.Any(), "cam-02").Return(nil, db.ErrWakeEventNotFound),
		h.lineage.EXPECT().Resolve(gomock.Any(), "cam-02").
			Return(&models.Lineage{DeviceID: "cam-02", Mapped: true, Approved: false, SiteID: "site-1"}, nil),
		h.wakes.EXPECT().CreateWakeEvent(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, ev *models.WakeEvent) error {
				ev.ID = "wake-1"
				ev.CreatedAt = wokeAt

				return nil
			}),
		h.directives.EXPECT().SleepUntil(gomock.Any(), "cam-02", "9:00 AM").Return(nil),
		h.wakes.EXPECT().TransitionWakeState(gomock.Any(), "wake-1", models.StateHelloReceived, models.StateSleepOnly).Return(nil),
	)

	err := eng.route(context.Background(), subjectKindStatus,
		[]byte(`{"device_id":"cam-02","status":"awake","pendingImg":1}`))
	require.NoError(t, err)
}

func TestHandleStatusFailsStaleOpenWake(t *testing.T) {
	eng, h := newEngineHarness(t)

	wokeAt := time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC)
	stale := &models.WakeEvent{ID: "wake-0", DeviceID: "cam-01", State: models.StateSnapSent}

	gomock.InOrder(
		h.devices.EXPECT().RecordStatus(gomock.Any(), "cam-01", 1, nil).Return(nil),
		h.wakes.EXPECT().GetOpenWakeEvent(gomock.Any(), "cam-01").Return(stale, nil),
		h.wakes.EXPECT().TransitionWakeState(gomock.Any(), "wake-0", models.StateSnapSent, models.StateFailed).Return(nil),
		h.lineage.EXPECT().Resolve(gomock.Any(), "cam-01").
			Return(&models.Lineage{DeviceID: "cam-01", Mapped: false}, nil),
		h.wakes.EXPECT().CreateWakeEvent(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, ev *models.WakeEvent) error {
				ev.ID = "wake-1"
				ev.CreatedAt = wokeAt

				return nil
			}),
		h.directives.EXPECT().SleepUntil(gomock.Any(), "cam-01", "9:00 AM").Return(nil),
		h.wakes.EXPECT().TransitionWakeState(gomock.Any(), "wake-1", models.StateHelloReceived, models.StateSleepOnly).Return(nil),
	)

	err := eng.route(context.Background(), subjectKindStatus,
		[]byte(`{"device_id":"cam-01","status":"awake","pendingImg":1}`))
	require.NoError(t, err)
}

func TestRouteRejectsMalformedMessages(t *testing.T) {
	eng, _ := newEngineHarness(t)

	cases := []struct {
		name string
		kind string
		data string
	}{
		{"status bad json", subjectKindStatus, `{"device_id":`},
		{"status empty device", subjectKindStatus, `{"status":"awake"}`},
		{"telemetry bad json", subjectKindTelemetry, `nope`},
		{"telemetry empty device", subjectKindTelemetry, `{"temperature":20.1}`},
		{"data unknown shape", subjectKindData, `{"device_id":"cam-01"}`},
		{"fragment negative index", subjectKindData, `{"device_id":"cam-01","image_name":"a.jpg","chunk_id":-1,"payload":"AA=="}`},
		{"metadata missing name", subjectKindData, `{"device_id":"cam-01","image_size":100,"total_chunks_count":4}`},
		{"unknown kind", "cmd", `{}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := eng.route(context.Background(), tc.kind, []byte(tc.data))
			require.ErrorIs(t, err, ErrMalformedMessage)
		})
	}
}

func TestHandleMetadataStartsTransfer(t *testing.T) {
	eng, h := newEngineHarness(t)

	wake := &models.WakeEvent{
		ID:           "wake-1",
		DeviceID:     "cam-01",
		ArtifactName: "cam-01_1.jpg",
		State:        models.StateSnapSent,
	}

	gomock.InOrder(
		h.wakes.EXPECT().GetOpenWakeEvent(gomock.Any(), "cam-01").Return(wake, nil),
		h.transfers.EXPECT().CreateOrReuseTransfer(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tr *models.ImageTransfer) (*models.ImageTransfer, bool, error) {
				assert.Equal(t, "cam-01", tr.DeviceID)
				assert.Equal(t, "cam-01_1.jpg", tr.ArtifactName)
				assert.Equal(t, "wake-1", tr.WakeEventID)
				assert.Equal(t, 4, tr.DeclaredTotal)
				assert.Equal(t, "2026-03-14 12:31:02", tr.CaptureTimestamp)

				out := *tr
				out.ID = "tr-1"
				out.Status = models.TransferReceiving

				return &out, true, nil
			}),
		h.chunks.EXPECT().IsComplete(gomock.Any(), "cam-01", "cam-01_1.jpg", 4).Return(false, nil),
	)

	err := eng.route(context.Background(), subjectKindData,
		[]byte(`{"device_id":"cam-01","image_name":"cam-01_1.jpg","image_size":2048,"total_chunks_count":4,"capture_timestamp":"2026-03-14 12:31:02"}`))
	require.NoError(t, err)
}

func TestHandleMetadataRedeliveryReusesLiveTransfer(t *testing.T) {
	eng, h := newEngineHarness(t)

	wake := &models.WakeEvent{
		ID:           "wake-1",
		DeviceID:     "cam-01",
		ArtifactName: "cam-01_1.jpg",
		State:        models.StateSnapSent,
	}

	live := &models.ImageTransfer{
		ID:            "tr-1",
		DeviceID:      "cam-01",
		ArtifactName:  "cam-01_1.jpg",
		WakeEventID:   "wake-1",
		DeclaredTotal: 4,
		ReceivedCount: 2,
		Status:        models.TransferReceiving,
	}

	gomock.InOrder(
		h.wakes.EXPECT().GetOpenWakeEvent(gomock.Any(), "cam-01").Return(wake, nil),
		h.transfers.EXPECT().CreateOrReuseTransfer(gomock.Any(), gomock.Any()).Return(live, false, nil),
		h.chunks.EXPECT().IsComplete(gomock.Any(), "cam-01", "cam-01_1.jpg", 4).Return(false, nil),
	)

	err := eng.route(context.Background(), subjectKindData,
		[]byte(`{"device_id":"cam-01","image_name":"cam-01_1.jpg","image_size":2048,"total_chunks_count":4}`))
	require.NoError(t, err)
}

func TestHandleMetadataAdoptsWakeOpenedMidStream(t *testing.T) {
	eng, h := newEngineHarness(t)

	gomock.InOrder(
		h.wakes.EXPECT().GetOpenWakeEvent(gomock.Any(), "cam-01").Return(nil, db.ErrWakeEventNotFound),
		h.wakes.EXPECT().CreateWakeEvent(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, ev *models.WakeEvent) error {
				assert.Equal(t, "cam-01", ev.DeviceID)
				assert.Equal(t, "cam-01_1.jpg", ev.ArtifactName)
				assert.Equal(t, models.StateHelloReceived, ev.State)

				ev.ID = "wake-9"

				return nil
			}),
		h.wakes.EXPECT().TransitionWakeState(gomock.Any(), "wake-9", models.StateHelloReceived, models.StateAckSent).Return(nil),
		h.wakes.EXPECT().TransitionWakeState(gomock.Any(), "wake-9", models.StateAckSent, models.StateSnapSent).Return(nil),
		h.transfers.EXPECT().CreateOrReuseTransfer(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tr *models.ImageTransfer) (*models.ImageTransfer, bool, error) {
				assert.Equal(t, "wake-9", tr.WakeEventID)

				out := *tr
				out.ID = "tr-1"
				out.Status = models.TransferReceiving

				return &out, true, nil
			}),
		h.chunks.EXPECT().IsComplete(gomock.Any(), "cam-01", "cam-01_1.jpg", 4).Return(false, nil),
	)

	err := eng.route(context.Background(), subjectKindData,
		[]byte(`{"device_id":"cam-01","image_name":"cam-01_1.jpg","image_size":2048,"total_chunks_count":4}`))
	require.NoError(t, err)
}

func TestHandleMetadataReplacesAnnouncedArtifact(t *testing.T) {
	eng, h := newEngineHarness(t)

	// The engine asked for one name but the device announced another, e.g.
	// a backlogged capture from a previous wake. The wake tracks what the
	// device is actually sending.
	wake := &models.WakeEvent{
		ID:           "wake-1",
		DeviceID:     "cam-01",
		ArtifactName: "cam-01_200.jpg",
		State:        models.StateSnapSent,
	}

	gomock.InOrder(
		h.wakes.EXPECT().GetOpenWakeEvent(gomock.Any(), "cam-01").Return(wake, nil),
		h.wakes.EXPECT().AttachWakeArtifact(gomock.Any(), "wake-1", "cam-01_100.jpg").Return(nil),
		h.transfers.EXPECT().CreateOrReuseTransfer(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, tr *models.ImageTransfer) (*models.ImageTransfer, bool, error) {
				assert.Equal(t, "cam-01_100.jpg", tr.ArtifactName)

				out := *tr
				out.ID = "tr-1"
				out.Status = models.TransferReceiving

				return &out, true, nil
			}),
		h.chunks.EXPECT().IsComplete(gomock.Any(), "cam-01", "cam-01_100.jpg", 4).Return(false, nil),
	)

	err := eng.route(context.Background(), subjectKindData,
		[]byte(`{"device_id":"cam-01","image_name":"cam-01_100.jpg","image_size":2048,"total_chunks_count":4}`))
	require.NoError(t, err)
}

func TestHandleMetadataDeviceErrorFailsWake(t *testing.T) {
	eng, h := newEngineHarness(t)

	wake := &models.WakeEvent{ID: "wake-1", DeviceID: "cam-01", State: models.StateSnapSent}

	var recorded *models.Telemetry

	gomock.InOrder(
		h.devices.EXPECT().UpdateTelemetry(gomock.Any(), "cam-01", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, tel *models.Telemetry) error {
				recorded = tel
				return nil
			}),
		h.wakes.EXPECT().GetOpenWakeEvent(gomock.Any(), "cam-01").Return(wake, nil),
		h.wakes.EXPECT().TransitionWakeState(gomock.Any(), "wake-1", models.StateSnapSent, models.StateFailed).Return(nil),
	)

	err := eng.route(context.Background(), subjectKindData,
		[]byte(`{"device_id":"cam-01","image_name":"cam-01_1.jpg","image_size":0,"total_chunks_count":0,"error":"camera fault","temperature":19.8}`))
	require.NoError(t, err)

	require.NotNil(t, recorded)
	assert.InDelta(t, 19.8, *recorded.Temperature, 0.001)
}

func TestHandleMetadataDeviceErrorWithoutOpenWake(t *testing.T) {
	eng, h := newEngineHarness(t)

	h.wakes.EXPECT().GetOpenWakeEvent(gomock.Any(), "cam-01").Return(nil, db.ErrWakeEventNotFound)

	err := eng.route(context.Background(), subjectKindData,
		[]byte(`{"device_id":"cam-01","image_name":"x.jpg","image_size":0,"total_chunks_count":0,"error":"capture timeout"}`))
	require.NoError(t, err)
}

func TestHandleFragmentTracksProgress(t *testing.T) {
	eng, h := newEngineHarness(t)

	now := time.Date(2026, 3, 14, 12, 32, 0, 0, time.UTC)
	h.clock.EXPECT().Now().Return(now).AnyTimes()

	transfer := &models.ImageTransfer{
		ID:            "tr-1",
		DeviceID:      "cam-01",
		ArtifactName:  "a.jpg",
		DeclaredTotal: 4,
		Status:        models.TransferReceiving,
	}

	gomock.InOrder(
		h.chunks.EXPECT().StoreFragment(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, rec *models.FragmentRecord) (bool, error) {
				assert.Equal(t, "cam-01", rec.DeviceID)
				assert.Equal(t, "a.jpg", rec.ArtifactName)
				assert.Equal(t, 1, rec.Index)
				assert.Equal(t, []byte{0, 1, 2, 3}, rec.Payload)
				assert.Equal(t, now.Add(30*time.Minute), rec.ExpiresAt)

				return true, nil
			}),
		h.transfers.EXPECT().GetReceivingTransfer(gomock.Any(), "cam-01", "a.jpg").Return(transfer, nil),
		h.chunks.EXPECT().ReceivedCount(gomock.Any(), "cam-01", "a.jpg").Return(2, nil),
		h.transfers.EXPECT().UpdateTransferProgress(gomock.Any(), "tr-1", 2).Return(nil),
		h.chunks.EXPECT().IsComplete(gomock.Any(), "cam-01", "a.jpg", 4).Return(false, nil),
	)

	err := eng.route(context.Background(), subjectKindData,
		[]byte(`{"device_id":"cam-01","image_name":"a.jpg","chunk_id":1,"payload":"AAECAw=="}`))
	require.NoError(t, err)
}

func TestHandleFragmentHeldWithoutLiveTransfer(t *testing.T) {
	eng, h := newEngineHarness(t)

	now := time.Date(2026, 3, 14, 12, 32, 0, 0, time.UTC)
	h.clock.EXPECT().Now().Return(now).AnyTimes()

	gomock.InOrder(
		h.chunks.EXPECT().StoreFragment(gomock.Any(), gomock.Any()).Return(true, nil),
		h.transfers.EXPECT().GetReceivingTransfer(gomock.Any(), "cam-01", "a.jpg").
			Return(nil, db.ErrTransferNotFound),
	)

	err := eng.route(context.Background(), subjectKindData,
		[]byte(`{"device_id":"cam-01","image_name":"a.jpg","chunk_id":0,"payload":"AA=="}`))
	require.NoError(t, err)
}

func TestHandleFragmentLastIndexRequestsMissing(t *testing.T) {
	eng, h := newEngineHarness(t)

	now := time.Date(2026, 3, 14, 12, 32, 0, 0, time.UTC)
	h.clock.EXPECT().Now().Return(now).AnyTimes()

	transfer := &models.ImageTransfer{
		ID:            "tr-1",
		DeviceID:      "cam-01",
		ArtifactName:  "a.jpg",
		DeclaredTotal: 4,
		Status:        models.TransferReceiving,
	}

	gomock.InOrder(
		h.chunks.EXPECT().StoreFragment(gomock.Any(), gomock.Any()).Return(true, nil),
		h.transfers.EXPECT().GetReceivingTransfer(gomock.Any(), "cam-01", "a.jpg").Return(transfer, nil),
		h.chunks.EXPECT().ReceivedCount(gomock.Any(), "cam-01", "a.jpg").Return(3, nil),
		h.transfers.EXPECT().UpdateTransferProgress(gomock.Any(), "tr-1", 3).Return(nil),
		h.chunks.EXPECT().IsComplete(gomock.Any(), "cam-01", "a.jpg", 4).Return(false, nil),
		h.chunks.EXPECT().MissingIndices(gomock.Any(), "cam-01", "a.jpg", 4).Return([]int{1}, nil),
		h.directives.EXPECT().RequestMissing(gomock.Any(), "cam-01", "a.jpg", []int{1}).Return(nil),
		h.transfers.EXPECT().RecordMissingRequest(gomock.Any(), "tr-1", []int{1}).Return(nil),
	)

	err := eng.route(context.Background(), subjectKindData,
		[]byte(`{"device_id":"cam-01","image_name":"a.jpg","chunk_id":3,"payload":"AA=="}`))
	require.NoError(t, err)
}

func TestHandleFragmentResendPassEndRequestsAgain(t *testing.T) {
	eng, h := newEngineHarness(t)

	now := time.Date(2026, 3, 14, 12, 33, 0, 0, time.UTC)
	h.clock.EXPECT().Now().Return(now).AnyTimes()

	// Fragment 3 closes the resend pass [1, 3]; fragment 1 is still gone.
	transfer := &models.ImageTransfer{
		ID:             "tr-1",
		DeviceID:       "cam-01",
		ArtifactName:   "a.jpg",
		DeclaredTotal:  6,
		Status:         models.TransferReceiving,
		MissingRequest: []int{1, 3},
		RequestCount:   1,
	}

	gomock.InOrder(
		h.chunks.EXPECT().StoreFragment(gomock.Any(), gomock.Any()).Return(true, nil),
		h.transfers.EXPECT().GetReceivingTransfer(gomock.Any(), "cam-01", "a.jpg").Return(transfer, nil),
		h.chunks.EXPECT().ReceivedCount(gomock.Any(), "cam-01", "a.jpg").Return(5, nil),
		h.transfers.EXPECT().UpdateTransferProgress(gomock.Any(), "tr-1", 5).Return(nil),
		h.chunks.EXPECT().IsComplete(gomock.Any(), "cam-01", "a.jpg", 6).Return(false, nil),
		h.chunks.EXPECT().MissingIndices(gomock.Any(), "cam-01", "a.jpg", 6).Return([]int{1}, nil),
		h.directives.EXPECT().RequestMissing(gomock.Any(), "cam-01", "a.jpg", []int{1}).Return(nil),
		h.transfers.EXPECT().RecordMissingRequest(gomock.Any(), "tr-1", []int{1}).Return(nil),
	)

	err := eng.route(context.Background(), subjectKindData,
		[]byte(`{"device_id":"cam-01","image_name":"a.jpg","chunk_id":3,"payload":"AA=="}`))
	require.NoError(t, err)
}

func TestHandleFragmentMidStreamIndexStaysQuiet(t *testing.T) {
	eng, h := newEngineHarness(t)

	now := time.Date(2026, 3, 14, 12, 32, 0, 0, time.UTC)
	h.clock.EXPECT().Now().Return(now).AnyTimes()

	transfer := &models.ImageTransfer{
		ID:             "tr-1",
		DeviceID:       "cam-01",
		ArtifactName:   "a.jpg",
		DeclaredTotal:  6,
		Status:         models.TransferReceiving,
		MissingRequest: []int{1, 3},
	}

	// Fragment 1 is part of the resend pass but not its last index, so no
	// new request goes out yet.
	gomock.InOrder(
		h.chunks.EXPECT().StoreFragment(gomock.Any(), gomock.Any()).Return(true, nil),
		h.transfers.EXPECT().GetReceivingTransfer(gomock.Any(), "cam-01", "a.jpg").Return(transfer, nil),
		h.chunks.EXPECT().ReceivedCount(gomock.Any(), "cam-01", "a.jpg").Return(5, nil),
		h.transfers.EXPECT().UpdateTransferProgress(gomock.Any(), "tr-1", 5).Return(nil),
		h.chunks.EXPECT().IsComplete(gomock.Any(), "cam-01", "a.jpg", 6).Return(false, nil),
	)

	err := eng.route(context.Background(), subjectKindData,
		[]byte(`{"device_id":"cam-01","image_name":"a.jpg","chunk_id":1,"payload":"AA=="}`))
	require.NoError(t, err)
}

func TestFragmentRecoveryRoundTrip(t *testing.T) {
	// A five-fragment transfer where fragment 3 is lost on the first pass:
	// the device streams 0,1,2,4, the engine asks for [3] exactly once, the
	// device resends 3, and the transfer finalizes end to end.
	eng, h := newEngineHarness(t)

	wokeAt := time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC)
	h.clock.EXPECT().Now().Return(wokeAt.Add(3*time.Minute)).AnyTimes()

	const total = 5

	stored := map[int][]byte{}

	h.chunks.EXPECT().StoreFragment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec *models.FragmentRecord) (bool, error) {
			if _, ok := stored[rec.Index]; ok {
				return false, nil
			}

			stored[rec.Index] = rec.Payload

			return true, nil
		}).AnyTimes()

	h.chunks.EXPECT().ReceivedCount(gomock.Any(), "cam-01", "a.jpg").
		DoAndReturn(func(context.Context, string, string) (int, error) {
			return len(stored), nil
		}).AnyTimes()

	h.chunks.EXPECT().IsComplete(gomock.Any(), "cam-01", "a.jpg", total).
		DoAndReturn(func(context.Context, string, string, int) (bool, error) {
			return len(stored) >= total, nil
		}).AnyTimes()

	h.chunks.EXPECT().MissingIndices(gomock.Any(), "cam-01", "a.jpg", total).
		DoAndReturn(func(context.Context, string, string, int) ([]int, error) {
			var missing []int

			for i := 0; i < total; i++ {
				if _, ok := stored[i]; !ok {
					missing = append(missing, i)
				}
			}

			return missing, nil
		}).AnyTimes()

	h.chunks.EXPECT().Assemble(gomock.Any(), "cam-01", "a.jpg", total).
		DoAndReturn(func(context.Context, string, string, int) ([]byte, error) {
			var data []byte

			for i := 0; i < total; i++ {
				data = append(data, stored[i]...)
			}

			return data, nil
		}).Times(1)

	h.chunks.EXPECT().Clear(gomock.Any(), "cam-01", "a.jpg").
		DoAndReturn(func(context.Context, string, string) (int64, error) {
			n := int64(len(stored))
			stored = map[int][]byte{}

			return n, nil
		}).Times(1)

	wake := &models.WakeEvent{
		ID:           "wake-1",
		DeviceID:     "cam-01",
		CaptureID:    "cap-1",
		ArtifactName: "a.jpg",
		State:        models.StateSnapSent,
		CreatedAt:    wokeAt,
	}

	transfer := &models.ImageTransfer{
		ID:            "tr-1",
		DeviceID:      "cam-01",
		ArtifactName:  "a.jpg",
		WakeEventID:   "wake-1",
		DeclaredTotal: total,
		Status:        models.TransferReceiving,
	}

	h.transfers.EXPECT().GetReceivingTransfer(gomock.Any(), "cam-01", "a.jpg").
		DoAndReturn(func(context.Context, string, string) (*models.ImageTransfer, error) {
			snapshot := *transfer
			return &snapshot, nil
		}).AnyTimes()

	h.transfers.EXPECT().UpdateTransferProgress(gomock.Any(), "tr-1", gomock.Any()).Return(nil).AnyTimes()

	h.directives.EXPECT().RequestMissing(gomock.Any(), "cam-01", "a.jpg", []int{3}).Return(nil).Times(1)
	h.transfers.EXPECT().RecordMissingRequest(gomock.Any(), "tr-1", []int{3}).
		DoAndReturn(func(_ context.Context, _ string, missing []int) error {
			transfer.MissingRequest = missing
			transfer.RequestCount++

			return nil
		}).Times(1)

	siteSched := "every 6h"
	h.lineage.EXPECT().Resolve(gomock.Any(), "cam-01").
		Return(&models.Lineage{
			DeviceID:     "cam-01",
			Mapped:       true,
			Approved:     true,
			OrgID:        "org-1",
			SiteID:       "site-1",
			SiteSchedule: &siteSched,
		}, nil).Times(1)

	h.wakes.EXPECT().GetWakeEvent(gomock.Any(), "wake-1").Return(wake, nil).Times(1)
	h.artifacts.EXPECT().Put(gomock.Any(), "org-1/site-1/cam-01/a.jpg", []byte{0, 1, 2, 3, 4}).
		Return("nats-obj://canopy-images/org-1/site-1/cam-01/a.jpg", nil).Times(1)
	h.notifier.EXPECT().CaptureCompleted(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec *models.CaptureRecord) error {
			assert.Equal(t, "cap-1", rec.CaptureID)
			assert.Equal(t, total, rec.Fragments)
			assert.Equal(t, 5, rec.SizeBytes)

			return nil
		}).Times(1)
	h.transfers.EXPECT().MarkTransferComplete(gomock.Any(), "tr-1", "nats-obj://canopy-images/org-1/site-1/cam-01/a.jpg").Return(nil).Times(1)
	h.wakes.EXPECT().TransitionWakeState(gomock.Any(), "wake-1", models.StateSnapSent, models.StateMetadataReceived).Return(nil).Times(1)
	h.devices.EXPECT().CommitWake(gomock.Any(), "cam-01", wokeAt, wokeAt.Add(6*time.Hour)).Return(nil).Times(1)
	h.directives.EXPECT().SleepUntil(gomock.Any(), "cam-01", "6:30 PM").Return(nil).Times(1)
	h.wakes.EXPECT().TransitionWakeState(gomock.Any(), "wake-1", models.StateMetadataReceived, models.StateComplete).Return(nil).Times(1)
	h.wakes.EXPECT().IncrementImagesCompleted(gomock.Any(), "wake-1").Return(nil).Times(1)

	send := func(index int) {
		payload := base64.StdEncoding.EncodeToString([]byte{byte(index)})
		data := fmt.Sprintf(`{"device_id":"cam-01","image_name":"a.jpg","chunk_id":%d,"payload":"%s"}`, index, payload)

		require.NoError(t, eng.route(context.Background(), subjectKindData, []byte(data)))
	}

	for _, index := range []int{0, 1, 2, 4} {
		send(index)
	}

	send(3)

	assert.Empty(t, stored, "finalize should clear the chunk store")
}

func TestHandleTelemetryRecordsReadings(t *testing.T) {
	eng, h := newEngineHarness(t)

	var recorded *models.Telemetry

	h.devices.EXPECT().UpdateTelemetry(gomock.Any(), "cam-01", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, tel *models.Telemetry) error {
			recorded = tel
			return nil
		})

	err := eng.route(context.Background(), subjectKindTelemetry,
		[]byte(`{"device_id":"cam-01","temperature":21.4,"humidity":61.2,"pressure":1004.8,"gas_resistance":120345}`))
	require.NoError(t, err)

	require.NotNil(t, recorded)
	assert.InDelta(t, 21.4, *recorded.Temperature, 0.001)
	assert.InDelta(t, 61.2, *recorded.Humidity, 0.001)
	assert.InDelta(t, 1004.8, *recorded.Pressure, 0.001)
	assert.InDelta(t, 120345, *recorded.GasResistance, 0.001)
}

func TestHandleTelemetryIgnoresEmptyReadings(t *testing.T) {
	eng, _ := newEngineHarness(t)

	err := eng.route(context.Background(), subjectKindTelemetry, []byte(`{"device_id":"cam-01"}`))
	require.NoError(t, err)
}
