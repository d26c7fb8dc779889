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

package models

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Wire messages exchanged with the camera firmware. Field names follow the
// device contract and must not be renamed. Older firmware revisions spell
// the declared total "total_chunk_count" and ship fragment payloads as
// integer arrays instead of base64; both are accepted on the way in, and
// the canonical forms are produced on the way out.

var (
	ErrEmptyDeviceID     = errors.New("message has empty device_id")
	ErrUnknownDataShape  = errors.New("data message is neither metadata nor fragment")
	ErrBadFragmentIndex  = errors.New("fragment has negative chunk_id")
	ErrBadPayloadShape   = errors.New("fragment payload is neither base64 string nor byte array")
	ErrMissingImageName  = errors.New("message has empty image_name")
	ErrDeclaredTotalNeg  = errors.New("metadata declares negative fragment count")
	ErrBadPayloadElement = errors.New("fragment payload array element out of byte range")
)

// StatusMessage is the device's wake announcement: it is alive, it holds
// PendingImages captures it has not yet delivered, and it may attach
// current sensor readings.
type StatusMessage struct {
	DeviceID      string `json:"device_id"`
	Status        string `json:"status"`
	PendingImages int    `json:"pendingImg"`
	Telemetry
}

func (m *StatusMessage) Validate() error {
	if m.DeviceID == "" {
		return ErrEmptyDeviceID
	}

	return nil
}

// ImageMetadata declares an artifact and its fragment count, with the
// telemetry snapshot taken at capture time.
type ImageMetadata struct {
	DeviceID         string `json:"device_id"`
	CaptureTimestamp string `json:"capture_timestamp,omitempty"`
	ImageName        string `json:"image_name"`
	ImageSize        int    `json:"image_size"`
	MaxChunkSize     int    `json:"max_chunk_size"`
	TotalChunks      int    `json:"total_chunks_count"`
	Location         string `json:"location,omitempty"`
	Error            string `json:"error,omitempty"`
	Telemetry
}

func (m *ImageMetadata) UnmarshalJSON(b []byte) error {
	type alias ImageMetadata

	aux := struct {
		*alias
		LegacyTotal *int            `json:"total_chunk_count"`
		RawError    json.RawMessage `json:"error"`
	}{alias: (*alias)(m)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	if m.TotalChunks == 0 && aux.LegacyTotal != nil {
		m.TotalChunks = *aux.LegacyTotal
	}

	m.Error = decodeDeviceError(aux.RawError)

	return nil
}

// decodeDeviceError reads the error field, which firmware sends either as a
// string or as a numeric code where zero means healthy.
func decodeDeviceError(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var code float64
	if err := json.Unmarshal(raw, &code); err == nil && code != 0 {
		return strconv.FormatFloat(code, 'f', -1, 64)
	}

	return ""
}

func (m *ImageMetadata) Validate() error {
	switch {
	case m.DeviceID == "":
		return ErrEmptyDeviceID
	case m.ImageName == "":
		return ErrMissingImageName
	case m.TotalChunks < 0:
		return ErrDeclaredTotalNeg
	default:
		return nil
	}
}

// ImageFragment is one chunk of an artifact. Payload is decoded to raw
// bytes during unmarshal.
type ImageFragment struct {
	DeviceID     string `json:"device_id"`
	ImageName    string `json:"image_name"`
	Index        int    `json:"chunk_id"`
	MaxChunkSize int    `json:"max_chunk_size,omitempty"`
	Payload      []byte `json:"payload"`
}

func (f *ImageFragment) UnmarshalJSON(b []byte) error {
	var raw struct {
		DeviceID     string          `json:"device_id"`
		ImageName    string          `json:"image_name"`
		Index        int             `json:"chunk_id"`
		MaxChunkSize int             `json:"max_chunk_size"`
		Payload      json.RawMessage `json:"payload"`
	}

	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	f.DeviceID = raw.DeviceID
	f.ImageName = raw.ImageName
	f.Index = raw.Index
	f.MaxChunkSize = raw.MaxChunkSize

	payload, err := decodeFragmentPayload(raw.Payload)
	if err != nil {
		return err
	}

	f.Payload = payload

	return nil
}

func (f *ImageFragment) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		DeviceID     string `json:"device_id"`
		ImageName    string `json:"image_name"`
		Index        int    `json:"chunk_id"`
		MaxChunkSize int    `json:"max_chunk_size,omitempty"`
		Payload      string `json:"payload"`
	}{
		DeviceID:     f.DeviceID,
		ImageName:    f.ImageName,
		Index:        f.Index,
		MaxChunkSize: f.MaxChunkSize,
		Payload:      base64.StdEncoding.EncodeToString(f.Payload),
	})
}

func (f *ImageFragment) Validate() error {
	switch {
	case f.DeviceID == "":
		return ErrEmptyDeviceID
	case f.ImageName == "":
		return ErrMissingImageName
	case f.Index < 0:
		return ErrBadFragmentIndex
	default:
		return nil
	}
}

// decodeFragmentPayload accepts the canonical base64 string form or the
// legacy integer-array form.
func decodeFragmentPayload(raw json.RawMessage) ([]byte, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}

		decoded, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("decode fragment payload: %w", err)
		}

		return decoded, nil
	case '[':
		var ints []int
		if err := json.Unmarshal(raw, &ints); err != nil {
			return nil, err
		}

		out := make([]byte, len(ints))

		for i, v := range ints {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("%w: %d at %d", ErrBadPayloadElement, v, i)
			}

			out[i] = byte(v)
		}

		return out, nil
	default:
		return nil, ErrBadPayloadShape
	}
}

// TelemetryMessage carries sensor readings with no artifact attached.
type TelemetryMessage struct {
	DeviceID string `json:"device_id"`
	Telemetry
}

func (m *TelemetryMessage) Validate() error {
	if m.DeviceID == "" {
		return ErrEmptyDeviceID
	}

	return nil
}

// DataKind discriminates the two message shapes devices publish on their
// data subject.
type DataKind int

const (
	DataMetadata DataKind = iota
	DataFragment
)

// ClassifyData decides whether a data-subject payload is metadata or a
// fragment and unmarshals it accordingly. Fragments are recognized by the
// presence of chunk_id; everything else must look like metadata.
func ClassifyData(b []byte) (DataKind, *ImageMetadata, *ImageFragment, error) {
	var probe struct {
		ChunkID  *int `json:"chunk_id"`
		Payload  any  `json:"payload"`
		ImgSize  *int `json:"image_size"`
		TotalNew *int `json:"total_chunks_count"`
		TotalOld *int `json:"total_chunk_count"`
	}

	if err := json.Unmarshal(b, &probe); err != nil {
		return 0, nil, nil, err
	}

	if probe.ChunkID != nil || probe.Payload != nil {
		var frag ImageFragment
		if err := json.Unmarshal(b, &frag); err != nil {
			return 0, nil, nil, err
		}

		return DataFragment, nil, &frag, frag.Validate()
	}

	if probe.ImgSize != nil || probe.TotalNew != nil || probe.TotalOld != nil {
		var meta ImageMetadata
		if err := json.Unmarshal(b, &meta); err != nil {
			return 0, nil, nil, err
		}

		return DataMetadata, &meta, nil, meta.Validate()
	}

	return 0, nil, nil, ErrUnknownDataShape
}

// DeviceCommand is the cmd-subject payload. Exactly one directive is set
// per publish; bools and strings are omitted when empty so the device sees
// only the directive it was sent.
type DeviceCommand struct {
	CaptureImage bool   `json:"capture_image,omitempty"`
	SendImage    string `json:"send_image,omitempty"`
	NextWake     string `json:"next_wake,omitempty"`
}

// MissingFragmentAck asks the device to resend exactly the listed chunk
// indices for the named artifact.
type MissingFragmentAck struct {
	ImageName     string `json:"image_name"`
	MissingChunks []int  `json:"missing_chunks"`
}

// SleepAck is the final acknowledgment of a wake, carrying the formatted
// next wake time the firmware displays and parses.
type SleepAck struct {
	AckOK SleepAckBody `json:"ACK_OK"`
}

type SleepAckBody struct {
	NextWakeTime string `json:"next_wake_time"`
}
