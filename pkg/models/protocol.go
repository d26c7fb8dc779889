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

import "fmt"

// ProtocolState is the lifecycle state of a single device wake. A wake
// advances hello_received → ack_sent → snap_sent → metadata_received →
// complete, with two side exits: sleep_only for devices that are unmapped
// or unapproved, and failed for unrecoverable errors. The legal transition
// set is enforced by the engine's transition table.
type ProtocolState string

const (
	StateHelloReceived    ProtocolState = "hello_received"
	StateAckSent          ProtocolState = "ack_sent"
	StateSnapSent         ProtocolState = "snap_sent"
	StateMetadataReceived ProtocolState = "metadata_received"
	StateComplete         ProtocolState = "complete"
	StateSleepOnly        ProtocolState = "sleep_only"
	StateFailed           ProtocolState = "failed"
)

// Terminal reports whether the wake can never leave this state.
func (s ProtocolState) Terminal() bool {
	switch s {
	case StateComplete, StateSleepOnly, StateFailed:
		return true
	default:
		return false
	}
}

// Valid reports whether s is one of the known protocol states.
func (s ProtocolState) Valid() bool {
	switch s {
	case StateHelloReceived, StateAckSent, StateSnapSent,
		StateMetadataReceived, StateComplete, StateSleepOnly, StateFailed:
		return true
	default:
		return false
	}
}

// ParseProtocolState converts a stored string back into a ProtocolState.
func ParseProtocolState(s string) (ProtocolState, error) {
	ps := ProtocolState(s)
	if !ps.Valid() {
		return "", fmt.Errorf("%w: %q", errUnknownProtocolState, s)
	}

	return ps, nil
}

var errUnknownProtocolState = fmt.Errorf("unknown protocol state")

// wakeTransitions is the complete set of legal wake state changes. A wake
// reaches sleep_only straight from hello_received or not at all, every
// in-flight state may fail, and terminal states have no exits.
var wakeTransitions = map[ProtocolState][]ProtocolState{
	StateHelloReceived:    {StateAckSent, StateSleepOnly, StateFailed},
	StateAckSent:          {StateSnapSent, StateFailed},
	StateSnapSent:         {StateMetadataReceived, StateFailed},
	StateMetadataReceived: {StateComplete, StateFailed},
}

// CanTransition reports whether moving from s to next is a legal wake
// state change.
func (s ProtocolState) CanTransition(next ProtocolState) bool {
	for _, allowed := range wakeTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// FailureCode classifies why a transfer or wake went to failed. These are
// the codes carried outward on the failure-notification interface; the
// engine never retries any of them internally.
type FailureCode string

const (
	FailureAssembly   FailureCode = "assembly_failed"
	FailureUpload     FailureCode = "upload_failed"
	FailureCompletion FailureCode = "completion_failed"
	FailureTimeout    FailureCode = "transfer_timeout"
)

// TransferStatus is the lifecycle status of one artifact reassembly.
type TransferStatus string

const (
	TransferReceiving TransferStatus = "receiving"
	TransferComplete  TransferStatus = "complete"
	TransferFailed    TransferStatus = "failed"
)
