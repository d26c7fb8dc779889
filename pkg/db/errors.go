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

package db

import "errors"

var (

	// Operation errors.

	ErrFailedToQuery  = errors.New("failed to query")
	ErrFailedToScan   = errors.New("failed to scan")
	ErrFailedToInsert = errors.New("failed to insert")
	ErrFailedToUpdate = errors.New("failed to update")
	ErrFailedOpenDB   = errors.New("failed to open database")

	// Wake event persistence.

	ErrWakeEventNil       = errors.New("wake event is nil")
	ErrWakeEventNotFound  = errors.New("wake event not found")
	ErrIllegalTransition  = errors.New("illegal wake state transition")
	ErrWakeStateConflict  = errors.New("wake event state changed underneath update")
	ErrWakeDeviceRequired = errors.New("wake event device id is required")

	// Image transfer persistence.

	ErrTransferNil          = errors.New("image transfer is nil")
	ErrTransferNotFound     = errors.New("image transfer not found")
	ErrTransferNotReceiving = errors.New("image transfer is not receiving")
)
