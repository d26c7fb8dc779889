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

package storage

import "errors"

var (
	ErrEmptyKey              = errors.New("artifact key is empty")
	ErrEmptyPayload          = errors.New("artifact payload is empty")
	ErrFailedToUpload        = errors.New("failed to upload artifact")
	ErrCaptureNil            = errors.New("capture record is nil")
	ErrFailureNil            = errors.New("transfer failure is nil")
	ErrFailedToRecordCapture = errors.New("failed to record capture")
	ErrFailedToPublishEvent  = errors.New("failed to publish event")
)
