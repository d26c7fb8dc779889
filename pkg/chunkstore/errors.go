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

package chunkstore

import "errors"

var (
	ErrFragmentNil       = errors.New("fragment is nil")
	ErrNegativeIndex     = errors.New("fragment index is negative")
	ErrInvalidTotal      = errors.New("declared total is negative")
	ErrFragmentGap       = errors.New("fragment missing during assembly")
	ErrFailedToStore     = errors.New("failed to store fragment")
	ErrFailedToQuery     = errors.New("failed to query fragments")
	ErrFailedToClear     = errors.New("failed to clear fragments")
	ErrKeyFieldsRequired = errors.New("device id and artifact name are required")
)
