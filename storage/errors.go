// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import "errors"

var (
	// ErrNotFound is returned when a document or chunk does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when a document is added twice under the same source.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrInvalidQuery is returned for malformed requests, such as a non-positive batch size.
	ErrInvalidQuery = errors.New("invalid query parameters")

	// ErrSerializationFailed wraps encoding errors for stored records.
	ErrSerializationFailed = errors.New("serialization failed")

	// ErrTruncatedData is returned when a stored record ends early.
	ErrTruncatedData = errors.New("truncated data")
)
