// Copyright 2022 Piprate Limited
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

// Package cache provides a generic TTL cache interface used throughout the
// module (DID resolution results, record-store indices and values), backed
// by an in-memory cache2go implementation.
package cache

import (
	"errors"
	"time"
)

// DefaultTTL is the default entry lifetime applied when a caller does not
// specify one, matching the resolver cache's default.
const DefaultTTL = 15 * time.Minute

// ErrInvalidKey is returned by Get/Set/Delete when key is nil.
var ErrInvalidKey = errors.New("cache: key must not be nil")

// Cache is a generic TTL-based key/value store.
type Cache interface {
	// Get returns the cached value for key, and whether it was present and
	// not expired. Accessing an entry refreshes its TTL (update-age-on-get).
	// Get(nil) fails with ErrInvalidKey.
	Get(key any) (value any, ok bool, err error)

	// Set inserts or replaces the value for key, with the given TTL. A TTL
	// of zero uses DefaultTTL. Set(nil, ...) fails with ErrInvalidKey.
	Set(key any, value any, ttl time.Duration) error

	// Delete evicts key, if present. Delete(nil) fails with ErrInvalidKey.
	Delete(key any) error

	// Clear evicts every entry.
	Clear()

	// Close releases any background resources held by the cache. It is a
	// safe no-op for in-memory implementations.
	Close()
}
