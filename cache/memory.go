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

package cache

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/muesli/cache2go"
)

// MemoryCache is a process-local Cache backed by cache2go: a named table
// with per-entry TTLs and update-age-on-get semantics.
type MemoryCache struct {
	table      *cache2go.CacheTable
	defaultTTL time.Duration
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache creates a new named in-memory cache table. defaultTTL of
// zero falls back to DefaultTTL. Each call gets its own cache2go table
// (named uniquely) so that independent caches never share entries.
func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	name := fmt.Sprintf("web5-%s", uuid.NewString())
	return &MemoryCache{
		table:      cache2go.Cache(name),
		defaultTTL: defaultTTL,
	}
}

func (c *MemoryCache) Get(key any) (any, bool, error) {
	if key == nil {
		return nil, false, ErrInvalidKey
	}
	item, err := c.table.Value(key)
	if err != nil {
		return nil, false, nil
	}
	return item.Data(), true, nil
}

func (c *MemoryCache) Set(key any, value any, ttl time.Duration) error {
	if key == nil {
		return ErrInvalidKey
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.table.Add(key, ttl, value)
	return nil
}

func (c *MemoryCache) Delete(key any) error {
	if key == nil {
		return ErrInvalidKey
	}
	_, _ = c.table.Delete(key)
	return nil
}

func (c *MemoryCache) Clear() {
	c.table.Flush()
}

func (c *MemoryCache) Close() {
	c.table.Flush()
}
