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

package storage

import (
	"container/list"
	"sync"
	"time"

	"github.com/TBD54566975/web5-go/cache"
)

// boundedCache layers max-entry LRU eviction over a cache.Cache. cache2go
// (the Cache implementation used here) only enforces TTL, not a maximum
// entry count, so the index and value caches — which the spec bounds at
// 1,000 and 100 entries respectively — track access order themselves and
// evict the least-recently-used key once the bound is exceeded.
type boundedCache struct {
	inner cache.Cache
	cap   int
	ttl   time.Duration

	lock    sync.Mutex
	order   *list.List
	entries map[any]*list.Element
}

func newBoundedCache(inner cache.Cache, capacity int, ttl time.Duration) *boundedCache {
	return &boundedCache{
		inner:   inner,
		cap:     capacity,
		ttl:     ttl,
		order:   list.New(),
		entries: make(map[any]*list.Element),
	}
}

func (b *boundedCache) Get(key any) (any, bool) {
	val, ok, err := b.inner.Get(key)
	if err != nil || !ok {
		return nil, false
	}

	b.lock.Lock()
	if el, found := b.entries[key]; found {
		b.order.MoveToFront(el)
	}
	b.lock.Unlock()
	return val, true
}

func (b *boundedCache) Set(key, value any) {
	_ = b.inner.Set(key, value, b.ttl)

	b.lock.Lock()
	defer b.lock.Unlock()
	if el, found := b.entries[key]; found {
		b.order.MoveToFront(el)
	} else {
		b.entries[key] = b.order.PushFront(key)
	}

	for b.order.Len() > b.cap {
		oldest := b.order.Back()
		if oldest == nil {
			break
		}
		b.order.Remove(oldest)
		delete(b.entries, oldest.Value)
		_ = b.inner.Delete(oldest.Value)
	}
}

func (b *boundedCache) Delete(key any) {
	_ = b.inner.Delete(key)

	b.lock.Lock()
	defer b.lock.Unlock()
	if el, found := b.entries[key]; found {
		b.order.Remove(el)
		delete(b.entries, key)
	}
}

func (b *boundedCache) Clear() {
	b.inner.Clear()

	b.lock.Lock()
	defer b.lock.Unlock()
	b.order.Init()
	b.entries = make(map[any]*list.Element)
}

func (b *boundedCache) Close() {
	b.inner.Close()
}
