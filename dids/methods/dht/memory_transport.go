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

package dht

import (
	"context"
	"sync"
)

// MemoryTransport is an in-process Transport, useful for tests and for
// running an agent without network access to a real DHT.
type MemoryTransport struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemoryTransport returns an empty MemoryTransport.
func NewMemoryTransport() *MemoryTransport {
	return &MemoryTransport{records: make(map[string][]byte)}
}

// Put stores document under identityKey.
func (t *MemoryTransport) Put(_ context.Context, identityKey string, document []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	cp := make([]byte, len(document))
	copy(cp, document)
	t.records[identityKey] = cp
	return nil
}

// Get retrieves the document last published under identityKey.
func (t *MemoryTransport) Get(_ context.Context, identityKey string) ([]byte, bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	doc, ok := t.records[identityKey]
	return doc, ok, nil
}
