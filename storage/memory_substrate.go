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
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/TBD54566975/web5-go/internal/measure"
)

type memoryRecord struct {
	meta RecordMeta
	data []byte
	live bool
}

// MemorySubstrate is a process-local Substrate implementation, useful for
// tests and for agents running without a remote record-node.
type MemorySubstrate struct {
	lock    sync.RWMutex
	records map[string]*memoryRecord // recordID -> record
	now     func() time.Time
}

var _ Substrate = (*MemorySubstrate)(nil)

// NewMemorySubstrate returns an empty in-memory substrate.
func NewMemorySubstrate() *MemorySubstrate {
	return &MemorySubstrate{
		records: make(map[string]*memoryRecord),
		now:     time.Now,
	}
}

func (m *MemorySubstrate) Write(tenant string, data []byte, desc WriteDescriptor) (WriteResult, error) {
	defer measure.ExecTime("MemorySubstrate.Write")()

	m.lock.Lock()
	defer m.lock.Unlock()

	id := uuid.NewString()
	m.records[id] = &memoryRecord{
		meta: RecordMeta{
			RecordID:   id,
			Author:     tenant,
			Recipient:  desc.Recipient,
			Timestamp:  m.now(),
			Descriptor: desc,
		},
		data: data,
		live: true,
	}
	log.Debug().Str("tenant", tenant).Str("schema", desc.Schema).Str("recordId", id).Msg("substrate write")
	return WriteResult{Status: 202, RecordID: id}, nil
}

func (m *MemorySubstrate) Read(tenant, recordID string) ([]byte, RecordMeta, bool, error) {
	defer measure.ExecTime("MemorySubstrate.Read")()

	m.lock.RLock()
	defer m.lock.RUnlock()

	rec, ok := m.records[recordID]
	if !ok || !rec.live || rec.meta.Author != tenant {
		log.Debug().Str("tenant", tenant).Str("recordId", recordID).Msg("substrate read miss")
		return nil, RecordMeta{}, false, nil
	}
	return rec.data, rec.meta, true, nil
}

func (m *MemorySubstrate) Delete(tenant, recordID string) (int, error) {
	defer measure.ExecTime("MemorySubstrate.Delete")()

	m.lock.Lock()
	defer m.lock.Unlock()

	rec, ok := m.records[recordID]
	if !ok || !rec.live || rec.meta.Author != tenant {
		return 404, nil
	}
	rec.live = false
	log.Debug().Str("tenant", tenant).Str("recordId", recordID).Msg("substrate delete")
	return 202, nil
}

func (m *MemorySubstrate) Query(filter QueryFilter) ([]QueriedRecord, error) {
	defer measure.ExecTime("MemorySubstrate.Query")()

	m.lock.RLock()
	defer m.lock.RUnlock()

	var out []QueriedRecord
	for _, rec := range m.records {
		if !rec.live {
			continue
		}
		if !matches(rec.meta, filter) {
			continue
		}
		out = append(out, QueriedRecord{Meta: rec.meta, Data: rec.data})
	}
	log.Debug().Str("tenant", filter.Tenant).Str("schema", filter.Schema).Int("matched", len(out)).Msg("substrate query")
	return out, nil
}

func matches(meta RecordMeta, filter QueryFilter) bool {
	if filter.Tenant != "" && meta.Author != filter.Tenant {
		return false
	}
	if filter.Schema != "" && meta.Descriptor.Schema != filter.Schema {
		return false
	}
	if filter.Protocol != "" && meta.Descriptor.Protocol != filter.Protocol {
		return false
	}
	if filter.ProtocolPath != "" && meta.Descriptor.ProtocolPath != filter.ProtocolPath {
		return false
	}
	if filter.Author != "" && meta.Author != filter.Author {
		return false
	}
	if filter.Recipient != "" && meta.Recipient != filter.Recipient {
		return false
	}
	if filter.ContextID != "" && meta.Descriptor.ContextID != filter.ContextID {
		return false
	}
	if filter.ParentID != "" && meta.Descriptor.ParentContextID != filter.ParentID {
		return false
	}
	for k, v := range filter.Tags {
		if meta.Descriptor.Tags[k] != v {
			return false
		}
	}
	return true
}
