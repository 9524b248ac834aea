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
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/TBD54566975/web5-go/cache"
	"github.com/TBD54566975/web5-go/internal/jsonw"
	"github.com/TBD54566975/web5-go/internal/measure"
)

const (
	indexTTL      = 2 * time.Hour
	indexCapacity = 1000
	valueCacheTTL = 15 * time.Minute
	valueCacheCap = 100
	tenantIDSep   = "\x1f"
)

// SetOptions configures Store.Set.
type SetOptions struct {
	// PreventDuplicates, when true (the default), rejects a Set for an
	// (tenant, id) pair that already resolves to a live record.
	PreventDuplicates bool
	// UseCache, when true, populates the value cache on a successful write.
	UseCache bool
}

// GetOptions configures Store.Get.
type GetOptions struct {
	UseCache bool
}

// Store is the tenanted record store: a TTL index and value cache layered
// over an opaque Substrate, per the component's invariant that the index is
// never authoritative.
type Store struct {
	substrate Substrate
	schema    string

	index      *boundedCache
	valueCache *boundedCache
}

// NewStore creates a Store over substrate for records of the given schema.
func NewStore(substrate Substrate, schema string) *Store {
	return &Store{
		substrate: substrate,
		schema:    schema,
		index:     newBoundedCache(cache.NewMemoryCache(indexTTL), indexCapacity, indexTTL),
		valueCache: newBoundedCache(
			cache.NewMemoryCache(valueCacheTTL), valueCacheCap, valueCacheTTL),
	}
}

func indexKey(tenant, id string) string {
	return tenant + tenantIDSep + id
}

// Set writes value under (tenant, id), per the component contract in
// §4.6: duplicate prevention, JSON serialization, index/value-cache
// population.
func (s *Store) Set(tenant, id string, value any, opts SetOptions) (string, error) {
	defer measure.ExecTime("Store.Set")()

	if opts.PreventDuplicates {
		if existing, _ := s.lookupRecordID(tenant, id); existing != "" {
			return "", ErrDuplicateEntry
		}
	}

	data, err := jsonw.Marshal(value)
	if err != nil {
		return "", err
	}

	result, err := s.substrate.Write(tenant, data, WriteDescriptor{
		Schema:     s.schema,
		DataFormat: "application/json",
		ContextID:  id,
	})
	if err != nil {
		log.Warn().Err(err).Str("tenant", tenant).Str("schema", s.schema).Str("id", id).Msg("record write failed")
		return "", err
	}
	if result.Status != 202 {
		return "", &WriteRejectedError{Status: result.Status}
	}

	s.index.Set(indexKey(tenant, id), result.RecordID)
	if opts.UseCache {
		s.valueCache.Set(result.RecordID, value)
	}
	log.Debug().Str("tenant", tenant).Str("schema", s.schema).Str("id", id).Str("recordId", result.RecordID).Msg("record written")
	return result.RecordID, nil
}

// DefaultSetOptions returns the spec default: prevent_duplicates=true,
// use_cache=true.
func DefaultSetOptions() SetOptions {
	return SetOptions{PreventDuplicates: true, UseCache: true}
}

// Get reads the value stored under (tenant, id), decoding it into a fresh
// map[string]any unless a destination type is known to the caller (see
// GetInto).
func (s *Store) Get(tenant, id string, opts GetOptions) (map[string]any, bool, error) {
	var dst map[string]any
	ok, err := s.GetInto(tenant, id, opts, &dst)
	if err != nil || !ok {
		return nil, ok, err
	}
	return dst, true, nil
}

// GetInto decodes the stored value into dst, a pointer to the caller's
// target type, following the lookup -> cache -> substrate read path in
// §4.6.
func (s *Store) GetInto(tenant, id string, opts GetOptions, dst any) (bool, error) {
	defer measure.ExecTime("Store.GetInto")()

	recordID, err := s.lookupRecordID(tenant, id)
	if err != nil {
		return false, err
	}
	if recordID == "" {
		return false, nil
	}

	if opts.UseCache {
		if cached, hit := s.valueCache.Get(recordID); hit {
			return true, remarshalInto(cached, dst)
		}
	}

	data, _, found, err := s.substrate.Read(tenant, recordID)
	if err != nil {
		return false, err
	}
	if !found || len(data) == 0 {
		return false, ErrRecordMissing
	}

	if err := jsonw.Unmarshal(data, dst); err != nil {
		return false, err
	}

	if opts.UseCache {
		s.valueCache.Set(recordID, dst)
	}
	return true, nil
}

// List returns every value of this store's schema under tenant, rebuilding
// the index as a side effect.
func (s *Store) List(tenant string) ([]map[string]any, error) {
	defer measure.ExecTime("Store.List")()

	records, err := s.substrate.Query(QueryFilter{Tenant: tenant, Schema: s.schema})
	if err != nil {
		log.Warn().Err(err).Str("tenant", tenant).Str("schema", s.schema).Msg("listing records failed")
		return nil, err
	}

	latest := latestByLogicalID(records)
	out := make([]map[string]any, 0, len(latest))
	for _, rec := range latest {
		logicalID := rec.Meta.Descriptor.ContextID
		if logicalID == "" {
			logicalID = rec.Meta.RecordID
		}
		s.index.Set(indexKey(tenant, logicalID), rec.Meta.RecordID)

		var val map[string]any
		if err := jsonw.Unmarshal(rec.Data, &val); err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	return out, nil
}

// Delete removes the record at (tenant, id), evicting both caches. It
// deletes every duplicate record found under that logical id, per the
// store's duplicate-tolerance invariant.
func (s *Store) Delete(tenant, id string) (bool, error) {
	defer measure.ExecTime("Store.Delete")()

	records, err := s.substrate.Query(QueryFilter{Tenant: tenant, Schema: s.schema})
	if err != nil {
		return false, err
	}

	deleted := false
	for _, rec := range records {
		logicalID := rec.Meta.Descriptor.ContextID
		if logicalID == "" {
			logicalID = rec.Meta.RecordID
		}
		if logicalID != id {
			continue
		}
		status, err := s.substrate.Delete(tenant, rec.Meta.RecordID)
		if err != nil {
			return false, err
		}
		if status == 202 {
			deleted = true
			s.valueCache.Delete(rec.Meta.RecordID)
		}
	}

	s.index.Delete(indexKey(tenant, id))
	log.Debug().Str("tenant", tenant).Str("schema", s.schema).Str("id", id).Bool("deleted", deleted).Msg("record delete")
	return deleted, nil
}

// lookupRecordID implements the index-then-rebuild lookup in §4.6.
func (s *Store) lookupRecordID(tenant, id string) (string, error) {
	key := indexKey(tenant, id)
	if v, ok := s.index.Get(key); ok {
		return v.(string), nil
	}

	if err := s.rebuildIndex(tenant); err != nil {
		return "", err
	}

	if v, ok := s.index.Get(key); ok {
		return v.(string), nil
	}
	return "", nil
}

// rebuildIndex repopulates the index from the substrate's own records. It
// must agree with List's duplicate-tolerance rule (latest record by
// timestamp wins per logical id) — Substrate.Query makes no ordering
// guarantee, so indexing raw Query order would pick a nondeterministic
// record for any logical id with duplicates.
func (s *Store) rebuildIndex(tenant string) error {
	defer measure.ExecTime("Store.rebuildIndex")()

	records, err := s.substrate.Query(QueryFilter{Tenant: tenant, Schema: s.schema})
	if err != nil {
		log.Warn().Err(err).Str("tenant", tenant).Str("schema", s.schema).Msg("rebuilding index failed")
		return err
	}
	for _, rec := range latestByLogicalID(records) {
		logicalID := rec.Meta.Descriptor.ContextID
		if logicalID == "" {
			logicalID = rec.Meta.RecordID
		}
		s.index.Set(indexKey(tenant, logicalID), rec.Meta.RecordID)
	}
	return nil
}

// latestByLogicalID collapses duplicate records for the same logical id,
// keeping only the most recent by timestamp.
func latestByLogicalID(records []QueriedRecord) []QueriedRecord {
	byID := make(map[string]QueriedRecord)
	for _, rec := range records {
		logicalID := rec.Meta.Descriptor.ContextID
		if logicalID == "" {
			logicalID = rec.Meta.RecordID
		}
		if existing, ok := byID[logicalID]; !ok || rec.Meta.Timestamp.After(existing.Meta.Timestamp) {
			byID[logicalID] = rec
		}
	}

	out := make([]QueriedRecord, 0, len(byID))
	for _, rec := range byID {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Meta.Timestamp.Before(out[j].Meta.Timestamp)
	})
	return out
}

func remarshalInto(value any, dst any) error {
	data, err := jsonw.Marshal(value)
	if err != nil {
		return err
	}
	return jsonw.Unmarshal(data, dst)
}
