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

// Package storage implements the tenanted record store: a TTL index and
// value cache layered over an opaque record substrate. The substrate is a
// black box at this level — it is free to be a local node, a remote DWN, or
// anything else that satisfies the Substrate contract.
package storage

import "time"

// WriteDescriptor carries everything the substrate needs to accept a write.
// It mirrors the descriptor fields a Decentralized Web Node record write
// takes: schema, protocol grouping, data format and free-form tags.
type WriteDescriptor struct {
	Schema          string
	DataFormat      string
	Protocol        string
	ProtocolPath    string
	ContextID       string
	ParentContextID string
	Recipient       string
	Tags            map[string]string
}

// RecordMeta describes a record as returned by the substrate, independent of
// its payload.
type RecordMeta struct {
	RecordID   string
	Author     string
	Recipient  string
	Timestamp  time.Time
	Descriptor WriteDescriptor
}

// WriteResult is returned by a successful or rejected Write.
type WriteResult struct {
	Status   int
	RecordID string
}

// QueryFilter narrows List/point-read operations against the substrate.
type QueryFilter struct {
	Tenant       string
	Schema       string
	Protocol     string
	ProtocolPath string
	Author       string
	Recipient    string
	ContextID    string
	ParentID     string
	Tags         map[string]string
}

// Substrate is the opaque record-node capability the tenanted store is
// layered on top of. Implementations may be backed by a local in-memory
// node, an embedded store, or a remote DWN-shaped service.
type Substrate interface {
	// Write persists data under tenant with the given descriptor, returning
	// a status code (202 means accepted) and the resulting record ID.
	Write(tenant string, data []byte, desc WriteDescriptor) (WriteResult, error)

	// Read fetches the encoded payload for a record, or ok=false if it does
	// not exist.
	Read(tenant, recordID string) (data []byte, meta RecordMeta, ok bool, err error)

	// Delete removes a record, returning the HTTP-shaped status code: 202 on
	// success, 404 if the record did not exist.
	Delete(tenant, recordID string) (status int, err error)

	// Query returns every record matching filter, along with its payload.
	Query(filter QueryFilter) ([]QueriedRecord, error)
}

// QueriedRecord pairs a record's metadata with its decoded payload, as
// returned by Substrate.Query.
type QueriedRecord struct {
	Meta RecordMeta
	Data []byte
}
