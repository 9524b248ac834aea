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

// Package permissions implements grants, requests and revocations under the
// fixed PermissionsProtocol, persisted as records over a record substrate.
// The records are written as plain JSON; this package does not sign them.
// Unlike the identity package, this package talks to the
// substrate directly rather than through a storage.Store: grants are
// fetched by protocol-tagged query, not by a single (tenant, id) point
// lookup, so the store's index/value-cache layer would not be exercised.
package permissions

import (
	"time"

	"github.com/google/uuid"

	"github.com/TBD54566975/web5-go/internal/jsonw"
	"github.com/TBD54566975/web5-go/storage"
)

// PermissionsProtocol names the fixed protocol identifier and its three
// record paths, per §6: "treat them as opaque constants".
const (
	ProtocolURI    = "https://tbd.website/dwn/permissions"
	GrantPath      = "grant"
	RequestPath    = "request"
	RevocationPath = "revoke"
)

// Scope interface names, per §3.
const (
	InterfaceRecords  = "Records"
	InterfaceMessages = "Messages"
)

// Record scope methods, per §3.
const (
	MethodWrite     = "Write"
	MethodRead      = "Read"
	MethodQuery     = "Query"
	MethodDelete    = "Delete"
	MethodSubscribe = "Subscribe"
)

// Scope is a tagged permission scope: a record scope names Method ∈
// {Write,Read,Query,Delete,Subscribe} with a required Protocol; a message
// scope (Interface=Messages) names Method ∈ {Query,Read,Subscribe} and
// leaves Protocol optional.
type Scope struct {
	Interface    string `json:"interface"`
	Method       string `json:"method"`
	Protocol     string `json:"protocol,omitempty"`
	ProtocolPath string `json:"protocolPath,omitempty"`
	ContextID    string `json:"contextId,omitempty"`
}

// Grant is an immutable authorization from grantor to grantee.
type Grant struct {
	ID          string    `json:"id"`
	Grantor     string    `json:"grantor"`
	Grantee     string    `json:"grantee"`
	Scope       Scope     `json:"scope"`
	DateExpires time.Time `json:"dateExpires"`
	Delegated   bool      `json:"delegated"`
	RequestID   string    `json:"requestId,omitempty"`
	Description string    `json:"description,omitempty"`
}

// Request asks a grantor to issue a matching Grant.
type Request struct {
	ID          string `json:"id"`
	Grantee     string `json:"grantee"`
	Scope       Scope  `json:"scope"`
	Delegated   bool   `json:"delegated"`
	Description string `json:"description,omitempty"`
}

// Revocation withdraws the grant named by ParentGrantID.
type Revocation struct {
	ParentGrantID string `json:"parentGrantId"`
	Description   string `json:"description,omitempty"`
}

// Manager creates and queries grants, requests and revocations against a
// record substrate.
type Manager struct {
	substrate storage.Substrate
}

// NewManager creates a Manager over substrate.
func NewManager(substrate storage.Substrate) *Manager {
	return &Manager{substrate: substrate}
}

func scopeTags(scope Scope) map[string]string {
	if scope.Protocol == "" {
		return nil
	}
	return map[string]string{"protocol": scope.Protocol}
}

// CreateGrant writes grant under tenant (normally the grantor's own DWN),
// per §4.7's numbered creation steps.
func (m *Manager) CreateGrant(tenant string, grant Grant) (*Grant, error) {
	if grant.ID == "" {
		grant.ID = uuid.NewString()
	}

	data, err := jsonw.Marshal(grant)
	if err != nil {
		return nil, err
	}

	result, err := m.substrate.Write(tenant, data, storage.WriteDescriptor{
		Protocol:     ProtocolURI,
		ProtocolPath: GrantPath,
		DataFormat:   "application/json",
		ContextID:    grant.ID,
		Recipient:    grant.Grantee,
		Tags:         scopeTags(grant.Scope),
	})
	if err != nil {
		return nil, err
	}
	if result.Status != 202 {
		return nil, &storage.WriteRejectedError{Status: result.Status}
	}
	return &grant, nil
}

// CreateRequest writes req under tenant.
func (m *Manager) CreateRequest(tenant string, req Request) (*Request, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	data, err := jsonw.Marshal(req)
	if err != nil {
		return nil, err
	}

	result, err := m.substrate.Write(tenant, data, storage.WriteDescriptor{
		Protocol:     ProtocolURI,
		ProtocolPath: RequestPath,
		DataFormat:   "application/json",
		ContextID:    req.ID,
		Recipient:    req.Grantee,
		Tags:         scopeTags(req.Scope),
	})
	if err != nil {
		return nil, err
	}
	if result.Status != 202 {
		return nil, &storage.WriteRejectedError{Status: result.Status}
	}
	return &req, nil
}

// CreateRevocation writes a revocation child record of parentGrantID under
// tenant, per §4.7 step 2's "revocations additionally set
// parentContextId = grant.id".
func (m *Manager) CreateRevocation(tenant, parentGrantID, description string) (*Revocation, error) {
	revocation := Revocation{ParentGrantID: parentGrantID, Description: description}

	data, err := jsonw.Marshal(revocation)
	if err != nil {
		return nil, err
	}

	result, err := m.substrate.Write(tenant, data, storage.WriteDescriptor{
		Protocol:        ProtocolURI,
		ProtocolPath:    RevocationPath,
		DataFormat:      "application/json",
		ParentContextID: parentGrantID,
	})
	if err != nil {
		return nil, err
	}
	if result.Status != 202 {
		return nil, &storage.WriteRejectedError{Status: result.Status}
	}
	return &revocation, nil
}

// GrantFilter narrows FetchGrants.
type GrantFilter struct {
	Author   string
	Target   string
	Grantee  string
	Grantor  string
	Protocol string
}

// FetchGrants queries grants written under filter.Target, restricted to
// filter.Author (="grantor" per §4.7) and filter.Grantee (="recipient").
func (m *Manager) FetchGrants(filter GrantFilter) ([]Grant, error) {
	author := filter.Author
	if author == "" {
		author = filter.Grantor
	}

	tags := map[string]string(nil)
	if filter.Protocol != "" {
		tags = map[string]string{"protocol": filter.Protocol}
	}

	records, err := m.substrate.Query(storage.QueryFilter{
		Tenant:       filter.Target,
		Protocol:     ProtocolURI,
		ProtocolPath: GrantPath,
		Author:       author,
		Recipient:    filter.Grantee,
		Tags:         tags,
	})
	if err != nil {
		return nil, err
	}

	out := make([]Grant, 0, len(records))
	for _, rec := range records {
		var grant Grant
		if err := jsonw.Unmarshal(rec.Data, &grant); err != nil {
			return nil, err
		}
		out = append(out, grant)
	}
	return out, nil
}

// RequestFilter narrows FetchRequests.
type RequestFilter struct {
	Author   string
	Target   string
	Protocol string
}

// FetchRequests is FetchGrants' symmetric counterpart for requests.
func (m *Manager) FetchRequests(filter RequestFilter) ([]Request, error) {
	tags := map[string]string(nil)
	if filter.Protocol != "" {
		tags = map[string]string{"protocol": filter.Protocol}
	}

	records, err := m.substrate.Query(storage.QueryFilter{
		Tenant:       filter.Target,
		Protocol:     ProtocolURI,
		ProtocolPath: RequestPath,
		Author:       filter.Author,
		Tags:         tags,
	})
	if err != nil {
		return nil, err
	}

	out := make([]Request, 0, len(records))
	for _, rec := range records {
		var req Request
		if err := jsonw.Unmarshal(rec.Data, &req); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}

// IsGrantRevoked performs a point query for a revocation child record of
// grantRecordID under tenant.
func (m *Manager) IsGrantRevoked(tenant, grantRecordID string) (bool, error) {
	records, err := m.substrate.Query(storage.QueryFilter{
		Tenant:       tenant,
		Protocol:     ProtocolURI,
		ProtocolPath: RevocationPath,
		ParentID:     grantRecordID,
	})
	if err != nil {
		return false, err
	}
	return len(records) > 0, nil
}
