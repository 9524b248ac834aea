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

// Package identity implements identity records: metadata about a DID,
// stored under the identity's own DID as tenant unless an explicit tenant
// is given.
package identity

import "github.com/TBD54566975/web5-go/storage"

// Schema is the identity record's record-node schema, per §4.7.
const Schema = "https://identity.foundation/schemas/web5/identity-metadata"

// Identity is a named DID with opaque metadata.
type Identity struct {
	URI      string         `json:"uri"`
	Name     string         `json:"name"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Manager creates, lists, fetches and deletes identity records.
type Manager struct {
	store *storage.Store
}

// NewManager creates a Manager over substrate.
func NewManager(substrate storage.Substrate) *Manager {
	return &Manager{store: storage.NewStore(substrate, Schema)}
}

// Create persists identity, auto-tenanting under identity.URI when tenant
// is empty.
func (m *Manager) Create(tenant string, identity Identity) (string, error) {
	if tenant == "" {
		tenant = identity.URI
	}
	return m.store.Set(tenant, identity.URI, identity, storage.DefaultSetOptions())
}

// Get fetches the identity stored under uri within tenant (tenant defaults
// to uri).
func (m *Manager) Get(tenant, uri string) (*Identity, bool, error) {
	if tenant == "" {
		tenant = uri
	}
	var out Identity
	ok, err := m.store.GetInto(tenant, uri, storage.GetOptions{UseCache: true}, &out)
	if err != nil || !ok {
		return nil, ok, err
	}
	return &out, true, nil
}

// List returns every identity record under tenant.
func (m *Manager) List(tenant string) ([]Identity, error) {
	raw, err := m.store.List(tenant)
	if err != nil {
		return nil, err
	}
	out := make([]Identity, 0, len(raw))
	for _, v := range raw {
		out = append(out, Identity{
			URI:      stringField(v, "uri"),
			Name:     stringField(v, "name"),
			Metadata: mapField(v, "metadata"),
		})
	}
	return out, nil
}

// Delete removes the identity record stored under uri within tenant.
func (m *Manager) Delete(tenant, uri string) (bool, error) {
	if tenant == "" {
		tenant = uri
	}
	return m.store.Delete(tenant, uri)
}

func stringField(m map[string]any, field string) string {
	if v, ok := m[field].(string); ok {
		return v
	}
	return ""
}

func mapField(m map[string]any, field string) map[string]any {
	if v, ok := m[field].(map[string]any); ok {
		return v
	}
	return nil
}
