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

package agent

import (
	"context"

	"github.com/TBD54566975/web5-go/rpc"
	"github.com/TBD54566975/web5-go/storage"
)

// storeFor lazily creates (and caches) the tenanted store for schema, since
// storage.Store is bound to one record schema at construction.
func (a *Agent) storeFor(schema string) *storage.Store {
	a.recordStoresMu.Lock()
	defer a.recordStoresMu.Unlock()

	if s, ok := a.recordStores[schema]; ok {
		return s
	}
	s := storage.NewStore(a.substrate, schema)
	a.recordStores[schema] = s
	return s
}

// WriteRecord implements the Write verb: store.Set under (tenant, id) for
// records of the given schema.
func (a *Agent) WriteRecord(schema, tenant, id string, value any, opts storage.SetOptions) (string, error) {
	return a.storeFor(schema).Set(tenant, id, value, opts)
}

// ReadRecord implements the Read verb.
func (a *Agent) ReadRecord(schema, tenant, id string, opts storage.GetOptions) (map[string]any, bool, error) {
	return a.storeFor(schema).Get(tenant, id, opts)
}

// QueryRecords implements the Query verb: every record of schema under
// tenant.
func (a *Agent) QueryRecords(schema, tenant string) ([]map[string]any, error) {
	return a.storeFor(schema).List(tenant)
}

// DeleteRecord implements the Delete verb.
func (a *Agent) DeleteRecord(schema, tenant, id string) (bool, error) {
	return a.storeFor(schema).Delete(tenant, id)
}

// SubscribeRecords implements the Subscribe verb (§4.10): it opens a
// record-node subscription over the agent's WebSocket transport. It fails
// with ErrSubscribeUnsupported when the agent was built without one — the
// local and record-backed substrates have no push channel of their own.
func (a *Agent) SubscribeRecords(ctx context.Context, method string, params any) (*rpc.Subscription, error) {
	if a.wsTransport == nil {
		return nil, ErrSubscribeUnsupported
	}
	return a.wsTransport.Subscribe(ctx, method, params)
}
