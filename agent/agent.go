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

// Package agent wires the crypto, identity and storage components into the
// single facade application code talks to: DID create/resolve, record
// write/read/query/delete/subscribe, and permission grant/request/
// revocation verbs, per §2's data flow.
package agent

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/TBD54566975/web5-go/cache"
	"github.com/TBD54566975/web5-go/config"
	"github.com/TBD54566975/web5-go/dids"
	diddht "github.com/TBD54566975/web5-go/dids/methods/dht"
	didjwk "github.com/TBD54566975/web5-go/dids/methods/jwk"
	"github.com/TBD54566975/web5-go/identity"
	"github.com/TBD54566975/web5-go/identity/permissions"
	"github.com/TBD54566975/web5-go/kms"
	"github.com/TBD54566975/web5-go/rpc"
	"github.com/TBD54566975/web5-go/storage"
)

// ErrSubscribeUnsupported is returned by SubscribeRecords when the agent was not
// given a WebSocket transport to subscribe over.
var ErrSubscribeUnsupported = errors.New("agent: record subscriptions require a WebSocket transport")

// Agent is a personal identity agent bound to the KMS backing its keys and
// the record substrate its identity, permission and application records
// live in. It holds no tenant of its own: each record and permission verb
// takes the tenant DID it acts under.
type Agent struct {
	cfg config.Config

	keyManager kms.Backend
	resolver   *dids.Resolver
	methods    map[string]dids.Method
	substrate  storage.Substrate

	identities  *identity.Manager
	permissions *permissions.Manager

	wsTransport *rpc.WebSocketTransport

	recordStoresMu sync.Mutex
	recordStores   map[string]*storage.Store
}

// Option customizes New beyond the config defaults.
type Option func(*Agent)

// WithKeyManager overrides the KMS backend selected by cfg.KMS.Backend.
func WithKeyManager(backend kms.Backend) Option {
	return func(a *Agent) { a.keyManager = backend }
}

// WithDIDMethods overrides the resolver's method set. Without this option,
// New registers did:jwk and did:dht (in-memory transport).
func WithDIDMethods(methods ...dids.Method) Option {
	return func(a *Agent) {
		a.setMethods(methods)
		a.resolver = dids.NewResolver(cache.NewMemoryCache(a.cfg.Resolver.CacheTTL), methods...)
	}
}

func (a *Agent) setMethods(methods []dids.Method) {
	a.methods = make(map[string]dids.Method, len(methods))
	for _, m := range methods {
		a.methods[m.Name()] = m
	}
}

// WithWebSocketTransport attaches a transport for SubscribeRecords. Without
// one, SubscribeRecords fails with ErrSubscribeUnsupported.
func WithWebSocketTransport(t *rpc.WebSocketTransport) Option {
	return func(a *Agent) { a.wsTransport = t }
}

// New builds an Agent over substrate, constructing its KMS backend,
// resolver and identity/permission managers from cfg unless overridden by
// opts.
func New(cfg config.Config, substrate storage.Substrate, opts ...Option) *Agent {
	a := &Agent{
		cfg:          cfg,
		substrate:    substrate,
		identities:   identity.NewManager(substrate),
		permissions:  permissions.NewManager(substrate),
		recordStores: make(map[string]*storage.Store),
	}

	switch cfg.KMS.Backend {
	case "record":
		a.keyManager = kms.NewRecordBackend(substrate, "")
	default:
		a.keyManager = kms.NewMemoryBackend()
	}

	defaultMethods := []dids.Method{didjwk.New(), diddht.New(diddht.NewMemoryTransport())}
	a.setMethods(defaultMethods)
	a.resolver = dids.NewResolver(cache.NewMemoryCache(cfg.Resolver.CacheTTL), defaultMethods...)

	for _, opt := range opts {
		opt(a)
	}

	log.Debug().Str("kms", cfg.KMS.Backend).Msg("agent initialized")
	return a
}

// KeyManager returns the KMS backend this agent generates and signs with.
func (a *Agent) KeyManager() kms.Backend { return a.keyManager }

// Resolver returns the agent's DID resolver, e.g. to hand to
// connect.Config.Resolver for wallet-connect response verification.
func (a *Agent) Resolver() *dids.Resolver { return a.resolver }

// Identities returns the identity-record manager.
func (a *Agent) Identities() *identity.Manager { return a.identities }

// Permissions returns the grant/request/revocation manager.
func (a *Agent) Permissions() *permissions.Manager { return a.permissions }
