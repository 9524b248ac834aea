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

// Package dht implements the did:dht method: a publishable DID whose
// method-specific id is a base58-encoded identity key, optionally published
// to (and resolved from) a distributed key-value network. The network
// itself is treated as a black box behind the Transport interface.
package dht

import (
	"context"
	"errors"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/rs/zerolog/log"

	"github.com/TBD54566975/web5-go/dids"
	"github.com/TBD54566975/web5-go/internal/jsonw"
	"github.com/TBD54566975/web5-go/internal/measure"
	"github.com/TBD54566975/web5-go/jwk"
	"github.com/TBD54566975/web5-go/kms"
)

// MethodName is the DID method name this package implements.
const MethodName = "dht"

// ErrNotPublished names the "record not published" condition. Resolve does
// not return it: it reports that condition as dids.ErrNotFound in the
// result's ResolutionMetadata.
var ErrNotPublished = errors.New("did:dht: record not published")

// Transport is the black-box distributed KV network a did:dht document is
// published to and resolved from. Implementations may be backed by an
// actual DHT, a rendezvous server, or (for tests) an in-memory map.
type Transport interface {
	// Put stores the DID document bytes under identityKey.
	Put(ctx context.Context, identityKey string, document []byte) error
	// Get retrieves the DID document bytes last published under
	// identityKey. ok is false if nothing has been published.
	Get(ctx context.Context, identityKey string) (document []byte, ok bool, err error)
}

// Method implements dids.Method for did:dht.
type Method struct {
	transport Transport
}

// New returns a did:dht Method. transport may be nil, in which case Create
// never publishes and Resolve always fails with NotFound.
func New(transport Transport) *Method {
	return &Method{transport: transport}
}

// Name returns "dht".
func (Method) Name() string { return MethodName }

// Create generates an Ed25519 identity key, composes its DID document, and
// — unless opts["publish"] is explicitly false, or no transport is
// configured — publishes it to the transport.
func (m *Method) Create(keyManager kms.Backend, opts dids.CreateOptions) (*dids.BearerDid, error) {
	defer measure.ExecTime("dht.Method.Create")()

	keyURI, err := keyManager.Generate(kms.AlgEd25519)
	if err != nil {
		return nil, err
	}
	pub, err := keyManager.GetPublicKey(keyURI)
	if err != nil {
		return nil, err
	}

	identityKey, err := identityKeyFromJWK(pub)
	if err != nil {
		return nil, err
	}
	uri := "did:" + MethodName + ":" + identityKey
	doc := documentFromJWK(uri, pub)

	published := false
	if shouldPublish(opts) && m.transport != nil {
		raw, err := jsonw.Marshal(doc)
		if err != nil {
			return nil, err
		}
		if err := m.transport.Put(context.Background(), identityKey, raw); err != nil {
			log.Warn().Err(err).Str("uri", uri).Msg("did:dht: publish failed")
			return nil, &ResolutionError{Code: dids.ErrNetworkError, cause: err}
		}
		log.Debug().Str("uri", uri).Msg("did:dht: published")
		published = true
	}

	return &dids.BearerDid{
		URI:        uri,
		Document:   doc,
		Metadata:   dids.Metadata{"published": published},
		KeyManager: keyManager,
	}, nil
}

func shouldPublish(opts dids.CreateOptions) bool {
	if opts == nil {
		return true
	}
	if v, ok := opts["publish"].(bool); ok {
		return v
	}
	return true
}

// Resolve fetches the published document for uri from the transport and
// verifies its subject matches the requested identity key.
func (m *Method) Resolve(uri string, _ map[string]any) dids.ResolutionResult {
	defer measure.ExecTime("dht.Method.Resolve")()

	parsed, ok := dids.Parse(uri)
	if !ok || parsed.Method != MethodName {
		return dids.ResolutionResult{ResolutionMetadata: dids.ResolutionMetadata{Error: dids.ErrInvalidDid}}
	}
	if len(base58.Decode(parsed.ID)) == 0 {
		return dids.ResolutionResult{ResolutionMetadata: dids.ResolutionMetadata{Error: dids.ErrInvalidDid}}
	}

	if m.transport == nil {
		return dids.ResolutionResult{ResolutionMetadata: dids.ResolutionMetadata{Error: dids.ErrNotFound}}
	}

	raw, found, err := m.transport.Get(context.Background(), parsed.ID)
	if err != nil {
		log.Warn().Err(err).Str("uri", parsed.URI).Msg("did:dht: resolve failed")
		return dids.ResolutionResult{ResolutionMetadata: dids.ResolutionMetadata{Error: dids.ErrNetworkError}}
	}
	if !found {
		log.Debug().Str("uri", parsed.URI).Msg("did:dht: not published")
		return dids.ResolutionResult{ResolutionMetadata: dids.ResolutionMetadata{Error: dids.ErrNotFound}}
	}

	var doc dids.Document
	if err := jsonw.Unmarshal(raw, &doc); err != nil {
		log.Warn().Err(err).Str("uri", parsed.URI).Msg("did:dht: malformed published document")
		return dids.ResolutionResult{ResolutionMetadata: dids.ResolutionMetadata{Error: dids.ErrNetworkError}}
	}
	if doc.ID != parsed.URI {
		return dids.ResolutionResult{ResolutionMetadata: dids.ResolutionMetadata{Error: dids.ErrNotFound}}
	}

	return dids.ResolutionResult{Document: &doc}
}

// GetSigningMethod returns the sole verification method, #0.
func (m *Method) GetSigningMethod(doc *dids.Document, methodID string) (*dids.VerificationMethod, error) {
	vm, ok := doc.FindVerificationMethod(methodID)
	if !ok {
		return nil, dids.ErrNoSigningMethod
	}
	return vm, nil
}

func identityKeyFromJWK(pub jwk.JWK) (string, error) {
	x, err := decodeX(pub)
	if err != nil {
		return "", err
	}
	return base58.Encode(x), nil
}

func decodeX(pub jwk.JWK) ([]byte, error) {
	pk, err := jwk.ToEd25519PublicKey(pub)
	if err != nil {
		return nil, err
	}
	return []byte(pk), nil
}

func documentFromJWK(uri string, pub jwk.JWK) *dids.Document {
	pub = pub.PublicOnly()
	methodID := uri + "#0"
	return &dids.Document{
		ID: uri,
		VerificationMethod: []dids.VerificationMethod{{
			ID:           methodID,
			Type:         "JsonWebKey2020",
			Controller:   uri,
			PublicKeyJwk: pub,
		}},
		Authentication:       []string{methodID},
		AssertionMethod:      []string{methodID},
		CapabilityInvocation: []string{methodID},
		CapabilityDelegation: []string{methodID},
	}
}

// ResolutionError wraps a resolution error code with the underlying
// transport error, when there is one.
type ResolutionError struct {
	Code  string
	cause error
}

func (e *ResolutionError) Error() string { return "did:dht: " + e.Code }
func (e *ResolutionError) Unwrap() error { return e.cause }
