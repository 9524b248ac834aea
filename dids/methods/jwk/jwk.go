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

// Package jwk implements the did:jwk method: a deterministic DID whose
// method-specific id is the base64url-encoded canonical public JWK, with no
// publication or registry involved.
package jwk

import (
	"encoding/base64"
	"errors"

	"github.com/TBD54566975/web5-go/dids"
	"github.com/TBD54566975/web5-go/internal/jsonw"
	"github.com/TBD54566975/web5-go/jwk"
	"github.com/TBD54566975/web5-go/kms"
)

// MethodName is the DID method name this package implements.
const MethodName = "jwk"

// ErrUnusableKey names the "undecodable key material" condition. Resolve
// does not return it: it reports an undecodable embedded JWK as
// dids.ErrInvalidDid in the result's ResolutionMetadata.
var ErrUnusableKey = errors.New("did:jwk: undecodable key material")

// Method implements dids.Method for did:jwk.
type Method struct{}

// New returns a did:jwk Method.
func New() *Method { return &Method{} }

// Name returns "jwk".
func (Method) Name() string { return MethodName }

// Create generates a key of the algorithm named by opts["algorithm"]
// (default Ed25519) and derives its did:jwk document.
func (m Method) Create(keyManager kms.Backend, opts dids.CreateOptions) (*dids.BearerDid, error) {
	alg := kms.AlgEd25519
	if v, ok := opts["algorithm"].(kms.Algorithm); ok && v != "" {
		alg = v
	} else if v, ok := opts["algorithm"].(string); ok && v != "" {
		alg = kms.Algorithm(v)
	}

	keyURI, err := keyManager.Generate(alg)
	if err != nil {
		return nil, err
	}
	pub, err := keyManager.GetPublicKey(keyURI)
	if err != nil {
		return nil, err
	}

	uri, err := uriFromJWK(pub)
	if err != nil {
		return nil, err
	}

	doc, err := documentFromJWK(uri, pub)
	if err != nil {
		return nil, err
	}

	return &dids.BearerDid{
		URI:        uri,
		Document:   doc,
		Metadata:   dids.Metadata{"published": false},
		KeyManager: keyManager,
	}, nil
}

// Resolve decodes the did:jwk method-specific id back into a public JWK and
// synthesizes its DID document. It never touches the network.
func (m Method) Resolve(uri string, _ map[string]any) dids.ResolutionResult {
	parsed, ok := dids.Parse(uri)
	if !ok || parsed.Method != MethodName {
		return dids.ResolutionResult{ResolutionMetadata: dids.ResolutionMetadata{Error: dids.ErrInvalidDid}}
	}

	raw, err := base64.RawURLEncoding.DecodeString(parsed.ID)
	if err != nil {
		return dids.ResolutionResult{ResolutionMetadata: dids.ResolutionMetadata{Error: dids.ErrInvalidDid}}
	}

	var key jwk.JWK
	if err := jsonw.Unmarshal(raw, &key); err != nil {
		return dids.ResolutionResult{ResolutionMetadata: dids.ResolutionMetadata{Error: dids.ErrInvalidDid}}
	}

	doc, err := documentFromJWK(parsed.URI, key)
	if err != nil {
		return dids.ResolutionResult{ResolutionMetadata: dids.ResolutionMetadata{Error: dids.ErrInvalidDid}}
	}

	return dids.ResolutionResult{Document: doc}
}

// GetSigningMethod returns the verification method named by methodID, or
// the sole one, #0, when methodID is empty (a did:jwk document only ever
// has one). A methodID that names no method fails with ErrNoSigningMethod.
func (m Method) GetSigningMethod(doc *dids.Document, methodID string) (*dids.VerificationMethod, error) {
	vm, ok := doc.FindVerificationMethod(methodID)
	if !ok {
		return nil, dids.ErrNoSigningMethod
	}
	return vm, nil
}

func uriFromJWK(pub jwk.JWK) (string, error) {
	canonical, err := pub.PublicOnly().Canonicalize()
	if err != nil {
		return "", err
	}
	return "did:" + MethodName + ":" + base64.RawURLEncoding.EncodeToString(canonical), nil
}

// documentFromJWK synthesizes the single-verification-method DID document
// for a did:jwk DID, per the did:jwk spec's use-based relationship rules:
// use=sig restricts to signing relationships, use=enc restricts to
// keyAgreement, and no use populates both.
func documentFromJWK(uri string, pub jwk.JWK) (*dids.Document, error) {
	pub = pub.PublicOnly()
	methodID := uri + "#0"

	doc := &dids.Document{
		ID: uri,
		VerificationMethod: []dids.VerificationMethod{{
			ID:           methodID,
			Type:         "JsonWebKey2020",
			Controller:   uri,
			PublicKeyJwk: pub,
		}},
	}

	switch pub.Use {
	case "enc":
		doc.KeyAgreement = []string{methodID}
	case "sig":
		doc.Authentication = []string{methodID}
		doc.AssertionMethod = []string{methodID}
		doc.CapabilityInvocation = []string{methodID}
		doc.CapabilityDelegation = []string{methodID}
	default:
		doc.Authentication = []string{methodID}
		doc.AssertionMethod = []string{methodID}
		doc.CapabilityInvocation = []string{methodID}
		doc.CapabilityDelegation = []string{methodID}
		doc.KeyAgreement = []string{methodID}
	}

	return doc, nil
}
