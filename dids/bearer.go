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

package dids

import (
	"errors"

	"github.com/TBD54566975/web5-go/jwk"
	"github.com/TBD54566975/web5-go/kms"
)

// ErrNoSigningMethod is returned by GetSigner when the document has no
// usable assertion method and none was given explicitly.
var ErrNoSigningMethod = errors.New("dids: no signing method available")

// Metadata carries method-specific bookkeeping about how a DID was created
// (e.g. whether it was published).
type Metadata map[string]any

// Signer is bound to one verification method; Sign/Verify operate with its
// algorithm and key.
type Signer struct {
	Algorithm string
	KeyID     string

	backend kms.Backend
	keyURI  string
	pubJWK  jwk.JWK
}

// Sign produces an algorithm-canonical signature over data.
func (s *Signer) Sign(data []byte) ([]byte, error) {
	return s.backend.Sign(s.keyURI, data)
}

// Verify checks sig over data using this signer's public key.
func (s *Signer) Verify(data, sig []byte) (bool, error) {
	return kms.Verify(s.pubJWK, data, sig)
}

// BearerDid pairs a DID document with the key manager that holds its
// private keys.
type BearerDid struct {
	URI        string
	Document   *Document
	Metadata   Metadata
	KeyManager kms.Backend
}

// GetSigner selects a verification method (explicit methodID, or the first
// assertionMethod entry) and returns a Signer bound to it.
func (d *BearerDid) GetSigner(methodID string) (*Signer, error) {
	id := methodID
	if id == "" {
		if len(d.Document.AssertionMethod) == 0 {
			return nil, ErrNoSigningMethod
		}
		id = d.Document.AssertionMethod[0]
	}

	vm, ok := d.Document.FindVerificationMethod(id)
	if !ok {
		return nil, ErrNoSigningMethod
	}

	keyURI, err := vm.PublicKeyJwk.KeyURI()
	if err != nil {
		return nil, err
	}

	return &Signer{
		Algorithm: algorithmOf(vm.PublicKeyJwk),
		KeyID:     vm.ID,
		backend:   d.KeyManager,
		keyURI:    keyURI,
		pubJWK:    vm.PublicKeyJwk,
	}, nil
}

func algorithmOf(key jwk.JWK) string {
	switch {
	case key.Kty == jwk.KtyOKP && key.Crv == jwk.CrvEd25519:
		return "Ed25519"
	case key.Kty == jwk.KtyEC && key.Crv == jwk.CrvSecp256k1:
		return "ES256K"
	default:
		return ""
	}
}

// PortableDid is the exported, transportable form of a BearerDid.
type PortableDid struct {
	URI         string    `json:"uri"`
	Document    *Document `json:"document"`
	Metadata    Metadata  `json:"metadata"`
	PrivateKeys []jwk.JWK `json:"privateKeys,omitempty"`
}

// Export produces a PortableDid for d. Private keys are included only when
// the key manager supports export; a backend that forbids export simply
// yields no private_keys rather than failing the whole export.
func (d *BearerDid) Export() (*PortableDid, error) {
	portable := &PortableDid{URI: d.URI, Document: d.Document, Metadata: d.Metadata}

	for _, vm := range d.Document.VerificationMethod {
		keyURI, err := vm.PublicKeyJwk.KeyURI()
		if err != nil {
			continue
		}
		priv, err := d.KeyManager.Export(keyURI)
		if err != nil {
			continue
		}
		portable.PrivateKeys = append(portable.PrivateKeys, priv)
	}
	return portable, nil
}

// Import reconstructs a BearerDid from a PortableDid, importing any private
// keys into keyManager first, then validating that every verification
// method's public key is present.
func Import(portable *PortableDid, keyManager kms.Backend) (*BearerDid, error) {
	for _, priv := range portable.PrivateKeys {
		if _, err := keyManager.Import(priv); err != nil {
			return nil, err
		}
	}

	for _, vm := range portable.Document.VerificationMethod {
		keyURI, err := vm.PublicKeyJwk.KeyURI()
		if err != nil {
			return nil, err
		}
		if _, err := keyManager.GetPublicKey(keyURI); err != nil {
			return nil, err
		}
	}

	return &BearerDid{
		URI:        portable.URI,
		Document:   portable.Document,
		Metadata:   portable.Metadata,
		KeyManager: keyManager,
	}, nil
}
