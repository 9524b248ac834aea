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

package kms

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/TBD54566975/web5-go/jwk"
)

// MemoryBackend is a process-local KMS backend keyed by key URI. It exports
// any key it holds private material for; exporting a key held public-only
// fails with NotExportable.
type MemoryBackend struct {
	lock sync.RWMutex
	keys map[string]jwk.JWK
}

var _ Backend = (*MemoryBackend)(nil)

// NewMemoryBackend returns an empty in-memory KMS backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{keys: make(map[string]jwk.JWK)}
}

func (b *MemoryBackend) Generate(alg Algorithm) (string, error) {
	key, err := generateJWK(alg)
	if err != nil {
		log.Warn().Err(err).Str("alg", string(alg)).Msg("kms: key generation failed")
		return "", err
	}
	uri, err := b.store(key)
	if err == nil {
		log.Debug().Str("alg", string(alg)).Str("keyUri", uri).Msg("kms: key generated")
	}
	return uri, err
}

func (b *MemoryBackend) Import(key jwk.JWK) (string, error) {
	return b.store(key)
}

func (b *MemoryBackend) store(key jwk.JWK) (string, error) {
	uri, err := key.KeyURI()
	if err != nil {
		return "", newErr(BadKey, "import", "", err)
	}

	b.lock.Lock()
	defer b.lock.Unlock()
	if existing, ok := b.keys[uri]; ok {
		// idempotent on identical JWK: keep whichever copy carries more
		// (private over public-only)
		if existing.IsPrivate() || key.IsPublic() {
			return uri, nil
		}
	}
	b.keys[uri] = key
	return uri, nil
}

func (b *MemoryBackend) Export(keyURI string) (jwk.JWK, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()
	key, ok := b.keys[keyURI]
	if !ok {
		return jwk.JWK{}, newErr(NotFound, "export", keyURI, nil)
	}
	if key.IsPublic() {
		return jwk.JWK{}, newErr(NotExportable, "export", keyURI, nil)
	}
	return key, nil
}

func (b *MemoryBackend) GetPublicKey(keyURI string) (jwk.JWK, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()
	key, ok := b.keys[keyURI]
	if !ok {
		return jwk.JWK{}, newErr(NotFound, "get_public", keyURI, nil)
	}
	return key.PublicOnly(), nil
}

func (b *MemoryBackend) Sign(keyURI string, data []byte) ([]byte, error) {
	b.lock.RLock()
	key, ok := b.keys[keyURI]
	b.lock.RUnlock()
	if !ok {
		return nil, newErr(NotFound, "sign", keyURI, nil)
	}
	if key.IsPublic() {
		return nil, newErr(BadKey, "sign", keyURI, nil)
	}
	return signWithJWK(key, data)
}

func (b *MemoryBackend) Digest(alg string, data []byte) ([]byte, error) {
	return digest(alg, data)
}
