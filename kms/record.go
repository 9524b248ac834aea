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
	"github.com/rs/zerolog/log"

	"github.com/TBD54566975/web5-go/jwk"
	"github.com/TBD54566975/web5-go/storage"
)

const keyRecordSchema = "https://web5.tbd.website/schemas/kms/key"

// RecordBackend persists keys as tenanted records in a storage.Store,
// rather than holding them only in process memory. The tenant is fixed at
// construction, matching a single agent's own key-material tenant.
type RecordBackend struct {
	store  *storage.Store
	tenant string
}

var _ Backend = (*RecordBackend)(nil)

// NewRecordBackend creates a record-backed KMS over substrate, storing all
// keys under tenant.
func NewRecordBackend(substrate storage.Substrate, tenant string) *RecordBackend {
	return &RecordBackend{
		store:  storage.NewStore(substrate, keyRecordSchema),
		tenant: tenant,
	}
}

func (b *RecordBackend) Generate(alg Algorithm) (string, error) {
	key, err := generateJWK(alg)
	if err != nil {
		log.Warn().Err(err).Str("alg", string(alg)).Msg("kms: record-backed key generation failed")
		return "", err
	}
	uri, err := b.store1(key)
	if err == nil {
		log.Debug().Str("alg", string(alg)).Str("keyUri", uri).Msg("kms: record-backed key generated")
	}
	return uri, err
}

func (b *RecordBackend) Import(key jwk.JWK) (string, error) {
	return b.store1(key)
}

func (b *RecordBackend) store1(key jwk.JWK) (string, error) {
	uri, err := key.KeyURI()
	if err != nil {
		return "", newErr(BadKey, "import", "", err)
	}

	// idempotent: if a private copy already exists, importing a public-only
	// duplicate must not clobber it.
	if existing, ok, _ := b.store.Get(b.tenant, uri, storage.GetOptions{}); ok {
		if isPrivateRecord(existing) && key.IsPublic() {
			return uri, nil
		}
		if _, err := b.store.Delete(b.tenant, uri); err != nil {
			return "", newErr(BadKey, "import", uri, err)
		}
	}

	opts := storage.SetOptions{PreventDuplicates: false, UseCache: true}
	if _, err := b.store.Set(b.tenant, uri, key, opts); err != nil {
		return "", newErr(BadKey, "import", uri, err)
	}
	return uri, nil
}

func isPrivateRecord(rec map[string]any) bool {
	d, ok := rec["d"].(string)
	return ok && d != ""
}

func (b *RecordBackend) loadJWK(keyURI string) (jwk.JWK, bool, error) {
	raw, ok, err := b.store.Get(b.tenant, keyURI, storage.GetOptions{UseCache: true})
	if err != nil || !ok {
		return jwk.JWK{}, ok, err
	}
	key := jwk.JWK{
		Kty: stringField(raw, "kty"),
		Crv: stringField(raw, "crv"),
		X:   stringField(raw, "x"),
		Y:   stringField(raw, "y"),
		D:   stringField(raw, "d"),
		K:   stringField(raw, "k"),
		N:   stringField(raw, "n"),
		E:   stringField(raw, "e"),
	}
	return key, true, nil
}

func stringField(m map[string]any, field string) string {
	v, _ := m[field].(string)
	return v
}

func (b *RecordBackend) Export(keyURI string) (jwk.JWK, error) {
	key, ok, err := b.loadJWK(keyURI)
	if err != nil {
		return jwk.JWK{}, newErr(BadKey, "export", keyURI, err)
	}
	if !ok {
		return jwk.JWK{}, newErr(NotFound, "export", keyURI, nil)
	}
	if key.IsPublic() {
		return jwk.JWK{}, newErr(NotExportable, "export", keyURI, nil)
	}
	return key, nil
}

func (b *RecordBackend) GetPublicKey(keyURI string) (jwk.JWK, error) {
	key, ok, err := b.loadJWK(keyURI)
	if err != nil {
		return jwk.JWK{}, newErr(BadKey, "get_public", keyURI, err)
	}
	if !ok {
		return jwk.JWK{}, newErr(NotFound, "get_public", keyURI, nil)
	}
	return key.PublicOnly(), nil
}

func (b *RecordBackend) Sign(keyURI string, data []byte) ([]byte, error) {
	key, ok, err := b.loadJWK(keyURI)
	if err != nil {
		return nil, newErr(BadKey, "sign", keyURI, err)
	}
	if !ok {
		return nil, newErr(NotFound, "sign", keyURI, nil)
	}
	if key.IsPublic() {
		return nil, newErr(BadKey, "sign", keyURI, nil)
	}
	return signWithJWK(key, data)
}

func (b *RecordBackend) Digest(alg string, data []byte) ([]byte, error) {
	return digest(alg, data)
}
