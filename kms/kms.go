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

import "github.com/TBD54566975/web5-go/jwk"

// Algorithm identifies the key algorithm to generate.
type Algorithm string

const (
	AlgEd25519   Algorithm = "Ed25519"
	AlgSecp256k1 Algorithm = "secp256k1"
	AlgX25519    Algorithm = "X25519"
)

// Backend is the contract a key management backend must satisfy. All
// operations are addressed by key URI, the JWK thumbprint-derived identifier
// computed at generate/import time.
type Backend interface {
	// Generate creates a new key of the given algorithm and returns its key
	// URI.
	Generate(alg Algorithm) (string, error)

	// Import stores key, an arbitrary (public or private) JWK, returning its
	// key URI. Importing the same JWK twice is idempotent and yields the
	// same URI both times.
	Import(key jwk.JWK) (string, error)

	// Export returns the private JWK for keyURI. Backends that forbid
	// export fail with NotExportable.
	Export(keyURI string) (jwk.JWK, error)

	// GetPublicKey returns the public JWK for keyURI.
	GetPublicKey(keyURI string) (jwk.JWK, error)

	// Sign produces an algorithm-canonical signature over data using the key
	// at keyURI: raw r||s for EC algorithms, 64 bytes for Ed25519.
	Sign(keyURI string, data []byte) ([]byte, error)

	// Digest hashes data with alg, which must name a supported hash
	// algorithm (sha256, sha384, sha512).
	Digest(alg string, data []byte) ([]byte, error)
}

// GetKeyURI computes the key URI for key without requiring a backend; it is
// a pure function of the key's public material.
func GetKeyURI(key jwk.JWK) (string, error) {
	return key.KeyURI()
}

// Verify checks a signature over data against a public JWK. It never
// returns an error for a bad signature — only false — per the KMS
// contract; it returns an error only for an unsupported/malformed key.
func Verify(pub jwk.JWK, data, sig []byte) (bool, error) {
	return verify(pub, data, sig)
}
