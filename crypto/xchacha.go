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

package crypto

import (
	"golang.org/x/crypto/chacha20poly1305"
)

// XChaCha20Poly1305Seal encrypts plaintext under key with a 24-byte nonce and
// optional aad, returning ciphertext and the 16-byte tag as separate slices.
func XChaCha20Poly1305Seal(key, nonce, plaintext, aad []byte) (ciphertext, tag []byte, err error) {
	aead, aeadErr := chacha20poly1305.NewX(key)
	if aeadErr != nil {
		return nil, nil, newErr(InvalidKey, "XChaCha20Poly1305Seal", aeadErr)
	}
	if len(nonce) != chacha20poly1305.NonceSizeX {
		return nil, nil, newErr(InvalidInput, "XChaCha20Poly1305Seal", errInvalidNonceLength)
	}

	sealed := aead.Seal(nil, nonce, plaintext, aad)
	tagLen := aead.Overhead()
	ciphertext = sealed[:len(sealed)-tagLen]
	tag = sealed[len(sealed)-tagLen:]
	return ciphertext, tag, nil
}

// XChaCha20Poly1305Open decrypts ciphertext+tag under key with a 24-byte
// nonce and optional aad.
func XChaCha20Poly1305Open(key, nonce, ciphertext, tag, aad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, newErr(InvalidKey, "XChaCha20Poly1305Open", err)
	}
	if len(nonce) != chacha20poly1305.NonceSizeX {
		return nil, newErr(InvalidInput, "XChaCha20Poly1305Open", errInvalidNonceLength)
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := aead.Open(nil, nonce, sealed, aad)
	if err != nil {
		return nil, newErr(OperationFailed, "XChaCha20Poly1305Open", err)
	}
	return plaintext, nil
}
