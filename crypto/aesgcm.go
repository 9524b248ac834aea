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
	"crypto/aes"
	"crypto/cipher"
)

// AESGCMSeal encrypts plaintext under key with a 12-byte iv and optional aad,
// returning the ciphertext and the 16-byte authentication tag as separate
// slices, per spec §4.1 (JWE callers need the tag split out, not appended).
func AESGCMSeal(key, iv, plaintext, aad []byte) (ciphertext, tag []byte, err error) {
	block, gcm, ivErr := newGCM(key, iv)
	if ivErr != nil {
		return nil, nil, ivErr
	}
	_ = block

	sealed := gcm.Seal(nil, iv, plaintext, aad)
	tagLen := gcm.Overhead()
	ciphertext = sealed[:len(sealed)-tagLen]
	tag = sealed[len(sealed)-tagLen:]
	return ciphertext, tag, nil
}

// AESGCMOpen decrypts ciphertext+tag under key with a 12-byte iv and optional
// aad.
func AESGCMOpen(key, iv, ciphertext, tag, aad []byte) ([]byte, error) {
	_, gcm, ivErr := newGCM(key, iv)
	if ivErr != nil {
		return nil, ivErr
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := gcm.Open(nil, iv, sealed, aad)
	if err != nil {
		return nil, newErr(OperationFailed, "AESGCMOpen", err)
	}
	return plaintext, nil
}

func newGCM(key, iv []byte) (cipher.Block, cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, newErr(InvalidKey, "aesgcm", err)
	}
	if len(iv) != 12 {
		return nil, nil, newErr(InvalidInput, "aesgcm", errInvalidNonceLength)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, newErr(OperationFailed, "aesgcm", err)
	}
	return block, gcm, nil
}
