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

package jose

import "strings"

// EncryptCompact delegates to Encrypt and joins the result into the 5-segment
// compact form. Compact JWE carries no unprotected/per-recipient header or
// caller AAD, per RFC 7516 §7.1.
func EncryptCompact(plaintext []byte, protectedHeader Header, key []byte) (string, error) {
	jwe, err := Encrypt(EncryptInput{
		Plaintext:       plaintext,
		ProtectedHeader: protectedHeader,
		Key:             key,
	})
	if err != nil {
		return "", err
	}
	return strings.Join([]string{
		jwe.Protected,
		jwe.EncryptedKey,
		jwe.IV,
		jwe.Ciphertext,
		jwe.Tag,
	}, "."), nil
}

// DecryptCompact splits compact into its 5 segments and delegates to
// Decrypt.
func DecryptCompact(compact string, key []byte) (*DecryptOutput, error) {
	return DecryptCompactWithAAD(compact, key, nil)
}

// EncryptCompactWithAAD is EncryptCompact with caller-supplied AAD folded
// into the AEAD tag, per RFC 7516 §5.1 step 14. Compact serialization has no
// wire slot for AAD (§7.1), so the caller must convey it out-of-band to
// whoever calls DecryptCompactWithAAD — wallet-connect's PIN is exactly such
// an out-of-band value, entered by the user rather than carried in the JWE.
func EncryptCompactWithAAD(plaintext []byte, protectedHeader Header, key, aad []byte) (string, error) {
	jwe, err := Encrypt(EncryptInput{
		Plaintext:       plaintext,
		ProtectedHeader: protectedHeader,
		Key:             key,
		AAD:             aad,
	})
	if err != nil {
		return "", err
	}
	return strings.Join([]string{
		jwe.Protected,
		jwe.EncryptedKey,
		jwe.IV,
		jwe.Ciphertext,
		jwe.Tag,
	}, "."), nil
}

// DecryptCompactWithAAD splits compact into its 5 segments and delegates to
// Decrypt, supplying aad out-of-band since compact serialization carries no
// AAD segment of its own.
func DecryptCompactWithAAD(compact string, key, aad []byte) (*DecryptOutput, error) {
	segments := strings.Split(compact, ".")
	if len(segments) != 5 {
		return nil, newErr(InvalidJwe, "DecryptCompact", errMalformedCompact)
	}

	jwe := &FlattenedJWE{
		Protected:    segments[0],
		EncryptedKey: segments[1],
		IV:           segments[2],
		Ciphertext:   segments[3],
		Tag:          segments[4],
	}
	return Decrypt(DecryptInput{JWE: jwe, Key: key, AAD: aad})
}
