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

import (
	"encoding/base64"

	"github.com/TBD54566975/web5-go/crypto"
	"github.com/TBD54566975/web5-go/internal/zero"
)

// FlattenedJWE is the flattened JWE JSON serialization, per RFC 7516 §7.2.2.
type FlattenedJWE struct {
	Protected    string `json:"protected,omitempty"`
	Unprotected  Header `json:"unprotected,omitempty"`
	Header       Header `json:"header,omitempty"`
	EncryptedKey string `json:"encrypted_key,omitempty"`
	AAD          string `json:"aad,omitempty"`
	IV           string `json:"iv"`
	Ciphertext   string `json:"ciphertext"`
	Tag          string `json:"tag"`
}

// EncryptInput carries the parameters for Encrypt.
type EncryptInput struct {
	Plaintext       []byte
	ProtectedHeader Header
	Unprotected     Header
	PerRecipient    Header
	Key             []byte
	AAD             []byte
}

// DecryptOutput carries everything Decrypt recovers from a JWE.
type DecryptOutput struct {
	Plaintext               []byte
	ProtectedHeader         Header
	UnprotectedHeader       Header
	SharedUnprotectedHeader Header
	AAD                     []byte
}

// Encrypt implements §4.8's flattened JWE encrypt algorithm: merge headers,
// validate alg/enc, generate an iv, AEAD-encrypt, and emit base64url fields.
func Encrypt(in EncryptInput) (*FlattenedJWE, error) {
	merged, err := mergeHeaders(in.ProtectedHeader, in.Unprotected, in.PerRecipient)
	if err != nil {
		return nil, err
	}

	alg, err := merged.alg()
	if err != nil {
		return nil, err
	}
	if alg != AlgDir {
		return nil, newErr(UnsupportedAlg, "Encrypt", nil)
	}

	enc, err := merged.enc()
	if err != nil {
		return nil, err
	}

	iv, err := crypto.RandomBytes(ivLength(enc))
	if err != nil {
		return nil, newErr(InvalidJwe, "Encrypt", err)
	}

	protectedB64, err := encodeHeader(in.ProtectedHeader)
	if err != nil {
		return nil, newErr(InvalidJwe, "Encrypt", err)
	}

	aad := additionalData(protectedB64, in.AAD)

	ciphertext, tag, err := seal(enc, in.Key, iv, in.Plaintext, aad)
	if err != nil {
		return nil, err
	}

	jwe := &FlattenedJWE{
		Protected:   protectedB64,
		Unprotected: in.Unprotected,
		Header:      in.PerRecipient,
		IV:          b64(iv),
		Ciphertext:  b64(ciphertext),
		Tag:         b64(tag),
	}
	if len(in.AAD) > 0 {
		jwe.AAD = b64(in.AAD)
	}
	// iv/ciphertext/tag now exist as the base64url copies on jwe; the raw
	// buffers this function allocated for them are done and can be wiped.
	zero.Bytes(iv)
	zero.Bytes(ciphertext)
	zero.Bytes(tag)
	return jwe, nil
}

// DecryptInput carries the parameters for Decrypt. AAD is only needed when
// the serialization itself carries no AAD segment (compact form) but the
// caller still agreed on associated data out-of-band; jwe.AAD takes
// precedence when the JWE carries one of its own.
type DecryptInput struct {
	JWE *FlattenedJWE
	Key []byte
	AAD []byte
}

// Decrypt implements §4.8's flattened JWE decrypt algorithm: parse and
// validate the protected header, reconstruct the AEAD additional-data
// exactly as Encrypt did, and AEAD-decrypt.
func Decrypt(in DecryptInput) (*DecryptOutput, error) {
	jwe := in.JWE
	if jwe == nil || jwe.Protected == "" || jwe.IV == "" || jwe.Ciphertext == "" || jwe.Tag == "" {
		return nil, newErr(InvalidJwe, "Decrypt", nil)
	}

	protectedHeader, err := decodeHeader(jwe.Protected)
	if err != nil {
		return nil, newErr(InvalidJwe, "Decrypt", err)
	}

	merged, err := mergeHeaders(protectedHeader, jwe.Unprotected, jwe.Header)
	if err != nil {
		return nil, err
	}

	alg, err := merged.alg()
	if err != nil {
		return nil, err
	}
	if alg != AlgDir {
		return nil, newErr(UnsupportedAlg, "Decrypt", nil)
	}

	enc, err := merged.enc()
	if err != nil {
		return nil, err
	}

	iv, err := b64Decode(jwe.IV)
	if err != nil {
		return nil, newErr(Decrypt, "Decrypt", err)
	}
	ciphertext, err := b64Decode(jwe.Ciphertext)
	if err != nil {
		return nil, newErr(Decrypt, "Decrypt", err)
	}
	tag, err := b64Decode(jwe.Tag)
	if err != nil {
		return nil, newErr(Decrypt, "Decrypt", err)
	}

	var rawAAD []byte
	if jwe.AAD != "" {
		rawAAD, err = b64Decode(jwe.AAD)
		if err != nil {
			return nil, newErr(InvalidJwe, "Decrypt", err)
		}
	} else {
		rawAAD = in.AAD
	}
	aad := additionalData(jwe.Protected, rawAAD)

	plaintext, err := open(enc, in.Key, iv, ciphertext, tag, aad)
	if err != nil {
		return nil, newErr(Decrypt, "Decrypt", err)
	}
	// plaintext is a distinct buffer from ciphertext; iv/ciphertext/tag have
	// no further use once open succeeds.
	zero.Bytes(iv)
	zero.Bytes(ciphertext)
	zero.Bytes(tag)

	return &DecryptOutput{
		Plaintext:               plaintext,
		ProtectedHeader:         protectedHeader,
		UnprotectedHeader:       jwe.Header,
		SharedUnprotectedHeader: jwe.Unprotected,
		AAD:                     rawAAD,
	}, nil
}

func seal(enc string, key, iv, plaintext, aad []byte) (ciphertext, tag []byte, err error) {
	switch enc {
	case EncA256GCM, EncA128GCM:
		ciphertext, tag, err = crypto.AESGCMSeal(key, iv, plaintext, aad)
	case EncXC20P:
		ciphertext, tag, err = crypto.XChaCha20Poly1305Seal(key, iv, plaintext, aad)
	default:
		return nil, nil, newErr(InvalidJwe, "seal", errUnsupportedEnc)
	}
	if err != nil {
		return nil, nil, newErr(Decrypt, "seal", err)
	}
	return ciphertext, tag, nil
}

func open(enc string, key, iv, ciphertext, tag, aad []byte) ([]byte, error) {
	switch enc {
	case EncA256GCM, EncA128GCM:
		return crypto.AESGCMOpen(key, iv, ciphertext, tag, aad)
	case EncXC20P:
		return crypto.XChaCha20Poly1305Open(key, iv, ciphertext, tag, aad)
	default:
		return nil, newErr(InvalidJwe, "open", errUnsupportedEnc)
	}
}

// additionalData computes RFC 7516's AAD input: the ASCII bytes of the
// base64url protected header, optionally extended with "." plus the
// base64url of caller-supplied AAD.
func additionalData(protectedB64 string, aad []byte) []byte {
	out := []byte(protectedB64)
	if len(aad) > 0 {
		out = append(out, '.')
		out = append(out, []byte(b64(aad))...)
	}
	return out
}

func b64(data []byte) string { return base64.RawURLEncoding.EncodeToString(data) }

func b64Decode(s string) ([]byte, error) { return base64.RawURLEncoding.DecodeString(s) }
