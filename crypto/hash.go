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
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"io"

	xhkdf "golang.org/x/crypto/hkdf"
)

// SHA256 returns the 32-byte SHA-256 digest of data.
func SHA256(data []byte) []byte {
	h := sha256.Sum256(data)
	return h[:]
}

// SHA384 returns the 48-byte SHA-384 digest of data.
func SHA384(data []byte) []byte {
	h := sha512.Sum384(data)
	return h[:]
}

// SHA512 returns the 64-byte SHA-512 digest of data.
func SHA512(data []byte) []byte {
	h := sha512.Sum512(data)
	return h[:]
}

// HKDFSHA256 performs RFC 5869 extract-then-expand key derivation with
// SHA-256. length is in bits, per spec §4.1; the result is rounded up to the
// nearest byte. A length greater than 255*32 bytes is rejected, per RFC 5869
// §2.3.
func HKDFSHA256(ikm, salt, info []byte, length int) ([]byte, error) {
	return hkdf(sha256.New, ikm, salt, info, length)
}

func hkdf(newHash func() hash.Hash, ikm, salt, info []byte, lengthBits int) ([]byte, error) {
	if lengthBits <= 0 {
		return nil, newErr(InvalidInput, "hkdf", errEmptyInput)
	}
	lengthBytes := (lengthBits + 7) / 8

	maxLen := 255 * newHash().Size()
	if lengthBytes > maxLen {
		return nil, newErr(InvalidInput, "hkdf", errHKDFLengthTooLarge)
	}

	r := xhkdf.New(newHash, ikm, salt, info)
	out := make([]byte, lengthBytes)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, newErr(OperationFailed, "hkdf", err)
	}
	return out, nil
}
