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
	"encoding/binary"
	"errors"
)

// aeskwDefaultIV is the RFC 3394 §2.2.3.1 default integrity check register.
var aeskwDefaultIV = [8]byte{0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6}

var errAESKWInput = errors.New("aes-kw: input must be a multiple of 8 bytes and at least 16 bytes")

// AESKWWrap wraps cek under kek per RFC 3394. There is no ecosystem
// implementation of this wrapping mode in the example corpus, so this is a
// direct, from-specification implementation over crypto/aes.
func AESKWWrap(kek, cek []byte) ([]byte, error) {
	if len(cek) < 16 || len(cek)%8 != 0 {
		return nil, newErr(InvalidInput, "AESKWWrap", errAESKWInput)
	}
	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, newErr(InvalidKey, "AESKWWrap", err)
	}

	n := len(cek) / 8
	r := make([][8]byte, n)
	for i := 0; i < n; i++ {
		copy(r[i][:], cek[i*8:(i+1)*8])
	}

	var a [8]byte
	copy(a[:], aeskwDefaultIV[:])

	buf := make([]byte, 16)
	for j := 0; j <= 5; j++ {
		for i := 0; i < n; i++ {
			copy(buf[0:8], a[:])
			copy(buf[8:16], r[i][:])
			block.Encrypt(buf, buf)

			t := uint64(n*j + i + 1)
			var tb [8]byte
			binary.BigEndian.PutUint64(tb[:], t)
			for k := range a {
				a[k] = buf[k] ^ tb[k]
			}
			copy(r[i][:], buf[8:16])
		}
	}

	out := make([]byte, 8+len(cek))
	copy(out[0:8], a[:])
	for i := 0; i < n; i++ {
		copy(out[8+i*8:8+(i+1)*8], r[i][:])
	}
	return out, nil
}

// AESKWUnwrap reverses AESKWWrap, reporting OperationFailed if the integrity
// check register does not match the RFC 3394 default after unwrapping.
func AESKWUnwrap(kek, wrapped []byte) ([]byte, error) {
	if len(wrapped) < 24 || len(wrapped)%8 != 0 {
		return nil, newErr(InvalidInput, "AESKWUnwrap", errAESKWInput)
	}
	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, newErr(InvalidKey, "AESKWUnwrap", err)
	}

	n := len(wrapped)/8 - 1
	r := make([][8]byte, n)
	for i := 0; i < n; i++ {
		copy(r[i][:], wrapped[8+i*8:8+(i+1)*8])
	}

	var a [8]byte
	copy(a[:], wrapped[0:8])

	buf := make([]byte, 16)
	for j := 5; j >= 0; j-- {
		for i := n - 1; i >= 0; i-- {
			t := uint64(n*j + i + 1)
			var tb [8]byte
			binary.BigEndian.PutUint64(tb[:], t)
			var ax [8]byte
			for k := range a {
				ax[k] = a[k] ^ tb[k]
			}
			copy(buf[0:8], ax[:])
			copy(buf[8:16], r[i][:])
			block.Decrypt(buf, buf)

			copy(a[:], buf[0:8])
			copy(r[i][:], buf[8:16])
		}
	}

	if a != aeskwDefaultIV {
		return nil, newErr(OperationFailed, "AESKWUnwrap", errors.New("integrity check failed"))
	}

	out := make([]byte, n*8)
	for i := 0; i < n; i++ {
		copy(out[i*8:(i+1)*8], r[i][:])
	}
	return out, nil
}
