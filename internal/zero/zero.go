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

// Package zero provides best-effort wiping of secret material held in
// memory, used by the KMS and JOSE code whenever raw key bytes are held
// transiently.
package zero

// Bytes overwrites b with zeroes in place. It is a mitigation, not a
// guarantee: the Go runtime may have copied the backing array elsewhere.
func Bytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Bytea32 overwrites a 32-byte array in place.
func Bytea32(b *[32]byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}

// String returns a replacement value to assign over a secret string field.
// Go strings are immutable, so the original backing bytes cannot be wiped;
// this only drops the reference.
func String() string {
	return ""
}
