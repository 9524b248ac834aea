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

package crypto_test

import (
	"testing"

	. "github.com/TBD54566975/web5-go/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXChaCha20Poly1305_SealOpenRoundTrip(t *testing.T) {
	key, err := RandomBytes(32)
	require.NoError(t, err)
	nonce, err := RandomBytes(24)
	require.NoError(t, err)
	aad := []byte("header bytes")
	plaintext := []byte("wallet-connect request object")

	ciphertext, tag, err := XChaCha20Poly1305Seal(key, nonce, plaintext, aad)
	require.NoError(t, err)
	assert.Len(t, tag, 16)

	got, err := XChaCha20Poly1305Open(key, nonce, ciphertext, tag, aad)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestXChaCha20Poly1305_TamperedAADFailsOpen(t *testing.T) {
	key, _ := RandomBytes(32)
	nonce, _ := RandomBytes(24)
	ciphertext, tag, err := XChaCha20Poly1305Seal(key, nonce, []byte("data"), []byte("aad"))
	require.NoError(t, err)

	_, err = XChaCha20Poly1305Open(key, nonce, ciphertext, tag, []byte("different aad"))
	require.Error(t, err)
}

func TestXChaCha20Poly1305_WrongNonceLengthRejected(t *testing.T) {
	key, _ := RandomBytes(32)
	_, _, err := XChaCha20Poly1305Seal(key, []byte("short"), []byte("data"), nil)
	require.Error(t, err)
}
