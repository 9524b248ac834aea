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

func TestAESGCM_SealOpenRoundTrip(t *testing.T) {
	key, err := RandomBytes(32)
	require.NoError(t, err)
	iv, err := RandomBytes(12)
	require.NoError(t, err)
	aad := []byte("associated data")
	plaintext := []byte("the quick brown fox")

	ciphertext, tag, err := AESGCMSeal(key, iv, plaintext, aad)
	require.NoError(t, err)
	assert.Len(t, tag, 16)
	assert.NotEqual(t, plaintext, ciphertext)

	got, err := AESGCMOpen(key, iv, ciphertext, tag, aad)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestAESGCM_TamperedTagFailsOpen(t *testing.T) {
	key, _ := RandomBytes(32)
	iv, _ := RandomBytes(12)
	ciphertext, tag, err := AESGCMSeal(key, iv, []byte("data"), nil)
	require.NoError(t, err)

	tag[0] ^= 0xFF
	_, err = AESGCMOpen(key, iv, ciphertext, tag, nil)
	require.Error(t, err)
}

func TestAESGCM_WrongIVLengthRejected(t *testing.T) {
	key, _ := RandomBytes(32)
	_, _, err := AESGCMSeal(key, []byte("short"), []byte("data"), nil)
	require.Error(t, err)
}
