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

func TestAESCTR_RoundTrip(t *testing.T) {
	key, err := RandomBytes(32)
	require.NoError(t, err)
	iv, err := RandomBytes(16)
	require.NoError(t, err)
	plaintext := []byte("stream cipher payload")

	ciphertext, err := AESCTR(key, iv, plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, ciphertext)

	got, err := AESCTR(key, iv, ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestAESCTR_WrongIVLengthRejected(t *testing.T) {
	key, _ := RandomBytes(32)
	_, err := AESCTR(key, []byte("short"), []byte("data"))
	require.Error(t, err)
}
