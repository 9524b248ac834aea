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

func TestX25519_ECDHAgreement(t *testing.T) {
	aliceUub, alicePriv, err := X25519GenerateKey()
	require.NoError(t, err)
	bobPub, bobPriv, err := X25519GenerateKey()
	require.NoError(t, err)

	secretA, err := X25519SharedSecret(alicePriv, bobPub)
	require.NoError(t, err)
	secretB, err := X25519SharedSecret(bobPriv, aliceUub)
	require.NoError(t, err)

	assert.Equal(t, secretA, secretB)
	assert.Len(t, secretA, 32)
}

func TestX25519SharedSecret_InvalidKeySizes(t *testing.T) {
	_, err := X25519SharedSecret([]byte("short"), make([]byte, 32))
	require.Error(t, err)

	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, InvalidKey, cerr.Kind)
}
