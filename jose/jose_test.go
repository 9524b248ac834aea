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

package jose_test

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TBD54566975/web5-go/crypto"
	"github.com/TBD54566975/web5-go/jose"
)

func TestEncryptDecrypt_FlattenedA256GCM(t *testing.T) {
	key, err := crypto.RandomBytes(32)
	require.NoError(t, err)

	plaintext := []byte("the quick brown fox")
	jwe, err := jose.Encrypt(jose.EncryptInput{
		Plaintext:       plaintext,
		ProtectedHeader: jose.Header{"alg": jose.AlgDir, "enc": jose.EncA256GCM},
		Key:             key,
	})
	require.NoError(t, err)
	require.NotEmpty(t, jwe.IV)

	out, err := jose.Decrypt(jose.DecryptInput{JWE: jwe, Key: key})
	require.NoError(t, err)
	assert.Equal(t, plaintext, out.Plaintext)
}

func TestEncryptDecrypt_FlattenedXC20PWithAAD(t *testing.T) {
	key, err := crypto.RandomBytes(32)
	require.NoError(t, err)

	plaintext := []byte("wallet connect payload")
	aad := []byte("1234")
	jwe, err := jose.Encrypt(jose.EncryptInput{
		Plaintext:       plaintext,
		ProtectedHeader: jose.Header{"alg": jose.AlgDir, "enc": jose.EncXC20P, "cty": "JWT"},
		Key:             key,
		AAD:             aad,
	})
	require.NoError(t, err)

	out, err := jose.Decrypt(jose.DecryptInput{JWE: jwe, Key: key})
	require.NoError(t, err)
	assert.Equal(t, plaintext, out.Plaintext)
	assert.Equal(t, aad, out.AAD)
}

func TestDecrypt_TamperedCiphertextFails(t *testing.T) {
	key, err := crypto.RandomBytes(32)
	require.NoError(t, err)

	jwe, err := jose.Encrypt(jose.EncryptInput{
		Plaintext:       []byte("hello"),
		ProtectedHeader: jose.Header{"alg": jose.AlgDir, "enc": jose.EncA256GCM},
		Key:             key,
	})
	require.NoError(t, err)

	jwe.Ciphertext = jwe.Ciphertext + "AA"

	_, err = jose.Decrypt(jose.DecryptInput{JWE: jwe, Key: key})
	require.Error(t, err)
	var joseErr *jose.Error
	require.True(t, errors.As(err, &joseErr))
	assert.Equal(t, jose.Decrypt, joseErr.Kind)
}

func TestDecrypt_MissingEncIsInvalidJwe(t *testing.T) {
	key, err := crypto.RandomBytes(32)
	require.NoError(t, err)

	jwe, err := jose.Encrypt(jose.EncryptInput{
		Plaintext:       []byte("hello"),
		ProtectedHeader: jose.Header{"alg": jose.AlgDir, "enc": jose.EncA256GCM},
		Key:             key,
	})
	require.NoError(t, err)

	raw, encErr := json.Marshal(jose.Header{"alg": jose.AlgDir})
	require.NoError(t, encErr)
	jwe.Protected = base64.RawURLEncoding.EncodeToString(raw)

	_, err = jose.Decrypt(jose.DecryptInput{JWE: jwe, Key: key})
	require.Error(t, err)
	var joseErr *jose.Error
	require.True(t, errors.As(err, &joseErr))
	assert.Equal(t, jose.InvalidJwe, joseErr.Kind)
}

func TestCompactRoundTrip(t *testing.T) {
	key, err := crypto.RandomBytes(32)
	require.NoError(t, err)

	plaintext := []byte("compact payload")
	compact, err := jose.EncryptCompact(plaintext, jose.Header{"alg": jose.AlgDir, "enc": jose.EncA128GCM}, key)
	require.NoError(t, err)
	assert.Equal(t, 4, countDots(compact))

	out, err := jose.DecryptCompact(compact, key)
	require.NoError(t, err)
	assert.Equal(t, plaintext, out.Plaintext)
}

func TestDecryptCompact_MalformedSegmentCount(t *testing.T) {
	_, err := jose.DecryptCompact("a.b.c", []byte("0123456789012345"))
	require.Error(t, err)
	var joseErr *jose.Error
	require.True(t, errors.As(err, &joseErr))
	assert.Equal(t, jose.InvalidJwe, joseErr.Kind)
}

func countDots(s string) int {
	n := 0
	for _, r := range s {
		if r == '.' {
			n++
		}
	}
	return n
}
