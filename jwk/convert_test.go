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

package jwk_test

import (
	"crypto/ed25519"
	"testing"

	"github.com/TBD54566975/web5-go/crypto"
	. "github.com/TBD54566975/web5-go/jwk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEd25519_JWKRoundTrip(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	privJWK := FromEd25519PrivateKey(priv)
	assert.True(t, privJWK.IsOKPPrivate())

	gotPub, err := ToEd25519PublicKey(privJWK.PublicOnly())
	require.NoError(t, err)
	assert.Equal(t, pub, gotPub)

	gotPriv, err := ToEd25519PrivateKey(privJWK)
	require.NoError(t, err)
	assert.Equal(t, priv, gotPriv)
}

func TestSecp256k1_JWKRoundTrip(t *testing.T) {
	priv, err := crypto.Secp256k1GenerateKey()
	require.NoError(t, err)

	privJWK := FromSecp256k1PrivateKey(priv)
	assert.Equal(t, KtyEC, privJWK.Kty)
	assert.Equal(t, CrvSecp256k1, privJWK.Crv)

	gotPriv, err := ToSecp256k1PrivateKey(privJWK)
	require.NoError(t, err)
	assert.Equal(t, priv.Serialize(), gotPriv.Serialize())

	gotPub, err := ToSecp256k1PublicKey(privJWK.PublicOnly())
	require.NoError(t, err)
	assert.True(t, priv.PubKey().IsEqual(gotPub))
}

func TestX25519_JWK(t *testing.T) {
	pub, priv, err := crypto.X25519GenerateKey()
	require.NoError(t, err)

	j := FromX25519PrivateKey(pub, priv)
	assert.Equal(t, CrvX25519, j.Crv)
	assert.NotEmpty(t, j.D)
}
