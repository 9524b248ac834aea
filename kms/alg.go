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

package kms

import (
	"github.com/TBD54566975/web5-go/crypto"
	"github.com/TBD54566975/web5-go/internal/zero"
	"github.com/TBD54566975/web5-go/jwk"
)

// generateJWK creates a fresh private JWK for alg. The raw private key
// bytes generated along the way are only needed long enough to encode them
// into the JWK's base64url "d" member; they are wiped once that copy exists.
func generateJWK(alg Algorithm) (jwk.JWK, error) {
	switch alg {
	case AlgEd25519:
		_, priv, err := crypto.Ed25519GenerateKey()
		if err != nil {
			return jwk.JWK{}, newErr(BadKey, "generate", "", err)
		}
		key := jwk.FromEd25519PrivateKey(priv)
		zero.Bytes(priv)
		return key, nil
	case AlgSecp256k1:
		priv, err := crypto.Secp256k1GenerateKey()
		if err != nil {
			return jwk.JWK{}, newErr(BadKey, "generate", "", err)
		}
		return jwk.FromSecp256k1PrivateKey(priv), nil
	case AlgX25519:
		pub, priv, err := crypto.X25519GenerateKey()
		if err != nil {
			return jwk.JWK{}, newErr(BadKey, "generate", "", err)
		}
		key := jwk.FromX25519PrivateKey(pub, priv)
		zero.Bytes(priv)
		return key, nil
	default:
		return jwk.JWK{}, newErr(UnsupportedAlgorithm, "generate", "", nil)
	}
}

// signWithJWK signs data with the private key material in key.
func signWithJWK(key jwk.JWK, data []byte) ([]byte, error) {
	switch {
	case key.Kty == jwk.KtyOKP && key.Crv == jwk.CrvEd25519:
		priv, err := jwk.ToEd25519PrivateKey(key)
		if err != nil {
			return nil, newErr(BadKey, "sign", "", err)
		}
		sig, err := crypto.Ed25519Sign(priv, data)
		zero.Bytes(priv)
		if err != nil {
			return nil, newErr(BadKey, "sign", "", err)
		}
		return sig, nil
	case key.Kty == jwk.KtyEC && key.Crv == jwk.CrvSecp256k1:
		priv, err := jwk.ToSecp256k1PrivateKey(key)
		if err != nil {
			return nil, newErr(BadKey, "sign", "", err)
		}
		digest := crypto.SHA256(data)
		sig, err := crypto.Secp256k1Sign(priv, digest)
		if err != nil {
			return nil, newErr(BadKey, "sign", "", err)
		}
		return sig, nil
	default:
		return nil, newErr(UnsupportedAlgorithm, "sign", "", nil)
	}
}

// verify checks sig over data against the public JWK pub.
func verify(pub jwk.JWK, data, sig []byte) (bool, error) {
	switch {
	case pub.Kty == jwk.KtyOKP && pub.Crv == jwk.CrvEd25519:
		pk, err := jwk.ToEd25519PublicKey(pub)
		if err != nil {
			return false, newErr(BadKey, "verify", "", err)
		}
		return crypto.Ed25519Verify(pk, data, sig), nil
	case pub.Kty == jwk.KtyEC && pub.Crv == jwk.CrvSecp256k1:
		pk, err := jwk.ToSecp256k1PublicKey(pub)
		if err != nil {
			return false, newErr(BadKey, "verify", "", err)
		}
		digest := crypto.SHA256(data)
		return crypto.Secp256k1Verify(pk, digest, sig), nil
	default:
		return false, newErr(UnsupportedAlgorithm, "verify", "", nil)
	}
}

// digest hashes data with the named algorithm.
func digest(alg string, data []byte) ([]byte, error) {
	switch alg {
	case "sha256", "SHA-256":
		return crypto.SHA256(data), nil
	case "sha384", "SHA-384":
		return crypto.SHA384(data), nil
	case "sha512", "SHA-512":
		return crypto.SHA512(data), nil
	default:
		return nil, newErr(UnsupportedAlgorithm, "digest", "", nil)
	}
}
