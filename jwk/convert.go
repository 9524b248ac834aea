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

package jwk

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/TBD54566975/web5-go/internal/zero"
)

// FromEd25519PublicKey builds the public JWK for an Ed25519 verification key.
func FromEd25519PublicKey(pub ed25519.PublicKey) JWK {
	return JWK{
		Kty: KtyOKP,
		Crv: CrvEd25519,
		X:   base64.RawURLEncoding.EncodeToString(pub),
	}
}

// FromEd25519PrivateKey builds the private JWK for an Ed25519 signing key.
func FromEd25519PrivateKey(priv ed25519.PrivateKey) JWK {
	j := FromEd25519PublicKey(priv.Public().(ed25519.PublicKey))
	j.D = base64.RawURLEncoding.EncodeToString(priv.Seed())
	return j
}

// ToEd25519PublicKey extracts the Ed25519 public key material from an OKP/
// Ed25519 JWK.
func ToEd25519PublicKey(j JWK) (ed25519.PublicKey, error) {
	if j.Kty != KtyOKP || j.Crv != CrvEd25519 {
		return nil, fmt.Errorf("%w: expected OKP/Ed25519", ErrUnsupportedKty)
	}
	x, err := base64.RawURLEncoding.DecodeString(j.X)
	if err != nil {
		return nil, err
	}
	return ed25519.PublicKey(x), nil
}

// ToEd25519PrivateKey reconstructs the Ed25519 private key from its JWK seed.
func ToEd25519PrivateKey(j JWK) (ed25519.PrivateKey, error) {
	if j.Kty != KtyOKP || j.Crv != CrvEd25519 || j.D == "" {
		return nil, fmt.Errorf("%w: expected private OKP/Ed25519", ErrUnsupportedKty)
	}
	seed, err := base64.RawURLEncoding.DecodeString(j.D)
	if err != nil {
		return nil, err
	}
	priv := ed25519.NewKeyFromSeed(seed)
	zero.Bytes(seed)
	return priv, nil
}

// FromX25519PublicKey builds the public JWK for an X25519 agreement key.
func FromX25519PublicKey(pub []byte) JWK {
	return JWK{
		Kty: KtyOKP,
		Crv: CrvX25519,
		X:   base64.RawURLEncoding.EncodeToString(pub),
	}
}

// FromX25519PrivateKey builds the private JWK for an X25519 agreement key.
func FromX25519PrivateKey(pub, priv []byte) JWK {
	j := FromX25519PublicKey(pub)
	j.D = base64.RawURLEncoding.EncodeToString(priv)
	return j
}

// FromSecp256k1PublicKey builds the public JWK for a secp256k1 verification
// key, in uncompressed point coordinates.
func FromSecp256k1PublicKey(pub *btcec.PublicKey) JWK {
	x := pub.X().Bytes()
	y := pub.Y().Bytes()
	return JWK{
		Kty: KtyEC,
		Crv: CrvSecp256k1,
		X:   base64.RawURLEncoding.EncodeToString(leftPad32(x)),
		Y:   base64.RawURLEncoding.EncodeToString(leftPad32(y)),
	}
}

// FromSecp256k1PrivateKey builds the private JWK for a secp256k1 signing key.
func FromSecp256k1PrivateKey(priv *btcec.PrivateKey) JWK {
	j := FromSecp256k1PublicKey(priv.PubKey())
	j.D = base64.RawURLEncoding.EncodeToString(leftPad32(priv.Key.Bytes()[:]))
	return j
}

// ToSecp256k1PublicKey reconstructs a secp256k1 public key from its EC JWK.
func ToSecp256k1PublicKey(j JWK) (*btcec.PublicKey, error) {
	if j.Kty != KtyEC || j.Crv != CrvSecp256k1 {
		return nil, fmt.Errorf("%w: expected EC/secp256k1", ErrUnsupportedKty)
	}
	x, err := base64.RawURLEncoding.DecodeString(j.X)
	if err != nil {
		return nil, err
	}
	y, err := base64.RawURLEncoding.DecodeString(j.Y)
	if err != nil {
		return nil, err
	}
	uncompressed := append([]byte{0x04}, append(leftPad32(x), leftPad32(y)...)...)
	return btcec.ParsePubKey(uncompressed)
}

// ToSecp256k1PrivateKey reconstructs a secp256k1 private key from its EC JWK.
func ToSecp256k1PrivateKey(j JWK) (*btcec.PrivateKey, error) {
	if j.Kty != KtyEC || j.Crv != CrvSecp256k1 || j.D == "" {
		return nil, fmt.Errorf("%w: expected private EC/secp256k1", ErrUnsupportedKty)
	}
	d, err := base64.RawURLEncoding.DecodeString(j.D)
	if err != nil {
		return nil, err
	}
	priv, _ := btcec.PrivKeyFromBytes(d)
	zero.Bytes(d)
	return priv, nil
}

func leftPad32(b []byte) []byte {
	if len(b) >= 32 {
		return b[len(b)-32:]
	}
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}
