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
	"encoding/asn1"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// Secp256k1GenerateKey generates a fresh secp256k1 key pair.
func Secp256k1GenerateKey() (*btcec.PrivateKey, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, newErr(OperationFailed, "Secp256k1GenerateKey", err)
	}
	return priv, nil
}

// Secp256k1Sign produces a deterministic (RFC 6979) signature over a digest,
// encoded as the raw, algorithm-canonical 64-byte r||s form rather than DER,
// per spec §4.3.
func Secp256k1Sign(priv *btcec.PrivateKey, digest []byte) ([]byte, error) {
	if priv == nil {
		return nil, newErr(InvalidKey, "Secp256k1Sign", nil)
	}
	sig := ecdsa.Sign(priv, digest)
	raw, err := derToRawRS(sig.Serialize())
	if err != nil {
		return nil, newErr(OperationFailed, "Secp256k1Sign", err)
	}
	return raw, nil
}

// Secp256k1Verify reports whether rawSig (64-byte r||s) is a valid
// secp256k1/ECDSA signature over digest under pub. Never errors for a bad
// signature; any shape mismatch or verification failure returns false.
func Secp256k1Verify(pub *btcec.PublicKey, digest, rawSig []byte) bool {
	if pub == nil || len(rawSig) != 64 {
		return false
	}
	der, err := rawRSToDER(rawSig)
	if err != nil {
		return false
	}
	sig, err := ecdsa.ParseDERSignature(der)
	if err != nil {
		return false
	}
	return sig.Verify(digest, pub)
}

type derSignature struct {
	R, S *big.Int
}

func derToRawRS(der []byte) ([]byte, error) {
	var sig derSignature
	if _, err := asn1.Unmarshal(der, &sig); err != nil {
		return nil, err
	}
	out := make([]byte, 64)
	sig.R.FillBytes(out[0:32])
	sig.S.FillBytes(out[32:64])
	return out, nil
}

func rawRSToDER(raw []byte) ([]byte, error) {
	r := new(big.Int).SetBytes(raw[0:32])
	s := new(big.Int).SetBytes(raw[32:64])
	return asn1.Marshal(derSignature{R: r, S: s})
}
