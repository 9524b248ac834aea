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
	"golang.org/x/crypto/curve25519"
)

// X25519GenerateKey generates a fresh X25519 key pair.
func X25519GenerateKey() (pub, priv []byte, err error) {
	priv, genErr := RandomBytes(curve25519.ScalarSize)
	if genErr != nil {
		return nil, nil, newErr(OperationFailed, "X25519GenerateKey", genErr)
	}
	pub, err = curve25519.X25519(priv, curve25519.Basepoint)
	if err != nil {
		return nil, nil, newErr(OperationFailed, "X25519GenerateKey", err)
	}
	return pub, priv, nil
}

// X25519SharedSecret computes the ECDH shared secret between a local private
// scalar and a remote public key.
func X25519SharedSecret(priv, remotePub []byte) ([]byte, error) {
	if len(priv) != curve25519.ScalarSize || len(remotePub) != curve25519.PointSize {
		return nil, newErr(InvalidKey, "X25519SharedSecret", nil)
	}
	shared, err := curve25519.X25519(priv, remotePub)
	if err != nil {
		return nil, newErr(OperationFailed, "X25519SharedSecret", err)
	}
	return shared, nil
}
