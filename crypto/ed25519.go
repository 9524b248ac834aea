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
	"crypto/ed25519"
)

// Ed25519GenerateKey generates a fresh Ed25519 key pair from the OS entropy
// source.
func Ed25519GenerateKey() (ed25519.PublicKey, ed25519.PrivateKey, error) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, nil, newErr(OperationFailed, "Ed25519GenerateKey", err)
	}
	return pub, priv, nil
}

// Ed25519Sign produces a 64-byte signature over message.
func Ed25519Sign(priv ed25519.PrivateKey, message []byte) ([]byte, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, newErr(InvalidKey, "Ed25519Sign", nil)
	}
	return ed25519.Sign(priv, message), nil
}

// Ed25519Verify reports whether sig is a valid Ed25519 signature over
// message under pub. Per spec §4.3, it never errors on a bad signature; a
// signature of the wrong length, or a verification mismatch, both yield
// false.
func Ed25519Verify(pub ed25519.PublicKey, message, sig []byte) bool {
	if len(pub) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(pub, message, sig)
}
