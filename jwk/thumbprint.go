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
	"encoding/base64"

	"github.com/TBD54566975/web5-go/crypto"
)

// Thumbprint computes the RFC 7638 thumbprint of k: the base64url-encoded
// (no padding) SHA-256 digest of its canonical JSON form.
func (k JWK) Thumbprint() (string, error) {
	canonical, err := k.Canonicalize()
	if err != nil {
		return "", err
	}
	digest := crypto.SHA256(canonical)
	return base64.RawURLEncoding.EncodeToString(digest), nil
}

// KeyURI derives the urn:jwk: key URI for k, the stable identifier used to
// address this key within a KMS. It is computed from the public-only
// projection of k, so the same key URI is produced regardless of whether the
// private half is present, per the "key URI stability" invariant.
func (k JWK) KeyURI() (string, error) {
	tp, err := k.PublicOnly().Thumbprint()
	if err != nil {
		return "", err
	}
	return "urn:jwk:" + tp, nil
}
