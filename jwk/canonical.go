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
	"fmt"
	"strings"
)

// requiredMembers reports the RFC 7638 §3.2-3.3 required members for a key
// type, in their canonical (lexicographic) order.
func requiredMembers(kty string) ([]string, error) {
	switch kty {
	case KtyEC:
		return []string{"crv", "kty", "x", "y"}, nil
	case KtyOKP:
		return []string{"crv", "kty", "x"}, nil
	case KtyOct:
		return []string{"k", "kty"}, nil
	case KtyRSA:
		return []string{"e", "kty", "n"}, nil
	default:
		return nil, ErrUnsupportedKty
	}
}

func (k JWK) member(name string) (string, bool) {
	switch name {
	case "crv":
		return k.Crv, k.Crv != ""
	case "kty":
		return k.Kty, k.Kty != ""
	case "x":
		return k.X, k.X != ""
	case "y":
		return k.Y, k.Y != ""
	case "k":
		return k.K, k.K != ""
	case "e":
		return k.E, k.E != ""
	case "n":
		return k.N, k.N != ""
	default:
		return "", false
	}
}

// Canonicalize returns the canonical JSON encoding of k's required members,
// per RFC 7638 §3.3: lexicographically ordered keys, no insignificant
// whitespace, UTF-8 encoding with no escaping beyond what JSON requires.
// Because the required member names for every supported kty are already in
// lexicographic order, the canonical form can be built directly without a
// generic JSON canonicalizer.
func (k JWK) Canonicalize() ([]byte, error) {
	members, err := requiredMembers(k.Kty)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteByte('{')
	for i, name := range members {
		val, ok := k.member(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q for kty %q", ErrMissingMember, name, k.Kty)
		}
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%q:%q", name, val)
	}
	sb.WriteByte('}')
	return []byte(sb.String()), nil
}
