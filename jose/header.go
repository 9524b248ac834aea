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

package jose

// Content encryption algorithms supported for enc, per §4.8.
const (
	EncA256GCM = "A256GCM"
	EncA128GCM = "A128GCM"
	EncXC20P   = "XC20P"
)

// AlgDir is the only key-management algorithm this package supports: the
// provided key is used directly as the content-encryption key.
const AlgDir = "dir"

// Header is a JOSE header: alg/enc plus any caller-supplied members
// (kid, cty, typ, ...).
type Header map[string]any

func mergeHeaders(protected, unprotected, perRecipient Header) (Header, error) {
	merged := make(Header)
	for _, h := range []Header{protected, unprotected, perRecipient} {
		for k, v := range h {
			if _, dup := merged[k]; dup {
				return nil, newErr(InvalidJwe, "mergeHeaders", errDuplicateHeaderMember)
			}
			merged[k] = v
		}
	}
	return merged, nil
}

func (h Header) str(name string) (string, bool) {
	v, ok := h[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (h Header) alg() (string, error) {
	alg, ok := h.str("alg")
	if !ok || alg == "" {
		return "", newErr(InvalidJwe, "header", errMissingAlg)
	}
	return alg, nil
}

func (h Header) enc() (string, error) {
	enc, ok := h.str("enc")
	if !ok || enc == "" {
		return "", newErr(InvalidJwe, "header", errMissingEnc)
	}
	switch enc {
	case EncA256GCM, EncA128GCM, EncXC20P:
		return enc, nil
	default:
		return "", newErr(InvalidJwe, "header", errUnsupportedEnc)
	}
}

func ivLength(enc string) int {
	if enc == EncXC20P {
		return 24
	}
	return 12
}
