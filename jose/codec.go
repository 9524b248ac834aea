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

import "github.com/TBD54566975/web5-go/internal/jsonw"

func encodeHeader(h Header) (string, error) {
	raw, err := jsonw.Marshal(h)
	if err != nil {
		return "", err
	}
	return b64(raw), nil
}

func decodeHeader(encoded string) (Header, error) {
	raw, err := b64Decode(encoded)
	if err != nil {
		return nil, err
	}
	var h Header
	if err := jsonw.Unmarshal(raw, &h); err != nil {
		return nil, err
	}
	return h, nil
}
