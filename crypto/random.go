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
	"crypto/rand"
	"errors"
	"io"
)

// RandomBytes returns n cryptographically secure random bytes, read from the
// OS entropy source.
func RandomBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, newErr(InvalidInput, "RandomBytes", errors.New("n must be positive"))
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, newErr(OperationFailed, "RandomBytes", err)
	}
	return b, nil
}
