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

package kms_test

import (
	"testing"

	. "github.com/TBD54566975/web5-go/kms"
	"github.com/TBD54566975/web5-go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordBackend_GenerateSignVerifyRoundTrip(t *testing.T) {
	backend := NewRecordBackend(storage.NewMemorySubstrate(), "did:jwk:owner")

	uri, err := backend.Generate(AlgEd25519)
	require.NoError(t, err)

	pub, err := backend.GetPublicKey(uri)
	require.NoError(t, err)

	msg := []byte("payload")
	sig, err := backend.Sign(uri, msg)
	require.NoError(t, err)

	ok, err := Verify(pub, msg, sig)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRecordBackend_ExportGetPublicNotFound(t *testing.T) {
	backend := NewRecordBackend(storage.NewMemorySubstrate(), "did:jwk:owner")

	_, err := backend.GetPublicKey("urn:jwk:missing")
	var kerr *Error
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, NotFound, kerr.Kind)
}
