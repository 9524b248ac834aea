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

package dht_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TBD54566975/web5-go/dids"
	diddht "github.com/TBD54566975/web5-go/dids/methods/dht"
	"github.com/TBD54566975/web5-go/kms"
)

func TestMethod_CreatePublishesAndResolves(t *testing.T) {
	transport := diddht.NewMemoryTransport()
	method := diddht.New(transport)
	backend := kms.NewMemoryBackend()

	bearer, err := method.Create(backend, nil)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(bearer.URI, "did:dht:"))
	assert.Equal(t, true, bearer.Metadata["published"])

	result := method.Resolve(bearer.URI, nil)
	require.Empty(t, result.ResolutionMetadata.Error)
	require.Len(t, result.Document.VerificationMethod, 1)
	assert.Equal(t, bearer.URI, result.Document.ID)
}

func TestMethod_CreateWithoutPublishThenResolveNotFound(t *testing.T) {
	transport := diddht.NewMemoryTransport()
	method := diddht.New(transport)
	backend := kms.NewMemoryBackend()

	bearer, err := method.Create(backend, dids.CreateOptions{"publish": false})
	require.NoError(t, err)
	assert.Equal(t, false, bearer.Metadata["published"])

	result := method.Resolve(bearer.URI, nil)
	assert.Equal(t, dids.ErrNotFound, result.ResolutionMetadata.Error)
}

func TestMethod_ResolveNoTransportConfigured(t *testing.T) {
	method := diddht.New(nil)
	result := method.Resolve("did:dht:"+strings.Repeat("a", 10), nil)
	assert.Equal(t, dids.ErrNotFound, result.ResolutionMetadata.Error)
}

func TestMethod_ResolveWrongMethod(t *testing.T) {
	method := diddht.New(diddht.NewMemoryTransport())
	result := method.Resolve("did:jwk:abc", nil)
	assert.Equal(t, dids.ErrInvalidDid, result.ResolutionMetadata.Error)
}
