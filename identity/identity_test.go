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

package identity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TBD54566975/web5-go/identity"
	"github.com/TBD54566975/web5-go/storage"
)

func TestManager_CreateGetDelete(t *testing.T) {
	mgr := identity.NewManager(storage.NewMemorySubstrate())

	did := "did:jwk:abc123"
	_, err := mgr.Create("", identity.Identity{URI: did, Name: "Alice"})
	require.NoError(t, err)

	got, ok, err := mgr.Get("", did)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Alice", got.Name)

	deleted, err := mgr.Delete("", did)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, ok, err = mgr.Get("", did)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManager_List(t *testing.T) {
	substrate := storage.NewMemorySubstrate()
	mgr := identity.NewManager(substrate)

	tenant := "did:jwk:owner"
	_, err := mgr.Create(tenant, identity.Identity{URI: "did:jwk:one", Name: "One"})
	require.NoError(t, err)
	_, err = mgr.Create(tenant, identity.Identity{URI: "did:jwk:two", Name: "Two"})
	require.NoError(t, err)

	all, err := mgr.List(tenant)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
