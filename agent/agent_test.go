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

package agent_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TBD54566975/web5-go/agent"
	"github.com/TBD54566975/web5-go/config"
	"github.com/TBD54566975/web5-go/dids"
	"github.com/TBD54566975/web5-go/identity"
	"github.com/TBD54566975/web5-go/identity/permissions"
	"github.com/TBD54566975/web5-go/kms"
	"github.com/TBD54566975/web5-go/storage"
)

func newTestAgent(t *testing.T) *agent.Agent {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return agent.New(cfg, storage.NewMemorySubstrate())
}

func TestAgent_CreateAndResolveDID(t *testing.T) {
	a := newTestAgent(t)

	bearer, err := a.CreateDID("jwk", dids.CreateOptions{"algorithm": kms.AlgEd25519})
	require.NoError(t, err)
	require.NotEmpty(t, bearer.URI)

	result := a.ResolveDID(bearer.URI)
	require.Empty(t, result.ResolutionMetadata.Error)
	assert.Equal(t, bearer.URI, result.Document.ID)
}

func TestAgent_CreateDID_UnknownMethod(t *testing.T) {
	a := newTestAgent(t)

	_, err := a.CreateDID("nope", nil)
	require.Error(t, err)
}

func TestAgent_WriteReadQueryDeleteRecord(t *testing.T) {
	a := newTestAgent(t)
	const schema = "https://example.com/schemas/note"

	tenant := "did:jwk:tenant"
	id, err := a.WriteRecord(schema, tenant, "note-1", map[string]string{"body": "hi"}, storage.DefaultSetOptions())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, ok, err := a.ReadRecord(schema, tenant, "note-1", storage.GetOptions{UseCache: true})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "hi", got["body"])

	all, err := a.QueryRecords(schema, tenant)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	deleted, err := a.DeleteRecord(schema, tenant, "note-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, ok, err = a.ReadRecord(schema, tenant, "note-1", storage.GetOptions{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAgent_SubscribeWithoutTransportFails(t *testing.T) {
	a := newTestAgent(t)
	_, err := a.SubscribeRecords(context.Background(), "records", nil)
	require.ErrorIs(t, err, agent.ErrSubscribeUnsupported)
}

func TestAgent_GrantRequestRevokeRoundTrip(t *testing.T) {
	a := newTestAgent(t)

	grantorDID, err := a.CreateDID("jwk", dids.CreateOptions{"algorithm": kms.AlgEd25519})
	require.NoError(t, err)
	granteeDID, err := a.CreateDID("jwk", dids.CreateOptions{"algorithm": kms.AlgEd25519})
	require.NoError(t, err)

	_, err = a.Identities().Create("", identity.Identity{URI: grantorDID.URI, Name: "alice"})
	require.NoError(t, err)

	req, err := a.RequestPermission(grantorDID.URI, permissions.Request{
		Grantee: granteeDID.URI,
		Scope: permissions.Scope{
			Interface: permissions.InterfaceRecords,
			Method:    permissions.MethodRead,
			Protocol:  "https://example.com/protocols/notes",
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, req.ID)

	grant, err := a.GrantPermission(grantorDID.URI, permissions.Grant{
		Grantor:     grantorDID.URI,
		Grantee:     granteeDID.URI,
		RequestID:   req.ID,
		Scope:       req.Scope,
		DateExpires: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	grants, err := a.FetchGrants(permissions.GrantFilter{Target: grantorDID.URI, Grantor: grantorDID.URI})
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, grant.ID, grants[0].ID)

	revoked, err := a.IsGrantRevoked(grantorDID.URI, grant.ID)
	require.NoError(t, err)
	assert.False(t, revoked)

	_, err = a.RevokePermission(grantorDID.URI, grant.ID, "no longer needed")
	require.NoError(t, err)

	revoked, err = a.IsGrantRevoked(grantorDID.URI, grant.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}
