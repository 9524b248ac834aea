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

package agent

import "github.com/TBD54566975/web5-go/identity/permissions"

// GrantPermission issues grant under tenant, per §4.7's grant-creation
// steps.
func (a *Agent) GrantPermission(tenant string, grant permissions.Grant) (*permissions.Grant, error) {
	return a.permissions.CreateGrant(tenant, grant)
}

// RequestPermission writes req under tenant.
func (a *Agent) RequestPermission(tenant string, req permissions.Request) (*permissions.Request, error) {
	return a.permissions.CreateRequest(tenant, req)
}

// RevokePermission writes a revocation child record of parentGrantID under
// tenant.
func (a *Agent) RevokePermission(tenant, parentGrantID, description string) (*permissions.Revocation, error) {
	return a.permissions.CreateRevocation(tenant, parentGrantID, description)
}

// FetchGrants queries grants matching filter.
func (a *Agent) FetchGrants(filter permissions.GrantFilter) ([]permissions.Grant, error) {
	return a.permissions.FetchGrants(filter)
}

// FetchRequests queries requests matching filter.
func (a *Agent) FetchRequests(filter permissions.RequestFilter) ([]permissions.Request, error) {
	return a.permissions.FetchRequests(filter)
}

// IsGrantRevoked reports whether grantRecordID has a revocation child
// record under tenant.
func (a *Agent) IsGrantRevoked(tenant, grantRecordID string) (bool, error) {
	return a.permissions.IsGrantRevoked(tenant, grantRecordID)
}
