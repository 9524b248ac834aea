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

package connect

import "github.com/TBD54566975/web5-go/identity/permissions"

// ClientMetadata describes the requesting application, embedded in the
// authorization request object.
type ClientMetadata struct {
	Name    string `json:"name,omitempty"`
	URI     string `json:"uri,omitempty"`
	IconURI string `json:"iconUri,omitempty"`
}

// RequestObject is the OIDC-PAR-shaped authorization request object, per
// §4.9 step 2.
type RequestObject struct {
	ClientID            string                `json:"client_id"`
	Scope               string                `json:"scope,omitempty"`
	CodeChallenge       string                `json:"code_challenge"`
	CodeChallengeMethod string                `json:"code_challenge_method"`
	PermissionRequests  []permissions.Request `json:"permission_requests,omitempty"`
	RedirectURI         string                `json:"redirect_uri"`
	ClientMetadata      ClientMetadata        `json:"client_metadata,omitempty"`
	State               string                `json:"state"`
	Nonce               string                `json:"nonce"`
}

// AuthorizationResponse is what the wallet returns once the user approves
// the request: the granted permissions plus whatever DID the wallet is
// transacting as.
type AuthorizationResponse struct {
	GranteeDID string              `json:"granteeDid"`
	Grants     []permissions.Grant `json:"grants"`
	State      string              `json:"state"`
}
