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

package dids

import "github.com/TBD54566975/web5-go/kms"

// Resolution error codes, per §4.4.
const (
	ErrInvalidDid         = "InvalidDid"
	ErrNotFound           = "NotFound"
	ErrMethodNotSupported = "MethodNotSupported"
	ErrNetworkError       = "NetworkError"
)

// CreateOptions carries method-specific creation parameters (e.g. the key
// algorithm, or whether to publish to a DHT).
type CreateOptions map[string]any

// Method is the contract every DID method implementation satisfies.
type Method interface {
	// Name returns the method name this implementation handles, e.g. "jwk".
	Name() string

	// Create generates (and, for publishable methods, registers) a new DID,
	// returning a BearerDid bound to keyManager.
	Create(keyManager kms.Backend, opts CreateOptions) (*BearerDid, error)

	// Resolve fetches or synthesizes the DID document for uri.
	Resolve(uri string, opts map[string]any) ResolutionResult

	// GetSigningMethod selects the verification method to sign with from
	// doc, given an optional explicit method id.
	GetSigningMethod(doc *Document, methodID string) (*VerificationMethod, error)
}
