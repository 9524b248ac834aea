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

import "github.com/TBD54566975/web5-go/jwk"

// VerificationMethod is a DID Core verification method entry, keyed by a
// JWK rather than a multibase-encoded key, per this module's key model.
type VerificationMethod struct {
	ID           string  `json:"id"`
	Type         string  `json:"type"`
	Controller   string  `json:"controller"`
	PublicKeyJwk jwk.JWK `json:"publicKeyJwk"`
}

// Service is a DID Core service entry.
type Service struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	ServiceEndpoint string `json:"serviceEndpoint"`
}

// Document is a DID document: the subset of DID Core this module needs to
// resolve verification methods and services.
type Document struct {
	Context              any                  `json:"@context,omitempty"`
	ID                   string               `json:"id"`
	VerificationMethod   []VerificationMethod `json:"verificationMethod,omitempty"`
	Authentication       []string             `json:"authentication,omitempty"`
	AssertionMethod      []string             `json:"assertionMethod,omitempty"`
	KeyAgreement         []string             `json:"keyAgreement,omitempty"`
	CapabilityInvocation []string             `json:"capabilityInvocation,omitempty"`
	CapabilityDelegation []string             `json:"capabilityDelegation,omitempty"`
	Service              []Service            `json:"service,omitempty"`
}

// ResolutionMetadata carries the error, if any, from a resolve attempt.
type ResolutionMetadata struct {
	Error string `json:"error,omitempty"`
}

// ResolutionResult is what Method.Resolve and Resolver.Resolve return.
type ResolutionResult struct {
	Document           *Document          `json:"didDocument,omitempty"`
	ResolutionMetadata ResolutionMetadata `json:"didResolutionMetadata"`
}

// FindVerificationMethod returns the verification method with the given
// method id (matched against its bare fragment, "#fragment", or the full
// did_url), or the first entry if methodID is empty.
func (d *Document) FindVerificationMethod(methodID string) (*VerificationMethod, bool) {
	if d == nil {
		return nil, false
	}
	if methodID == "" {
		if len(d.VerificationMethod) == 0 {
			return nil, false
		}
		return &d.VerificationMethod[0], true
	}
	for i := range d.VerificationMethod {
		vm := &d.VerificationMethod[i]
		if vm.ID == methodID || vm.ID == "#"+methodID || "#"+vm.ID == methodID {
			return vm, true
		}
		if frag, ok := fragmentOf(vm.ID); ok && (frag == methodID || "#"+frag == methodID) {
			return vm, true
		}
	}
	return nil, false
}

func fragmentOf(id string) (string, bool) {
	for i := len(id) - 1; i >= 0; i-- {
		if id[i] == '#' {
			return id[i+1:], true
		}
	}
	return "", false
}
