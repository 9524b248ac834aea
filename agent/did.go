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

import "github.com/TBD54566975/web5-go/dids"

// CreateDID creates a new DID of the given method (e.g. "jwk", "dht"),
// generating its keys into the agent's own KMS backend.
func (a *Agent) CreateDID(method string, opts dids.CreateOptions) (*dids.BearerDid, error) {
	m, err := a.method(method)
	if err != nil {
		return nil, err
	}
	return m.Create(a.keyManager, opts)
}

// ResolveDID resolves uri through the agent's cached resolver.
func (a *Agent) ResolveDID(uri string) dids.ResolutionResult {
	return a.resolver.Resolve(uri)
}

// DereferenceDID resolves the base DID in didURL and selects the fragment
// it names, per §4.4's dereference algorithm.
func (a *Agent) DereferenceDID(didURL string) (any, error) {
	return a.resolver.Dereference(didURL)
}

func (a *Agent) method(name string) (dids.Method, error) {
	m, ok := a.methods[name]
	if !ok {
		return nil, &dids.ResolutionError{Code: dids.ErrMethodNotSupported}
	}
	return m, nil
}
