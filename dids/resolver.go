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

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/TBD54566975/web5-go/cache"
	"github.com/TBD54566975/web5-go/internal/measure"
)

// Resolver is the universal DID resolver: a method registry plus a
// resolution-result cache.
type Resolver struct {
	methods map[string]Method
	cache   cache.Cache
}

// NewResolver builds a Resolver over the given methods, using c for
// resolution-result caching. A nil cache disables caching.
func NewResolver(c cache.Cache, methods ...Method) *Resolver {
	m := make(map[string]Method, len(methods))
	for _, method := range methods {
		m[method.Name()] = method
	}
	return &Resolver{methods: m, cache: c}
}

// Resolve implements §4.4's resolve algorithm: parse, method lookup, cache
// check, delegate, cache store.
func (r *Resolver) Resolve(uri string) ResolutionResult {
	defer measure.ExecTime("Resolver.Resolve")()

	parsed, ok := Parse(uri)
	if !ok {
		log.Debug().Str("uri", uri).Msg("did resolution: invalid did")
		return ResolutionResult{ResolutionMetadata: ResolutionMetadata{Error: ErrInvalidDid}}
	}

	method, ok := r.methods[parsed.Method]
	if !ok {
		log.Debug().Str("method", parsed.Method).Msg("did resolution: unsupported method")
		return ResolutionResult{ResolutionMetadata: ResolutionMetadata{Error: ErrMethodNotSupported}}
	}

	if r.cache != nil {
		if cached, hit, _ := r.cache.Get(parsed.URI); hit {
			if result, ok := cached.(ResolutionResult); ok {
				log.Debug().Str("uri", parsed.URI).Msg("did resolution: cache hit")
				return result
			}
		}
	}

	result := method.Resolve(parsed.URI, nil)
	if result.ResolutionMetadata.Error != "" {
		log.Warn().Str("uri", parsed.URI).Str("error", result.ResolutionMetadata.Error).Msg("did resolution failed")
	} else if r.cache != nil {
		_ = r.cache.Set(parsed.URI, result, 0)
	}
	return result
}

// Dereference resolves the base DID for didURL and selects the fragment
// (verification method or service) named by it, per §4.4's union-set
// matching rule. With no fragment, the whole document is returned.
func (r *Resolver) Dereference(didURL string) (any, error) {
	parsed, ok := Parse(didURL)
	if !ok {
		return nil, &ResolutionError{Code: ErrInvalidDid}
	}

	result := r.Resolve(parsed.URI)
	if result.ResolutionMetadata.Error != "" {
		return nil, &ResolutionError{Code: result.ResolutionMetadata.Error}
	}
	if parsed.Fragment == "" {
		return result.Document, nil
	}

	candidates := []string{didURL, "#" + parsed.Fragment, parsed.Fragment}
	for i := range result.Document.VerificationMethod {
		vm := &result.Document.VerificationMethod[i]
		if containsAny(vm.ID, candidates) {
			return vm, nil
		}
	}
	for i := range result.Document.Service {
		svc := &result.Document.Service[i]
		if containsAny(svc.ID, candidates) {
			return svc, nil
		}
	}
	return nil, &ResolutionError{Code: ErrNotFound}
}

func containsAny(id string, candidates []string) bool {
	for _, c := range candidates {
		if id == c || strings.HasSuffix(id, c) {
			return true
		}
	}
	return false
}

// ResolutionError wraps one of the named resolution error codes.
type ResolutionError struct {
	Code string
}

func (e *ResolutionError) Error() string { return "dids: " + e.Code }
