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

// Package dids implements DID URL parsing, DID documents, the method
// registry and universal resolver, and the BearerDid facade pairing a DID
// document with a key manager.
package dids

import "strings"

// ParsedDID is the result of parsing a DID URL: method, method-specific id,
// and the optional path/query/fragment components, preserved verbatim.
type ParsedDID struct {
	Method   string
	ID       string
	Path     string
	Query    string
	Fragment string
	URI      string
}

// Parse decodes did_url per DID Core syntax:
//
//	did:<method>:<method-specific-id>[/path][?query][#fragment]
//
// It returns (_, false) for anything that does not match that shape.
func Parse(didURL string) (ParsedDID, bool) {
	if !strings.HasPrefix(didURL, "did:") {
		return ParsedDID{}, false
	}
	rest := didURL[len("did:"):]

	methodEnd := strings.IndexByte(rest, ':')
	if methodEnd <= 0 {
		return ParsedDID{}, false
	}
	method := rest[:methodEnd]
	rest = rest[methodEnd+1:]
	if rest == "" {
		return ParsedDID{}, false
	}

	var fragment string
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		fragment = rest[i+1:]
		rest = rest[:i]
	}

	var query string
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		query = rest[i+1:]
		rest = rest[:i]
	}

	var path string
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		path = rest[i:]
		rest = rest[:i]
	}

	id := rest
	if id == "" {
		return ParsedDID{}, false
	}

	uri := "did:" + method + ":" + id
	return ParsedDID{
		Method:   method,
		ID:       id,
		Path:     path,
		Query:    query,
		Fragment: fragment,
		URI:      uri,
	}, true
}
