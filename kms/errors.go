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

// Package kms provides a pluggable key management facade: keys are stored
// and addressed by their JWK key URI, with generate/import/export and
// sign/verify/digest operations. In-memory and record-backed implementations
// are registered against the same Backend interface.
package kms

import "fmt"

// Kind enumerates the taxonomy of failures a KMS backend can report.
type Kind int

const (
	NotFound Kind = iota
	UnsupportedAlgorithm
	NotExportable
	BadKey
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "NotFound"
	case UnsupportedAlgorithm:
		return "UnsupportedAlgorithm"
	case NotExportable:
		return "NotExportable"
	case BadKey:
		return "BadKey"
	default:
		return "Unknown"
	}
}

// Error is the error type every Backend operation returns.
type Error struct {
	Kind   Kind
	Op     string
	KeyURI string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("kms: %s: %s", e.Kind, e.Op)
	if e.KeyURI != "" {
		msg += " (" + e.KeyURI + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(kind Kind, op, keyURI string, err error) *Error {
	return &Error{Kind: kind, Op: op, KeyURI: keyURI, Err: err}
}
