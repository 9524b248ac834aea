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

// Package crypto holds the pure, byte-oriented cryptographic primitives the
// rest of the module is built on: hashing, key derivation, signing and
// authenticated encryption. Nothing in this package knows about JWKs, DIDs
// or records — it only deals in raw bytes.
package crypto

import "errors"

// Kind enumerates the taxonomy of failures a crypto primitive can report.
type Kind int

const (
	UnsupportedAlgorithm Kind = iota
	InvalidKey
	InvalidInput
	OperationFailed
)

func (k Kind) String() string {
	switch k {
	case UnsupportedAlgorithm:
		return "UnsupportedAlgorithm"
	case InvalidKey:
		return "InvalidKey"
	case InvalidInput:
		return "InvalidInput"
	case OperationFailed:
		return "OperationFailed"
	default:
		return "Unknown"
	}
}

// Error is the error type every function in this package returns.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Op + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Op
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

var (
	errEmptyInput         = errors.New("empty input")
	errHKDFLengthTooLarge = errors.New("requested length exceeds 255 * hash output length")
	errInvalidNonceLength = errors.New("invalid nonce length for cipher")
)
