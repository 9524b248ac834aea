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

package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateEntry is returned by Set when prevent_duplicates is set
	// (the default) and an entry already exists for (tenant, id).
	ErrDuplicateEntry = errors.New("storage: duplicate entry")

	// ErrRecordMissing is returned by Get when the index names a record
	// that the substrate no longer has data for.
	ErrRecordMissing = errors.New("storage: record missing from substrate")
)

// WriteRejectedError is returned when the substrate accepts a write request
// but reports a non-202 status.
type WriteRejectedError struct {
	Status int
}

func (e *WriteRejectedError) Error() string {
	return fmt.Sprintf("storage: write rejected with status %d", e.Status)
}
