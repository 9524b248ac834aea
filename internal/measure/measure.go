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

// Package measure provides lightweight execution-time logging, used around
// I/O-bound operations (substrate calls, rendezvous polling, resolution).
package measure

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ExecTime logs the elapsed wall time since it was called when the returned
// func runs. Typical use: `defer measure.ExecTime("store.Get")()`.
func ExecTime(name string) func() {
	start := time.Now()
	return func() {
		log.Debug().Str("func", name).Dur("dur", time.Since(start)).Msg("execution time")
	}
}
