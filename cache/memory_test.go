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

package cache_test

import (
	"testing"
	"time"

	. "github.com/TBD54566975/web5-go/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGetRoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()

	require.NoError(t, c.Set("k", "v", 0))
	val, ok, err := c.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", val)
}

func TestMemoryCache_GetMiss(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()

	_, ok, err := c.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCache_NilKeyErrors(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()

	_, _, err := c.Get(nil)
	require.ErrorIs(t, err, ErrInvalidKey)

	require.ErrorIs(t, c.Set(nil, "v", 0), ErrInvalidKey)
	require.ErrorIs(t, c.Delete(nil), ErrInvalidKey)
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()

	require.NoError(t, c.Set("k", "v", 20*time.Millisecond))
	time.Sleep(60 * time.Millisecond)

	_, ok, err := c.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCache_DeleteAndClear(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()

	require.NoError(t, c.Set("a", 1, 0))
	require.NoError(t, c.Set("b", 2, 0))

	require.NoError(t, c.Delete("a"))
	_, ok, _ := c.Get("a")
	assert.False(t, ok)

	c.Clear()
	_, ok, _ = c.Get("b")
	assert.False(t, ok)
}
