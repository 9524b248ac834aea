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

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TBD54566975/web5-go/config"
)

func TestLoad_DefaultsWithNoFile(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.KMS.Backend)
	assert.Equal(t, 15*time.Minute, cfg.Resolver.CacheTTL)
	assert.Equal(t, 1000, cfg.Store.IndexCacheSize)
	assert.Equal(t, time.Second, cfg.Connect.PollingInterval)
	assert.Equal(t, 5*time.Minute, cfg.Connect.Deadline)
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.KMS.Backend)
}

func TestLoad_YAMLFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.yaml")
	contents := "kms:\n  backend: record\nconnect:\n  deadline: 10m\nstore:\n  index_cache_size: 42\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "record", cfg.KMS.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Connect.Deadline)
	assert.Equal(t, 42, cfg.Store.IndexCacheSize)
	// Untouched defaults survive the partial override.
	assert.Equal(t, time.Second, cfg.Connect.PollingInterval)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.yaml")
	require.NoError(t, os.WriteFile(path, []byte("kms:\n  backend: record\n"), 0o600))

	t.Setenv("WEB5_KMS__BACKEND", "memory")
	t.Setenv("WEB5_RPC__HTTP_TIMEOUT", "45s")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.KMS.Backend)
	assert.Equal(t, 45*time.Second, cfg.RPC.HTTPTimeout)
}
