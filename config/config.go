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

// Package config loads agent configuration with koanf, the way the
// teacher's sdk/cmdbase package configures MetaLocker: a YAML file layered
// under environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
)

// EnvPrefix is the prefix environment variables must carry to override a
// config value. Section nesting uses a double underscore, e.g.
// WEB5_RPC__HTTP_TIMEOUT overrides rpc.http_timeout.
const EnvPrefix = "WEB5_"

// Config is the agent's resolved configuration: KMS backend selection,
// cache TTLs and sizes, wallet-connect timing, and JSON-RPC transport
// timeouts, per SPEC_FULL.md §A.
type Config struct {
	KMS struct {
		// Backend names the key-management backend: "memory" or "record"
		// (storage-backed; see kms.RecordBackend).
		Backend string `koanf:"backend"`
	} `koanf:"kms"`

	Resolver struct {
		CacheTTL time.Duration `koanf:"cache_ttl"`
	} `koanf:"resolver"`

	Store struct {
		IndexCacheTTL  time.Duration `koanf:"index_cache_ttl"`
		ValueCacheTTL  time.Duration `koanf:"value_cache_ttl"`
		IndexCacheSize int           `koanf:"index_cache_size"`
	} `koanf:"store"`

	Connect struct {
		PollingInterval time.Duration `koanf:"polling_interval"`
		Deadline        time.Duration `koanf:"deadline"`
	} `koanf:"connect"`

	RPC struct {
		HTTPTimeout      time.Duration `koanf:"http_timeout"`
		WebSocketTimeout time.Duration `koanf:"websocket_timeout"`
	} `koanf:"rpc"`
}

// defaults mirrors the default values applied elsewhere in the module
// (cache.DefaultTTL, connect.Config.withDefaults, rpc's transport
// timeouts) so a Config loaded from an empty or partial file still
// produces a fully usable agent.
func defaults() Config {
	var c Config
	c.KMS.Backend = "memory"
	c.Resolver.CacheTTL = 15 * time.Minute
	c.Store.IndexCacheTTL = 2 * time.Hour
	c.Store.ValueCacheTTL = 15 * time.Minute
	c.Store.IndexCacheSize = 1000
	c.Connect.PollingInterval = time.Second
	c.Connect.Deadline = 5 * time.Minute
	c.RPC.HTTPTimeout = 30 * time.Second
	c.RPC.WebSocketTimeout = 3 * time.Second
	return c
}

// Load reads configuration from the YAML file at path, then layers
// WEB5_-prefixed environment variables on top, the same two-source
// layering cmd/lockerd/main.go applies (file.Provider + yaml.Parser),
// extended with an env.Provider override layer. A missing file is not an
// error: Load still returns Config defaults with any environment
// overrides applied, so an agent can run from environment alone.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	def := defaults()
	if err := k.Load(structs.Provider(def, "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("config: loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: loading %s: %w", path, err)
		}
	}

	// koanf's path delimiter is ".", but env var names can't use ".", and a
	// single "_" is already part of multi-word keys like http_timeout. So
	// section nesting uses "__" (WEB5_RPC__HTTP_TIMEOUT -> rpc.http_timeout)
	// while a lone "_" stays put.
	envKeyReplacer := func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKeyReplacer), nil); err != nil {
		return Config{}, fmt.Errorf("config: loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}
