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

package rpc_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TBD54566975/web5-go/rpc"
)

func TestHTTPTransport_CallInlineResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqHeader := r.Header.Get(rpc.DwnRequestHeader)
		require.NotEmpty(t, reqHeader)
		w.Write([]byte(`{"jsonrpc":"2.0","id":"1","result":{"ok":true}}`))
	}))
	defer server.Close()

	transport := rpc.NewHTTPTransport(server.URL)
	resp, body, err := transport.Call(context.Background(), rpc.NewRequest("1", "dwn.processMessage", nil))
	require.NoError(t, err)
	require.NotNil(t, body)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Result))
}

func TestHTTPTransport_CallWithResponseHeaderAndStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(rpc.DwnResponseHeader, `{"jsonrpc":"2.0","id":"1","result":{"status":202}}`)
		w.Write([]byte("record bytes"))
	}))
	defer server.Close()

	transport := rpc.NewHTTPTransport(server.URL)
	resp, body, err := transport.Call(context.Background(), rpc.NewRequest("1", "dwn.processMessage", nil))
	require.NoError(t, err)
	defer body.Close()
	assert.JSONEq(t, `{"status":202}`, string(resp.Result))
}

func TestHTTPTransport_FetchInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/info", r.URL.Path)
		w.Write([]byte(`{"registrationRequirements":[],"maxFileSize":1024,"webSocketSupport":true}`))
	}))
	defer server.Close()

	transport := rpc.NewHTTPTransport(server.URL)
	info, err := transport.FetchInfo(context.Background())
	require.NoError(t, err)
	assert.True(t, info.WebSocketSupport)
	assert.EqualValues(t, 1024, info.MaxFileSize)
}
