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

package rpc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/TBD54566975/web5-go/internal/jsonw"
	"github.com/TBD54566975/web5-go/internal/measure"
)

// DwnRequestHeader and DwnResponseHeader name the headers the record-node
// HTTP transport uses to carry a JSON-RPC envelope alongside a streamed
// body, per §4.10.
const (
	DwnRequestHeader  = "dwn-request"
	DwnResponseHeader = "dwn-response"
)

// HTTPTransport sends single JSON-RPC request/response pairs to a
// record-node HTTP endpoint.
type HTTPTransport struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewHTTPTransport returns a transport with a default 30s client timeout,
// per §5's per-call RPC timeout.
func NewHTTPTransport(baseURL string) *HTTPTransport {
	return &HTTPTransport{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Call sends req and returns its JSON-RPC response. If the record-node
// replies with a dwn-response header, the response envelope is taken from
// there and the HTTP body is returned as a raw data stream; otherwise the
// HTTP body itself is the JSON-RPC response.
func (t *HTTPTransport) Call(ctx context.Context, req Request) (*Response, io.ReadCloser, error) {
	defer measure.ExecTime("HTTPTransport.Call")()

	encoded, err := jsonw.Marshal(req)
	if err != nil {
		return nil, nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.BaseURL, nil)
	if err != nil {
		return nil, nil, err
	}
	httpReq.Header.Set(DwnRequestHeader, string(encoded))

	resp, err := t.HTTPClient.Do(httpReq)
	if err != nil {
		log.Warn().Err(err).Str("method", req.Method).Str("url", t.BaseURL).Msg("rpc: http call failed")
		return nil, nil, err
	}
	log.Debug().Str("method", req.Method).Int("status", resp.StatusCode).Msg("rpc: http call complete")

	if header := resp.Header.Get(DwnResponseHeader); header != "" {
		var rpcResp Response
		if err := jsonw.Unmarshal([]byte(header), &rpcResp); err != nil {
			resp.Body.Close()
			return nil, nil, err
		}
		return &rpcResp, resp.Body, nil
	}

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	var rpcResp Response
	if err := jsonw.Unmarshal(body, &rpcResp); err != nil {
		return nil, nil, fmt.Errorf("rpc: decoding http response: %w", err)
	}
	return &rpcResp, io.NopCloser(bytes.NewReader(nil)), nil
}

// Info is the record-node's GET /info payload, cached per-URL by the
// caller.
type Info struct {
	RegistrationRequirements []string `json:"registrationRequirements"`
	MaxFileSize              int64    `json:"maxFileSize"`
	WebSocketSupport         bool     `json:"webSocketSupport"`
}

// FetchInfo retrieves GET /info from the transport's base URL.
func (t *HTTPTransport) FetchInfo(ctx context.Context) (*Info, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, t.BaseURL+"/info", nil)
	if err != nil {
		return nil, err
	}
	resp, err := t.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var info Info
	if err := jsonw.Unmarshal(body, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
