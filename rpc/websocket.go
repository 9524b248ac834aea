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
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/TBD54566975/web5-go/internal/jsonw"
	"github.com/TBD54566975/web5-go/internal/measure"
)

// ErrClosed is returned by any call made after Close.
var ErrClosed = errors.New("rpc: websocket transport closed")

// Dialer opens the underlying WebSocket connection. NewWebSocketTransport
// calls it once; the transport does not redial after a read failure.
type Dialer func(ctx context.Context) (*websocket.Conn, error)

// WebSocketTransport is a JSON-RPC transport over a single WebSocket
// connection: requests are correlated by id, and subscriptions receive
// repeated notifications keyed by subscription id.
type WebSocketTransport struct {
	dial Dialer

	connMu sync.Mutex
	conn   *websocket.Conn

	pending map[string]chan Response
	subs    map[string]chan SubscriptionNotification

	nextID int64

	closed atomic.Bool
	mu     sync.Mutex
}

// NewWebSocketTransport dials dial with a default 3s connect timeout and
// starts the read loop.
func NewWebSocketTransport(dial Dialer) (*WebSocketTransport, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	conn, err := dial(ctx)
	if err != nil {
		return nil, err
	}

	t := &WebSocketTransport{
		dial:    dial,
		conn:    conn,
		pending: make(map[string]chan Response),
		subs:    make(map[string]chan SubscriptionNotification),
	}
	go t.readLoop()
	return t, nil
}

func (t *WebSocketTransport) readLoop() {
	for {
		t.connMu.Lock()
		conn := t.conn
		t.connMu.Unlock()

		_, message, err := conn.ReadMessage()
		if err != nil {
			if t.closed.Load() {
				return
			}
			log.Warn().Err(err).Msg("rpc: websocket read failed")
			continue
		}

		var asResponse Response
		if err := jsonw.Unmarshal(message, &asResponse); err == nil && asResponse.ID != nil {
			idKey := fmt.Sprint(asResponse.ID)
			t.mu.Lock()
			ch, ok := t.pending[idKey]
			if ok {
				delete(t.pending, idKey)
			}
			t.mu.Unlock()
			if ok {
				ch <- asResponse
			}
			continue
		}

		var notification SubscriptionNotification
		if err := jsonw.Unmarshal(message, &notification); err == nil && notification.SubscriptionID != "" {
			t.mu.Lock()
			ch, ok := t.subs[notification.SubscriptionID]
			t.mu.Unlock()
			if ok {
				select {
				case ch <- notification:
				default:
				}
			}
		}
	}
}

func (t *WebSocketTransport) nextRequestID() string {
	return strconv.FormatInt(atomic.AddInt64(&t.nextID, 1), 10)
}

// Call sends req and blocks for its correlated response, or until ctx is
// done (default per-request timeout is the caller's responsibility — §5
// names 30s as the default).
func (t *WebSocketTransport) Call(ctx context.Context, method string, params any) (*Response, error) {
	defer measure.ExecTime("WebSocketTransport.Call")()

	if t.closed.Load() {
		return nil, ErrClosed
	}

	id := t.nextRequestID()
	req := NewRequest(id, method, params)

	ch := make(chan Response, 1)
	t.mu.Lock()
	t.pending[id] = ch
	t.mu.Unlock()

	if err := t.send(req); err != nil {
		t.mu.Lock()
		delete(t.pending, id)
		t.mu.Unlock()
		return nil, err
	}

	select {
	case resp := <-ch:
		return &resp, nil
	case <-ctx.Done():
		t.mu.Lock()
		delete(t.pending, id)
		t.mu.Unlock()
		return nil, ctx.Err()
	}
}

func (t *WebSocketTransport) send(req Request) error {
	encoded, err := jsonw.Marshal(req)
	if err != nil {
		return err
	}
	t.connMu.Lock()
	defer t.connMu.Unlock()
	return t.conn.WriteMessage(websocket.TextMessage, encoded)
}

// Subscription is a live handle on an `rpc.subscribe.<method>` stream.
type Subscription struct {
	ID     string
	Notify <-chan SubscriptionNotification

	transport *WebSocketTransport
}

// Subscribe issues an `rpc.subscribe.<method>` request and returns a handle
// whose Notify channel receives subsequent pushes keyed by the returned
// subscription id.
func (t *WebSocketTransport) Subscribe(ctx context.Context, method string, params any) (*Subscription, error) {
	resp, err := t.Call(ctx, SubscribePrefix+method, params)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error
	}

	var result struct {
		SubscriptionID string `json:"subscription.id"`
	}
	if err := jsonw.Unmarshal(resp.Result, &result); err != nil {
		return nil, err
	}

	ch := make(chan SubscriptionNotification, 16)
	t.mu.Lock()
	t.subs[result.SubscriptionID] = ch
	t.mu.Unlock()

	return &Subscription{ID: result.SubscriptionID, Notify: ch, transport: t}, nil
}

// Close sends rpc.subscribe.close and frees this subscription's listener
// state. Dropping a Subscription handle without calling Close leaks its
// notification channel until the transport itself closes.
func (s *Subscription) Close(ctx context.Context) error {
	s.transport.mu.Lock()
	delete(s.transport.subs, s.ID)
	s.transport.mu.Unlock()

	_, err := s.transport.Call(ctx, CloseMethod, map[string]string{"subscription.id": s.ID})
	return err
}

// Close shuts down the underlying connection. Calls still waiting for a
// response are not failed by it; each returns when its context is done.
func (t *WebSocketTransport) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	t.connMu.Lock()
	defer t.connMu.Unlock()
	return t.conn.Close()
}
